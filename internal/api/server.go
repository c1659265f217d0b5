// Package api exposes the classifier, formatter and generator over HTTP.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Veraticus/ccgen/internal/engine"
)

const shutdownTimeout = 5 * time.Second

// NewRouter builds the gin engine with every /api route registered.
func NewRouter(o *engine.Orchestrator, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger))
	r.Use(gin.Recovery())

	h := &handlers{orchestrator: o}
	g := r.Group("/api")
	{
		g.GET("/health", h.health)
		g.GET("/classify/:bin", h.classify)
		g.POST("/format", h.format)
		g.POST("/generate", h.generate)
	}
	return r
}

// Server serves the router until its context is canceled.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}
}

// WithTLS makes Run serve HTTPS using cfg's certificates.
func (s *Server) WithTLS(cfg *tls.Config) *Server {
	s.httpServer.TLSConfig = cfg
	return s
}

func (s *Server) listen() error {
	if s.httpServer.TLSConfig != nil {
		return s.httpServer.ListenAndServeTLS("", "")
	}
	return s.httpServer.ListenAndServe()
}

// Run listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "addr", s.httpServer.Addr, "tls", s.httpServer.TLSConfig != nil)
		if err := s.listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
