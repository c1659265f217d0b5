package main

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/ccgen/internal/api"
	"github.com/Veraticus/ccgen/internal/certs"
	"github.com/Veraticus/ccgen/internal/config"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier and formatter over HTTP",
		Long: `Start an HTTP server exposing:

  GET  /api/health
  GET  /api/classify/:bin
  POST /api/format?format=csv&currency=&balance=
  POST /api/generate`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if viper.GetString("logging.level") == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	o, cleanup := newOrchestrator(ctx, cfg)
	defer cleanup()

	router := api.NewRouter(o, slog.Default())
	server := api.NewServer(cfg.Server.Addr, router)
	if cfg.Server.TLS {
		tlsConfig, err := certs.NewStore(cfg.Server.CertDir).TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		server.WithTLS(tlsConfig)
	}
	return server.Run(ctx)
}
