package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/ccgen/internal/config"
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/generator"
	"github.com/Veraticus/ccgen/internal/service"
	"github.com/Veraticus/ccgen/internal/storage"
)

// initStorage opens and migrates the history database.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newGenerator builds the API client from configuration.
func newGenerator(cfg *config.Config) *generator.Client {
	return generator.NewClient(
		generator.WithBaseURL(cfg.API.BaseURL),
		generator.WithTimeout(cfg.API.Timeout),
		generator.WithRetries(cfg.API.Retries),
	)
}

// newOrchestrator wires the generator and history store. History is optional:
// when the database cannot be opened the orchestrator runs without it. The
// returned cleanup closes whatever was opened.
func newOrchestrator(ctx context.Context, cfg *config.Config, opts ...engine.Option) (*engine.Orchestrator, func()) {
	var history service.HistoryStore
	cleanup := func() {}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		slog.Warn("BIN history disabled", "path", cfg.Database.Path, "error", err)
	} else {
		history = store
		cleanup = func() {
			if closeErr := store.Close(); closeErr != nil {
				slog.Warn("Failed to close history database", "error", closeErr)
			}
		}
	}

	opts = append([]engine.Option{engine.WithRateLimit(cfg.API.RatePerSecond)}, opts...)
	return engine.New(newGenerator(cfg), history, opts...), cleanup
}
