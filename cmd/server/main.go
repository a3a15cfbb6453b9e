// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/similia-io/similia/internal/api"
	"github.com/similia-io/similia/internal/catalog"
	"github.com/similia-io/similia/internal/config"
	"github.com/similia-io/similia/internal/database"
	"github.com/similia-io/similia/internal/insights"
	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/posters"
	"github.com/similia-io/similia/internal/supervisor"
	"github.com/similia-io/similia/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Similia with supervisor tree")
	logging.Info().
		Str("dataset", cfg.Dataset.Path).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	// Initialize the DuckDB catalog store
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Load the catalog dataset. A missing or malformed dataset is fatal:
	// without a catalog there is nothing to recommend from.
	if err := loadDataset(context.Background(), cfg, db); err != nil {
		// Close database before fatal exit to ensure defer runs
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing database")
		}
		logging.Fatal().Err(err).Msg("Failed to load catalog dataset")
	}

	// Build the recommendation engine around the TF-IDF index
	engine, err := buildEngine(cfg, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing database")
		}
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	// Poster lookups against TMDB (optional)
	posterSvc, err := posters.NewService(&cfg.TMDB, logging.WithComponent("posters"))
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing database")
		}
		logging.Fatal().Err(err).Msg("Failed to initialize poster service")
	}
	defer func() {
		if err := posterSvc.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing poster cache")
		}
	}()

	insightsSvc := insights.New(db)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(db, engine, insightsSvc, posterSvc, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer: index training plus poster cache maintenance.
	// The trainer builds the index on startup; recommendation routes
	// answer 503 until the first cycle completes (see /api/v1/ready).
	tree.AddDataService(services.NewEngineTrainerService(engine, services.EngineTrainerConfig{
		TrainOnStartup:  true,
		RebuildInterval: cfg.Recommend.RebuildInterval,
	}, logging.WithComponent("recommend")))

	if posterSvc.Enabled() && cfg.TMDB.CachePath != "" {
		tree.AddDataService(services.NewPosterStoreService(posterSvc, 30*time.Minute, logging.WithComponent("posters")))
		logging.Info().Msg("Poster store maintenance added to supervisor tree")
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// loadDataset parses the catalog CSV and replaces the store contents
// with it. An unreadable file, a bad header, an unparseable value, or
// an empty catalog all surface as errors here; rows missing mandatory
// fields were already dropped by the loader.
func loadDataset(ctx context.Context, cfg *config.Config, db *database.DB) error {
	start := time.Now()

	titles, err := catalog.Load(cfg.Dataset.Path)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", cfg.Dataset.Path, err)
	}

	if err := db.ReplaceTitles(ctx, titles); err != nil {
		return fmt.Errorf("store catalog: %w", err)
	}

	logging.Info().
		Int("titles", len(titles)).
		Str("path", cfg.Dataset.Path).
		Dur("duration", time.Since(start)).
		Msg("Catalog dataset loaded")
	return nil
}
