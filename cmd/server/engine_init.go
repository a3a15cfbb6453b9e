// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package main

import (
	"github.com/similia-io/similia/internal/config"
	"github.com/similia-io/similia/internal/database"
	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/recommend"
	"github.com/similia-io/similia/internal/recommend/algorithms"
)

// buildEngine creates the recommendation engine around a TF-IDF
// similarity index, fed from the database catalog.
func buildEngine(cfg *config.Config, db *database.DB) (*recommend.Engine, error) {
	logger := logging.WithComponent("recommend")

	logger.Info().
		Int("default_k", cfg.Recommend.DefaultK).
		Int("max_k", cfg.Recommend.MaxK).
		Float64("min_score", cfg.Recommend.MinScore).
		Dur("rebuild_interval", cfg.Recommend.RebuildInterval).
		Msg("initializing recommendation engine")

	index := algorithms.NewTFIDF(algorithms.TFIDFConfig{})

	return recommend.NewEngine(buildEngineConfig(cfg), index, db, logger)
}

// buildEngineConfig maps app config onto the engine configuration.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		DefaultK:  cfg.Recommend.DefaultK,
		MaxK:      cfg.Recommend.MaxK,
		MinScore:  cfg.Recommend.MinScore,
		CacheTTL:  cfg.Recommend.CacheTTL,
		CacheSize: cfg.Recommend.CacheSize,
	}
}
