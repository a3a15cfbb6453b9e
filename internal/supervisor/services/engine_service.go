// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// trainTimeout bounds a single training cycle so a wedged rebuild cannot
// block shutdown indefinitely.
const trainTimeout = 30 * time.Minute

// EngineTrainer defines the training surface of the recommendation engine.
// This allows the service to work with the engine without circular imports.
type EngineTrainer interface {
	// Train builds the feature matrix and similarity index.
	Train(ctx context.Context) error
}

// EngineTrainerConfig holds configuration for the engine trainer service.
type EngineTrainerConfig struct {
	// TrainOnStartup triggers training when the service starts.
	TrainOnStartup bool

	// RebuildInterval is how often to rebuild the index. Zero or
	// negative disables scheduled rebuilds; the index is then built
	// once at startup and the service just waits for shutdown.
	RebuildInterval time.Duration
}

// EngineTrainerService owns the training lifecycle of the recommendation
// engine under supervision: optional startup training plus scheduled
// rebuilds. A failed cycle is logged and retried on the next tick rather
// than crashing the service, so the API keeps serving the previous index.
type EngineTrainerService struct {
	engine EngineTrainer
	config EngineTrainerConfig
	logger zerolog.Logger
	name   string
}

// NewEngineTrainerService creates a new engine trainer service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngineTrainerService(engine EngineTrainer, cfg EngineTrainerConfig, logger zerolog.Logger) *EngineTrainerService {
	return &EngineTrainerService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "engine-trainer").Logger(),
		name:   "engine-trainer",
	}
}

// Serve implements the suture.Service interface.
// It manages the training loop for the recommendation engine.
func (s *EngineTrainerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("rebuild_interval", s.config.RebuildInterval).
		Msg("engine trainer starting")

	if s.config.TrainOnStartup {
		if err := s.train(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn().Err(err).Msg("startup training failed (will retry on schedule)")
		}
	}

	// No schedule: hold the built index until shutdown.
	if s.config.RebuildInterval <= 0 {
		s.logger.Info().Msg("scheduled rebuilds disabled")
		<-ctx.Done()
		s.logger.Info().Msg("engine trainer shutting down")
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.RebuildInterval)
	defer ticker.Stop()

	s.logger.Info().Msg("engine trainer running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("engine trainer shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled rebuild triggered")
			if err := s.train(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled rebuild failed")
			}
		}
	}
}

// train performs one training cycle with proper context handling.
func (s *EngineTrainerService) train(ctx context.Context) error {
	trainCtx, cancel := context.WithTimeout(ctx, trainTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info().Msg("building similarity index")

	if err := s.engine.Train(trainCtx); err != nil {
		return err
	}

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("similarity index built")

	return nil
}

// String returns the service name for logging.
func (s *EngineTrainerService) String() string {
	return s.name
}
