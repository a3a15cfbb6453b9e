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

// PosterStore defines the maintenance surface of the poster cache.
//
// Satisfied by *posters.Service, whose RunGC and StoreCount are no-ops
// when lookups or persistence are disabled.
type PosterStore interface {
	RunGC() error
	StoreCount() (int, error)
}

// PosterStoreService runs periodic garbage collection on the persistent
// poster cache. BadgerDB reclaims value-log space only when asked, so
// without this loop a long-running process accumulates dead versions of
// expired poster entries.
type PosterStoreService struct {
	store    PosterStore
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewPosterStoreService creates a new poster store maintenance service.
// An interval of zero or less falls back to 30 minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPosterStoreService(store PosterStore, interval time.Duration, logger zerolog.Logger) *PosterStoreService {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &PosterStoreService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "poster-store").Logger(),
		name:     "poster-store",
	}
}

// Serve implements the suture.Service interface.
// It runs the garbage collection loop until the context is canceled.
func (s *PosterStoreService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("poster store maintenance starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("poster store maintenance shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.store.RunGC(); err != nil {
				s.logger.Warn().Err(err).Msg("poster cache GC failed")
				continue
			}
			if n, err := s.store.StoreCount(); err == nil {
				s.logger.Debug().Int("entries", n).Msg("poster cache GC complete")
			}
		}
	}
}

// String returns the service name for logging.
func (s *PosterStoreService) String() string {
	return s.name
}
