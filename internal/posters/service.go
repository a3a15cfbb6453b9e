// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package posters

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/similia-io/similia/internal/cache"
	"github.com/similia-io/similia/internal/config"
	"github.com/similia-io/similia/internal/metrics"
	"github.com/similia-io/similia/internal/models"
)

// Service memoizes poster lookups. Requests flow through an in-memory
// hot cache, then the persistent store, and only then to TMDB, with
// concurrent lookups for the same title collapsed into one API call.
//
// Lookup never returns an error: a failed lookup is logged, counted,
// and surfaces as a nil reference so callers degrade to "no poster".
type Service struct {
	cfg    *config.TMDBConfig
	logger zerolog.Logger
	client *Client
	hot    *cache.LRUCache[*models.PosterRef]
	store  *posterStore
	group  singleflight.Group
}

// NewService creates the poster lookup service. When lookups are
// disabled, or no API key is configured, the returned service answers
// every lookup with nil and never touches the network.
func NewService(cfg *config.TMDBConfig, logger zerolog.Logger) (*Service, error) {
	svc := &Service{cfg: cfg, logger: logger}

	if cfg == nil || !cfg.Enabled || cfg.APIKey == "" {
		logger.Info().Msg("Poster lookups disabled")
		return svc, nil
	}

	// The hot cache has a single TTL for all entries, so it uses the
	// shorter of the two lifetimes; the persistent store keeps
	// positive and negative entries at their full lengths.
	hotTTL := cfg.CacheTTL
	if cfg.NegativeCacheTTL > 0 && cfg.NegativeCacheTTL < hotTTL {
		hotTTL = cfg.NegativeCacheTTL
	}

	svc.client = NewClient(cfg)
	svc.hot = cache.NewLRUCache[*models.PosterRef](cfg.CacheSize, hotTTL)

	if cfg.CachePath != "" {
		db, err := openPosterDB(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("open poster cache: %w", err)
		}
		svc.store = newPosterStore(db)
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Bool("persistent_cache", svc.store != nil).
		Msg("Poster lookups enabled")
	return svc, nil
}

// Enabled reports whether lookups will reach TMDB.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Lookup resolves poster artwork for a catalog title. It returns nil
// when lookups are disabled or the lookup failed, and an unmatched
// reference when TMDB had no acceptable candidate. Results, including
// unmatched ones, are memoized.
func (s *Service) Lookup(ctx context.Context, name string, year int, mediaType models.MediaType) *models.PosterRef {
	if !s.Enabled() {
		metrics.RecordPosterLookup("disabled")
		return nil
	}

	key := memoKey(name, year, mediaType)

	if ref, ok := s.hot.Get(key); ok {
		metrics.RecordPosterLookup("hit")
		return ref
	}

	if s.store != nil {
		if ref, ok := s.store.Get(key); ok {
			s.hot.Add(key, ref)
			metrics.RecordPosterLookup("store_hit")
			return ref
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.fetch(ctx, key, name, year, mediaType)
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("title", name).
			Int("year", year).
			Msg("Poster lookup failed")
		metrics.RecordPosterLookup("error")
		return nil
	}

	ref := v.(*models.PosterRef)
	if ref.Matched {
		metrics.RecordPosterLookup("miss")
	} else {
		metrics.RecordPosterLookup("negative")
	}
	return ref
}

// fetch performs the TMDB search and memoizes the outcome. Errors are
// not cached so transient failures retry on the next request.
func (s *Service) fetch(ctx context.Context, key, name string, year int, mediaType models.MediaType) (*models.PosterRef, error) {
	ref, err := s.client.Search(ctx, name, year, mediaType)
	if err != nil {
		return nil, err
	}

	s.hot.Add(key, ref)
	metrics.SetPosterCacheEntries(s.hot.Len())

	if s.store != nil {
		ttl := s.cfg.CacheTTL
		if !ref.Matched {
			ttl = s.cfg.NegativeCacheTTL
		}
		if err := s.store.Set(key, ref, ttl); err != nil {
			s.logger.Warn().Err(err).Str("title", name).Msg("Persist poster entry failed")
		}
	}

	return ref, nil
}

// RunGC reclaims space in the persistent cache. Safe to call on a
// service without persistence.
func (s *Service) RunGC() error {
	if s == nil || s.store == nil {
		return nil
	}
	if n, err := s.store.Count(); err == nil {
		metrics.SetPosterCacheEntries(n)
	}
	return s.store.RunGC()
}

// StoreCount returns the number of persisted poster entries.
func (s *Service) StoreCount() (int, error) {
	if s == nil || s.store == nil {
		return 0, nil
	}
	return s.store.Count()
}

// Close releases the persistent cache.
func (s *Service) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

// memoKey canonicalizes a lookup into its cache key. Media type is
// part of the key because a movie and a show can share a title.
func memoKey(name string, year int, mediaType models.MediaType) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strconv.Itoa(year) + "|" + string(mediaType)
}
