// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// DefaultK is the result count used when a request leaves K unset
	// at the API layer.
	DefaultK int `json:"default_k"`

	// MaxK caps the result count; larger requests are clamped.
	MaxK int `json:"max_k"`

	// MinScore drops results scoring below this threshold. Zero keeps
	// every candidate, including zero-similarity ones, so small
	// catalogs can still fill K results.
	MinScore float64 `json:"min_score"`

	// CacheTTL bounds how long a computed response may be served from
	// cache. Zero or negative disables response caching.
	CacheTTL time.Duration `json:"cache_ttl"`

	// CacheSize is the maximum number of cached responses.
	CacheSize int `json:"cache_size"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultK:  5,
		MaxK:      50,
		MinScore:  0,
		CacheTTL:  5 * time.Minute,
		CacheSize: 1024,
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be >= 1, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k must be >= default_k (%d), got %d", c.DefaultK, c.MaxK)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min_score must be in [0, 1], got %f", c.MinScore)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0, got %d", c.CacheSize)
	}
	return nil
}
