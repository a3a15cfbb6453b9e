// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

// Package config loads and validates Similia configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an
// optional YAML file, then environment variables. Environment variables
// always win. See koanf.go for the env var mapping table.
package config

import (
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for the Similia service.
type Config struct {
	Dataset   DatasetConfig   `koanf:"dataset"`
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Recommend RecommendConfig `koanf:"recommend"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatasetConfig holds catalog dataset settings.
type DatasetConfig struct {
	// Path is the catalog CSV file to load at startup.
	// The file must carry the standard header:
	// show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
	Path string `koanf:"path" validate:"required"`
}

// DatabaseConfig holds DuckDB settings for the analytical store.
type DatabaseConfig struct {
	Path                   string `koanf:"path" validate:"required"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads" validate:"gte=0"` // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development staging production"`
}

// APIConfig holds API pagination and response settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"gtefield=DefaultPageSize"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// RecommendConfig holds similarity index and recommendation settings.
type RecommendConfig struct {
	// DefaultK is the result count used when a request does not specify k.
	// Default: 5
	DefaultK int `koanf:"default_k" validate:"min=1"`

	// MaxK caps the result count per request. Larger requests are clamped.
	// Default: 50
	MaxK int `koanf:"max_k" validate:"gtefield=DefaultK"`

	// MinScore drops candidates scoring below this threshold.
	// The default of 0 keeps every candidate, including zero-similarity
	// ones, so small filtered pools can still fill k results.
	MinScore float64 `koanf:"min_score" validate:"gte=0,lte=1"`

	// CacheTTL is how long to cache recommendation responses.
	// Default: 5m
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	// CacheSize is the maximum number of cached responses.
	// Default: 1024
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// RebuildInterval is how often to rebuild the index from the store.
	// 0 disables periodic rebuilds; the index is always built at startup.
	RebuildInterval time.Duration `koanf:"rebuild_interval" validate:"gte=0"`
}

// TMDBConfig holds poster lookup settings for The Movie Database.
type TMDBConfig struct {
	// Enabled controls whether poster lookups run at all. Lookups are
	// also skipped when APIKey is empty.
	Enabled bool `koanf:"enabled"`

	// APIKey authenticates against the TMDB v3 API. Usually supplied via
	// the TMDB_API_KEY environment variable or a .env file.
	APIKey string `koanf:"api_key"`

	BaseURL      string `koanf:"base_url"`
	ImageBaseURL string `koanf:"image_base_url"`

	// PosterSize selects the TMDB image size segment (w185, w342, w500...).
	PosterSize string `koanf:"poster_size" validate:"omitempty,postersize"`

	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the sustained request rate against TMDB in requests
	// per second; RateBurst is the burst allowance.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" validate:"gte=0"`

	// CachePath is the BadgerDB directory for the persistent poster
	// cache. Empty disables persistence (memory-only memoization).
	CachePath string `koanf:"cache_path"`

	// CacheSize is the in-memory hot cache capacity (entries).
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// CacheTTL is how long successful lookups stay memoized.
	// NegativeCacheTTL covers lookups that found no acceptable match,
	// so unknown titles do not hammer the API.
	CacheTTL         time.Duration `koanf:"cache_ttl"`
	NegativeCacheTTL time.Duration `koanf:"negative_cache_ttl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
//
// A .env file in the working directory, if present, is folded into the
// environment first (without overriding variables already set) -- the
// usual way to supply TMDB_API_KEY in development.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadWithKoanf()
}
