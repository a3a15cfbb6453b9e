// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a
// thread-safe singleton validator instance with custom validators and
// human-readable error messages. Its primary consumer is the config
// package, which validates the loaded configuration at startup before
// any service is constructed.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Field names taken from koanf struct tags, so errors report config keys
//   - Error translation to human-readable messages
//   - A custom postersize validator for TMDB image size segments
//   - Future v11 compatibility with WithRequiredStructEnabled
//
// # Quick Start
//
//	type ServerConfig struct {
//	    Host        string `koanf:"host"`
//	    Port        int    `koanf:"port" validate:"min=1,max=65535"`
//	    Environment string `koanf:"environment" validate:"oneof=development staging production"`
//	}
//
//	if verr := validation.ValidateStruct(&cfg); verr != nil {
//	    for _, fe := range verr.Errors() {
//	        log.Printf("config error: %s %s", fe.Field(), fe.Reason())
//	    }
//	    os.Exit(1)
//	}
//
// # Common Validation Tags
//
// String validations:
//   - required: Field must not be empty
//   - min=n: Minimum length n characters
//   - max=n: Maximum length n characters
//   - oneof=a b c: Must be one of the specified values
//
// Numeric validations:
//   - gte=n: Greater than or equal to n
//   - lte=n: Less than or equal to n
//   - gt=n: Greater than n
//   - min=n / max=n: Minimum / maximum value n
//
// Cross-field validations:
//   - gtefield=Other: Must be greater than or equal to field Other
//
// # Custom Validators
//
// postersize validates a TMDB image size segment:
//
//	PosterSize string `koanf:"poster_size" validate:"omitempty,postersize"`
//
// Accepted values are "original" or a width segment such as w92, w185,
// w342, or w500. TMDB builds image URLs as base/size/path, so anything
// else produces 404s from their CDN.
//
// # Error Types
//
// FieldError represents a single field validation failure:
//
//	fe.Field()  // dotted koanf path, e.g. "recommend.max_k"
//	fe.Tag()    // validation tag that failed, e.g. "gtefield"
//	fe.Param()  // tag parameter, e.g. "DefaultK"
//	fe.Value()  // actual value that failed
//	fe.Reason() // "must be greater than or equal to DefaultK"
//	fe.Error()  // "recommend.max_k must be greater than or equal to DefaultK"
//
// StructError aggregates every failed field:
//
//	verr.Errors() // []FieldError
//	verr.Error()  // combined message, "; " separated
//
// # Field Naming
//
// Errors report fields under their koanf tag names rather than Go
// identifiers. Config.Recommend.MaxK fails as "recommend.max_k" -- the
// same key users write in config files, which callers can map onward to
// environment variable names (the config package reports RECOMMEND_MAX_K).
//
// # Error Message Translation
//
// Human-readable reasons are generated for common validation tags:
//
//	required      -> "is required"
//	min=1         -> "must be at least 1"
//	max=65535     -> "must be at most 65535"
//	gte=0         -> "must be greater than or equal to 0"
//	lte=1         -> "must be less than or equal to 1"
//	oneof=a b     -> "must be one of: a b"
//	gtefield=X    -> "must be greater than or equal to X"
//	postersize    -> "must be \"original\" or a TMDB width segment like w500"
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use:
//
//	validate := validation.Get()            // Thread-safe
//	verr := validation.ValidateStruct(&cfg) // Thread-safe
//
// # Performance
//
// The validator caches struct reflection information:
//   - First validation of a struct type: ~1ms (reflection + caching)
//   - Subsequent validations: ~10us (cached)
//   - Memory: ~500 bytes per cached struct type
//
// # See Also
//
//   - internal/config: Configuration validation using this package
//   - github.com/go-playground/validator/v10: Underlying library
package validation
