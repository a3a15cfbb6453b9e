// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/similia-io/similia/internal/validation"
)

// Validate checks that required configuration is present and valid.
//
// Ranges, enums, and cross-field ordering are declared as validate tags
// on the config structs and checked with go-playground/validator via
// the validation package. Checks a tag cannot express stay hand-rolled
// below: the .csv dataset suffix, the TMDB block that only applies when
// lookups are enabled, and case-insensitive log level matching.
//
// Failed fields are reported under their environment variable names
// (RECOMMEND_MAX_K, not recommend.max_k) so startup errors tell the
// operator which variable to fix.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return describeStructError(verr)
	}

	if err := c.validateDataset(); err != nil {
		return err
	}

	if err := c.validateTMDB(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDataset validates the catalog dataset configuration
func (c *Config) validateDataset() error {
	if !strings.HasSuffix(strings.ToLower(c.Dataset.Path), ".csv") {
		return fmt.Errorf("DATASET_PATH must point to a .csv file, got: %s", c.Dataset.Path)
	}
	return nil
}

// validateTMDB validates poster lookup settings (only if enabled)
func (c *Config) validateTMDB() error {
	if !c.TMDB.Enabled {
		return nil // poster lookups are optional
	}

	if err := validateBaseURL(c.TMDB.BaseURL, "TMDB_BASE_URL"); err != nil {
		return err
	}
	if err := validateBaseURL(c.TMDB.ImageBaseURL, "TMDB_IMAGE_BASE_URL"); err != nil {
		return err
	}
	if c.TMDB.PosterSize == "" {
		return fmt.Errorf("TMDB_POSTER_SIZE is required when TMDB_ENABLED=true")
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive, got: %s", c.TMDB.Timeout)
	}
	if c.TMDB.RateLimit <= 0 {
		return fmt.Errorf("TMDB_RATE_LIMIT must be positive, got: %g", c.TMDB.RateLimit)
	}

	return nil
}

// validateLogging validates the logging configuration. Level and format
// match case-insensitively, which oneof tags cannot do.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, got: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}

	return nil
}

// validateBaseURL validates that a URL is a usable HTTP/HTTPS base URL.
// Paths are allowed (the TMDB API base carries a version segment).
func validateBaseURL(rawURL, fieldName string) error {
	if rawURL == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}

// describeStructError rewrites validator field paths as environment
// variable names: "recommend.max_k must be ..." becomes
// "RECOMMEND_MAX_K must be ...". Every failed field is reported.
func describeStructError(verr *validation.StructError) error {
	fieldErrs := verr.Errors()
	messages := make([]string, len(fieldErrs))
	for i := range fieldErrs {
		messages[i] = envNameFor(fieldErrs[i].Field()) + " " + fieldErrs[i].Reason()
	}
	return errors.New(strings.Join(messages, "; "))
}

var (
	envNames     map[string]string
	envNamesOnce sync.Once
)

// envNameFor maps a koanf config path back to its environment variable
// name using the reverse of the envMappings table. Unmapped paths fall
// back to the uppercased dotted path.
func envNameFor(path string) string {
	envNamesOnce.Do(func() {
		envNames = make(map[string]string, len(envMappings))
		for envKey, koanfPath := range envMappings {
			envNames[koanfPath] = strings.ToUpper(envKey)
		}
	})

	if name, ok := envNames[path]; ok {
		return name
	}
	return strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}
