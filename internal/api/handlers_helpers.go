// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	json "github.com/goccy/go-json"

	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/models"
)

// sanitizeLogValue strips control characters from user-supplied strings
// before they reach the log stream, preventing log injection. Printable
// runes pass through; everything else is hex-escaped.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		} else {
			fmt.Fprintf(&b, "\\x%02x", r)
		}
	}
	return b.String()
}

// generateETag computes an FNV-1a hash of the response body for cheap
// cache validation.
func generateETag(body []byte) string {
	hash := uint32(2166136261)
	for _, b := range body {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return fmt.Sprintf("\"%08x\"", hash)
}

// respondJSON writes a JSON response with cache validation headers.
// Successful responses carry an ETag so clients can revalidate cheaply;
// the catalog only changes on retrain, so a short max-age is safe.
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logging.Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","error":{"code":"INTERNAL_ERROR","message":"Failed to encode response"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if statusCode == http.StatusOK {
		w.Header().Set("ETag", generateETag(body))
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Header().Set("Vary", "Accept-Encoding")
	}
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		logging.Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes a standard error envelope.
func respondError(w http.ResponseWriter, statusCode int, code, message string) {
	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	}
	respondJSON(w, statusCode, resp)
}

// parseIntParam converts a query parameter value to int. Rejects
// trailing garbage ("12abc"), unlike Sscanf-style prefix parsing.
func parseIntParam(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %q", value)
	}
	return n, nil
}

// getIntParam reads an optional integer query parameter, returning the
// default when absent and an error when present but malformed.
func getIntParam(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := parseIntParam(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %s: %w", name, err)
	}
	return n, nil
}

// getBoolParam reads an optional boolean query parameter. Only "true"
// and "1" enable the flag; anything else (including absence) is false.
func getBoolParam(r *http.Request, name string) bool {
	raw := strings.ToLower(r.URL.Query().Get(name))
	return raw == "true" || raw == "1"
}

// parseCommaSeparated splits a comma-separated query value into trimmed
// non-empty elements. Returns nil for an empty input.
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// queryMillis returns elapsed time in whole milliseconds for response
// metadata.
func queryMillis(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
