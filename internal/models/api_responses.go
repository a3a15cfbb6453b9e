// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"recommendations": [...]},
//	  "metadata": {
//	    "timestamp": "2026-08-01T12:00:00Z",
//	    "query_time_ms": 3,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "TITLE_NOT_FOUND",
//	    "message": "No title with id s99999",
//	    "details": {"title_id": "s99999"}
//	  },
//	  "metadata": {"timestamp": "2026-08-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Handler execution time in milliseconds (0 if cached)
//   - Cached: Whether response was served from cache (omitted if false)
//   - Count: Number of items in list-shaped responses (omitted otherwise)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Count       int       `json:"count,omitempty"`
}

// APIError represents an error response with structured error details.
// Provides consistent error format across all API endpoints for better client handling.
//
// Common error codes:
//   - INVALID_PARAMETER: Invalid input parameters (bad k, bad year range)
//   - TITLE_NOT_FOUND: The requested title id is not in the catalog
//   - DATASET_UNAVAILABLE: The catalog failed to load or the index is not built
//   - INTERNAL_ERROR: Unexpected server failure
//   - RATE_LIMIT_EXCEEDED: Too many requests
//
// Example:
//
//	{
//	  "code": "INVALID_PARAMETER",
//	  "message": "k must be a positive integer",
//	  "details": {"field": "k", "value": 0}
//	}
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo contains offset-based pagination metadata for catalog browsing.
//
// Fields:
//   - Limit: Maximum results per page (from request)
//   - Offset: Starting position of current page
//   - HasMore: Whether more results exist beyond current page
//   - TotalCount: Total results matching the filter
type PaginationInfo struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
	TotalCount int  `json:"total_count"`
}

// TitlesResponse wraps a catalog browse result with pagination info.
type TitlesResponse struct {
	Titles     []Title        `json:"titles"`
	Pagination PaginationInfo `json:"pagination"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	IndexReady        bool    `json:"index_ready"`
	DatasetTitles     int     `json:"dataset_titles"`
	PostersEnabled    bool    `json:"posters_enabled"`
	Uptime            float64 `json:"uptime_seconds"`
}
