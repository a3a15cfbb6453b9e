// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

// Package api implements HTTP handlers for the Similia REST API.
//
// Handler organization:
//   - handlers.go: Core Handler struct, constructor, and guards
//   - handlers_helpers.go: Response encoding and parameter parsing
//   - handlers_health.go: Health and readiness endpoints
//   - handlers_titles.go: Catalog browse and title detail endpoints
//   - handlers_recommend.go: Similar-title recommendation endpoint
//   - handlers_posters.go: Poster lookup endpoint
//   - handlers_insights.go: Catalog aggregation endpoints
//   - errors.go: Domain error to HTTP status mapping
//
// Routing lives in chi_router.go; cross-cutting request middleware in
// chi_middleware.go.
package api

import (
	"net/http"
	"time"

	"github.com/similia-io/similia/internal/config"
	"github.com/similia-io/similia/internal/database"
	"github.com/similia-io/similia/internal/insights"
	"github.com/similia-io/similia/internal/posters"
	"github.com/similia-io/similia/internal/recommend"
)

// Handler holds the dependencies shared by all endpoint handlers.
type Handler struct {
	db       *database.DB
	engine   *recommend.Engine
	insights *insights.Service
	posters  *posters.Service

	config    *config.Config
	startTime time.Time
}

// NewHandler creates the API handler set. The poster service may be nil
// when TMDB integration is disabled; every other dependency is required
// for the corresponding endpoints to respond.
func NewHandler(db *database.DB, engine *recommend.Engine, ins *insights.Service, post *posters.Service, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		engine:    engine,
		insights:  ins,
		posters:   post,
		config:    cfg,
		startTime: time.Now(),
	}
}

// requireMethod enforces the HTTP method and writes 405 on mismatch.
// Returns true when the request may proceed.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
		return false
	}
	return true
}

// requireDB guards endpoints that read the catalog store directly.
func (h *Handler) requireDB(w http.ResponseWriter) bool {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, codeServiceError, "Database not available")
		return false
	}
	return true
}

// requireEngine guards endpoints that consult the similarity index.
func (h *Handler) requireEngine(w http.ResponseWriter) bool {
	if h.engine == nil {
		respondError(w, http.StatusServiceUnavailable, codeServiceError, "Recommendation engine not available")
		return false
	}
	return true
}

// pageSizeConfig returns the configured default and maximum page sizes,
// falling back to safe values when the config is absent (tests).
func (h *Handler) pageSizeConfig() (defaultSize, maxSize int) {
	if h.config == nil {
		return 20, 100
	}
	return h.config.API.DefaultPageSize, h.config.API.MaxPageSize
}
