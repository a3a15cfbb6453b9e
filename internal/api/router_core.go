// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"github.com/similia-io/similia/internal/config"
)

// Router wires the endpoint handlers to the HTTP mux with the
// middleware stack built from configuration.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler set.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	var (
		corsOrigins       []string
		rateLimitReqs     = 100
		rateLimitWindow   = defaultRateWindow
		rateLimitDisabled bool
	)
	if cfg != nil {
		corsOrigins = cfg.Security.CORSOrigins
		rateLimitReqs = cfg.Security.RateLimitReqs
		rateLimitWindow = cfg.Security.RateLimitWindow
		rateLimitDisabled = cfg.Security.RateLimitDisabled
	}

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(corsOrigins, rateLimitReqs, rateLimitWindow, rateLimitDisabled),
	}
}
