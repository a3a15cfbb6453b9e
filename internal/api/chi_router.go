// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/similia-io/similia/internal/middleware"
)

// chiMiddleware adapts func(http.HandlerFunc) http.HandlerFunc
// middleware to chi's func(http.Handler) http.Handler form.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the HTTP handler tree.
//
// Route groups carry their own rate limit tiers so that cheap health
// probes and expensive similarity queries draw from separate budgets.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================================================================
	// GLOBAL MIDDLEWARE
	// ========================================================================
	r.Use(router.chiMiddleware.RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// ========================================================================
	// PROMETHEUS METRICS ENDPOINT
	// promhttp negotiates its own gzip, so it sits outside Compression.
	// ========================================================================
	r.Handle("/metrics", promhttp.Handler())

	// ========================================================================
	// API V1 ROUTES
	// ========================================================================
	r.Route("/api/v1", func(r chi.Router) {
		// --------------------------------------------------------------------
		// Health and readiness (probe tier, no request metrics)
		// --------------------------------------------------------------------
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
			r.Use(router.chiMiddleware.APISecurityHeaders())
			r.Get("/health", router.handler.Health)
			r.Get("/ready", router.handler.HealthReady)
		})

		// --------------------------------------------------------------------
		// Catalog browsing and posters (default tier)
		// --------------------------------------------------------------------
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.chiMiddleware.APISecurityHeaders())
			r.Use(chiMiddleware(middleware.PrometheusMetrics))
			r.Use(chiMiddleware(middleware.Compression))
			r.Get("/titles", router.handler.ListTitles)
			r.Get("/titles/{titleID}", router.handler.GetTitle)
			r.Get("/titles/{titleID}/poster", router.handler.GetPoster)
		})

		// --------------------------------------------------------------------
		// Recommendations (compute tier)
		// --------------------------------------------------------------------
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitRecommend))
			r.Use(router.chiMiddleware.APISecurityHeaders())
			r.Use(chiMiddleware(middleware.PrometheusMetrics))
			r.Use(chiMiddleware(middleware.Compression))
			r.Get("/titles/{titleID}/recommendations", router.handler.Recommendations)
		})

		// --------------------------------------------------------------------
		// Catalog insights (default tier)
		// --------------------------------------------------------------------
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.chiMiddleware.APISecurityHeaders())
			r.Use(chiMiddleware(middleware.PrometheusMetrics))
			r.Use(chiMiddleware(middleware.Compression))
			r.Route("/insights", func(r chi.Router) {
				r.Get("/genres", router.handler.InsightsGenres)
				r.Get("/types", router.handler.InsightsTypes)
				r.Get("/years", router.handler.InsightsYears)
				r.Get("/overview", router.handler.InsightsOverview)
			})
		})
	})

	return r
}
