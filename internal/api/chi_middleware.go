// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/metrics"
	"github.com/similia-io/similia/internal/middleware"
)

// defaultRateWindow is the rate limit window used when no security
// configuration is supplied.
const defaultRateWindow = time.Minute

// RateLimitConfig defines a per-IP rate limit tier.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Rate limit tiers. Health probes poll frequently and are cheap;
// recommendations walk the candidate pool and get a tighter budget.
var (
	RateLimitHealth    = RateLimitConfig{Requests: 120, Window: time.Minute}
	RateLimitRecommend = RateLimitConfig{Requests: 60, Window: time.Minute}
)

// ChiMiddleware builds the cross-cutting middleware used by the chi
// router from the security configuration.
type ChiMiddleware struct {
	corsOrigins       []string
	rateLimitReqs     int
	rateLimitWindow   time.Duration
	rateLimitDisabled bool
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(corsOrigins []string, rateLimitReqs int, rateLimitWindow time.Duration, rateLimitDisabled bool) *ChiMiddleware {
	return &ChiMiddleware{
		corsOrigins:       corsOrigins,
		rateLimitReqs:     rateLimitReqs,
		rateLimitWindow:   rateLimitWindow,
		rateLimitDisabled: rateLimitDisabled,
	}
}

// CORS returns the CORS middleware for browser clients. The API is
// read-only, so only GET and OPTIONS are allowed.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	origins := m.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimit returns the default per-IP rate limiter from the security
// configuration.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.RateLimitCustom(RateLimitConfig{
		Requests: m.rateLimitReqs,
		Window:   m.rateLimitWindow,
	})
}

// RateLimitCustom returns a per-IP rate limiter for a specific tier.
// When rate limiting is disabled (load tests, local development) the
// returned middleware is a no-op.
func (m *ChiMiddleware) RateLimitCustom(config RateLimitConfig) func(http.Handler) http.Handler {
	if m.rateLimitDisabled || config.Requests <= 0 {
		return noopMiddleware
	}
	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(r.URL.Path)
			logging.Warn().
				Str("path", sanitizeLogValue(r.URL.Path)).
				Str("remote", sanitizeLogValue(r.RemoteAddr)).
				Msg("Rate limit exceeded")
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests, slow down")
		}),
	)
}

// APISecurityHeaders sets defensive response headers on API routes.
// HSTS is only meaningful over TLS, so it is set conditionally.
func (m *ChiMiddleware) APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDWithLogging assigns a request id, propagates it through the
// context for log correlation, and emits a completion line with the
// final status.
func (m *ChiMiddleware) RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		traced := middleware.RequestID(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logging.Debug().
				Str("request_id", middleware.GetRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", sanitizeLogValue(r.URL.Path)).
				Int("status", sw.status).
				Dur("duration", time.Since(start)).
				Msg("Request completed")
		})
		return http.HandlerFunc(traced)
	}
}

// noopMiddleware passes requests through unchanged.
func noopMiddleware(next http.Handler) http.Handler {
	return next
}

// statusResponseWriter captures the response status for the completion
// log.
type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
