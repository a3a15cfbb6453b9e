// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

// Package metrics provides Prometheus instrumentation for:
//   - API endpoint latency and throughput
//   - Recommendation engine requests and index builds
//   - Poster lookup outcomes and cache efficiency
//   - Catalog size
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similia_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "similia_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similia_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similia_http_rate_limit_hits_total",
			Help: "Total number of rate-limited requests",
		},
		[]string{"endpoint"},
	)

	// Recommendation Engine Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similia_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"status"}, // "ok", "not_found", "invalid", "not_trained", "error"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similia_recommendation_duration_seconds",
			Help:    "Duration of recommendation computations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "similia_recommendation_cache_hits_total",
			Help: "Total number of recommendation responses served from cache",
		},
	)

	RecommendationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "similia_recommendation_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Index Metrics
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similia_index_build_duration_seconds",
			Help:    "Duration of similarity index builds in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	IndexVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similia_index_vocabulary_size",
			Help: "Number of distinct terms in the similarity index",
		},
	)

	DatasetTitles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similia_dataset_titles",
			Help: "Number of titles in the loaded catalog",
		},
	)

	// Poster Metrics
	PosterLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similia_poster_lookups_total",
			Help: "Total number of poster lookups by outcome",
		},
		[]string{"outcome"}, // "hit", "store_hit", "miss", "negative", "error", "disabled"
	)

	PosterCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similia_poster_cache_entries",
			Help: "Current number of entries in the in-memory poster cache",
		},
	)

	PosterAPICallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similia_poster_api_call_duration_seconds",
			Help:    "Duration of TMDB API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordAPIRequest records metrics for an HTTP request
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordRecommendation records a recommendation request outcome
func RecordRecommendation(status string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		RecommendationDuration.Observe(duration.Seconds())
	}
}

// RecordRecommendationCache records a response cache hit or miss
func RecordRecommendationCache(hit bool) {
	if hit {
		RecommendationCacheHits.Inc()
	} else {
		RecommendationCacheMisses.Inc()
	}
}

// RecordIndexBuild records a completed index build
func RecordIndexBuild(duration time.Duration, vocabularySize, datasetTitles int) {
	IndexBuildDuration.Observe(duration.Seconds())
	IndexVocabularySize.Set(float64(vocabularySize))
	DatasetTitles.Set(float64(datasetTitles))
}

// RecordPosterLookup records a poster lookup outcome
func RecordPosterLookup(outcome string) {
	PosterLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordPosterAPICall records the duration of a TMDB search call
func RecordPosterAPICall(duration time.Duration) {
	PosterAPICallDuration.Observe(duration.Seconds())
}

// SetPosterCacheEntries updates the in-memory poster cache gauge
func SetPosterCacheEntries(n int) {
	PosterCacheEntries.Set(float64(n))
}
