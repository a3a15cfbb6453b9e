// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"net/http"
	"time"

	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/models"
)

// defaultGenreLimit caps the genre distribution when the client does
// not ask for a specific size. Matches the ten-bar chart the catalog
// exploration UI renders.
const defaultGenreLimit = 10

// InsightsGenres handles GET /api/v1/insights/genres.
func (h *Handler) InsightsGenres(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, codeServiceError, "Insights not available")
		return
	}

	limit, err := getIntParam(r, "limit", defaultGenreLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
		return
	}
	if limit < 1 {
		limit = defaultGenreLimit
	}

	start := time.Now()

	genres, err := h.insights.TopGenres(r.Context(), limit)
	if err != nil {
		logging.Err(err).Msg("Failed to aggregate genres")
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Failed to aggregate catalog")
		return
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"genres": genres},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryMillis(start),
			Count:       len(genres),
		},
	})
}

// InsightsTypes handles GET /api/v1/insights/types.
func (h *Handler) InsightsTypes(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, codeServiceError, "Insights not available")
		return
	}

	start := time.Now()

	types, err := h.insights.TypeCounts(r.Context())
	if err != nil {
		logging.Err(err).Msg("Failed to aggregate media types")
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Failed to aggregate catalog")
		return
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"types": types},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryMillis(start),
			Count:       len(types),
		},
	})
}

// InsightsYears handles GET /api/v1/insights/years.
//
// Returns the release-year histogram, optionally truncated with
// ?from=YYYY to skip the long pre-streaming tail.
func (h *Handler) InsightsYears(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, codeServiceError, "Insights not available")
		return
	}

	fromYear, err := getIntParam(r, "from", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
		return
	}

	start := time.Now()

	years, err := h.insights.TitlesPerYear(r.Context(), fromYear)
	if err != nil {
		logging.Err(err).Msg("Failed to aggregate release years")
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Failed to aggregate catalog")
		return
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"years": years},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryMillis(start),
			Count:       len(years),
		},
	})
}

// InsightsOverview handles GET /api/v1/insights/overview.
func (h *Handler) InsightsOverview(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.insights == nil {
		respondError(w, http.StatusServiceUnavailable, codeServiceError, "Insights not available")
		return
	}

	start := time.Now()

	overview, err := h.insights.Overview(r.Context())
	if err != nil {
		logging.Err(err).Msg("Failed to build catalog overview")
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Failed to aggregate catalog")
		return
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   overview,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryMillis(start),
		},
	})
}
