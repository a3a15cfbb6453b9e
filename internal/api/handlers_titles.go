// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/similia-io/similia/internal/database"
	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/models"
)

// listTitlesParams carries the parsed /titles query parameters.
type listTitlesParams struct {
	filter database.TitleFilter
}

// parseListTitlesParams validates browse parameters. Limit is clamped
// to the configured page-size bounds; malformed values are errors.
func (h *Handler) parseListTitlesParams(r *http.Request) (listTitlesParams, error) {
	var params listTitlesParams
	defaultSize, maxSize := h.pageSizeConfig()

	limit, err := getIntParam(r, "limit", defaultSize)
	if err != nil {
		return params, err
	}
	if limit < 1 {
		limit = defaultSize
	}
	if limit > maxSize {
		limit = maxSize
	}

	offset, err := getIntParam(r, "offset", 0)
	if err != nil {
		return params, err
	}
	if offset < 0 {
		offset = 0
	}

	yearMin, err := getIntParam(r, "year_min", 0)
	if err != nil {
		return params, err
	}
	yearMax, err := getIntParam(r, "year_max", 0)
	if err != nil {
		return params, err
	}

	var mediaType models.MediaType
	if raw := r.URL.Query().Get("type"); raw != "" {
		mediaType, err = models.ParseMediaType(raw)
		if err != nil {
			return params, fmt.Errorf("parameter type: %w", err)
		}
	}

	params.filter = database.TitleFilter{
		Genre:   r.URL.Query().Get("genre"),
		Type:    mediaType,
		YearMin: yearMin,
		YearMax: yearMax,
		Query:   r.URL.Query().Get("q"),
		Limit:   limit,
		Offset:  offset,
	}
	return params, nil
}

// ListTitles handles GET /api/v1/titles.
//
// Browse and search the catalog with the same hard filters the
// recommendation endpoint honors, plus q substring search and
// offset pagination.
func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if !h.requireDB(w) {
		return
	}

	params, err := h.parseListTitlesParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
		return
	}
	if params.filter.YearMin > 0 && params.filter.YearMax > 0 && params.filter.YearMin > params.filter.YearMax {
		respondError(w, http.StatusBadRequest, codeInvalidYearRange, "year_min must not exceed year_max")
		return
	}

	start := time.Now()

	total, err := h.db.CountTitles(r.Context(), params.filter)
	if err != nil {
		logging.Err(err).Msg("Failed to count titles")
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Failed to query catalog")
		return
	}

	titles, err := h.db.ListTitles(r.Context(), params.filter)
	if err != nil {
		logging.Err(err).Msg("Failed to list titles")
		respondError(w, http.StatusInternalServerError, codeDatabaseError, "Failed to query catalog")
		return
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data: models.TitlesResponse{
			Titles: titles,
			Pagination: models.PaginationInfo{
				Limit:      params.filter.Limit,
				Offset:     params.filter.Offset,
				HasMore:    params.filter.Offset+len(titles) < total,
				TotalCount: total,
			},
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryMillis(start),
			Count:       len(titles),
		},
	})
}

// GetTitle handles GET /api/v1/titles/{titleID}.
func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if !h.requireDB(w) {
		return
	}

	titleID := chi.URLParam(r, "titleID")
	if titleID == "" {
		respondError(w, http.StatusBadRequest, codeInvalidParameter, "Title id is required")
		return
	}

	start := time.Now()

	title, err := h.db.GetTitle(r.Context(), titleID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   title,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryMillis(start),
		},
	})
}
