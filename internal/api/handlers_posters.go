// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/similia-io/similia/internal/models"
)

// GetPoster handles GET /api/v1/titles/{titleID}/poster.
//
// Resolves poster artwork for a single title. Results are memoized in
// the poster store, so repeated requests for the same title do not
// re-query TMDB.
func (h *Handler) GetPoster(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.posters == nil || !h.posters.Enabled() {
		respondError(w, http.StatusNotFound, codePostersDisabled, "Poster lookups are not enabled on this instance")
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

	ref := h.posters.Lookup(r.Context(), title.Name, title.ReleaseYear, title.Type)
	if ref == nil || !ref.Matched {
		respondError(w, http.StatusNotFound, codePosterNotFound, "No poster found for this title")
		return
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   ref,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryMillis(start),
		},
	})
}
