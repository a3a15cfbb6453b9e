// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"errors"
	"net/http"

	"github.com/similia-io/similia/internal/catalog"
	"github.com/similia-io/similia/internal/database"
	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/recommend"
)

// Error codes returned in the API error envelope. Clients branch on
// these rather than on message text.
const (
	codeTitleNotFound      = "TITLE_NOT_FOUND"
	codePosterNotFound     = "POSTER_NOT_FOUND"
	codePostersDisabled    = "POSTERS_DISABLED"
	codeInvalidK           = "INVALID_K"
	codeInvalidYearRange   = "INVALID_YEAR_RANGE"
	codeInvalidParameter   = "INVALID_PARAMETER"
	codeDatasetUnavailable = "DATASET_UNAVAILABLE"
	codeServiceError       = "SERVICE_ERROR"
	codeDatabaseError      = "DATABASE_ERROR"
	codeInternalError      = "INTERNAL_ERROR"
)

// respondDomainError maps recommendation and storage errors onto HTTP
// statuses and stable error codes. Unrecognized errors become a 500
// without leaking internals to the client.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrTitleNotFound) || errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, codeTitleNotFound, "Title not found in catalog")
	case errors.Is(err, recommend.ErrInvalidK):
		respondError(w, http.StatusBadRequest, codeInvalidK, "Parameter k must be a positive integer")
	case errors.Is(err, recommend.ErrInvalidYearRange):
		respondError(w, http.StatusBadRequest, codeInvalidYearRange, "year_min must not exceed year_max")
	case errors.Is(err, recommend.ErrNotTrained) || errors.Is(err, catalog.ErrDatasetEmpty):
		respondError(w, http.StatusServiceUnavailable, codeDatasetUnavailable, "Similarity index not ready, retry shortly")
	default:
		logging.Err(err).Msg("Unhandled error in API handler")
		respondError(w, http.StatusInternalServerError, codeInternalError, "Internal server error")
	}
}
