// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"net/http"
	"time"

	"github.com/similia-io/similia/internal/models"
)

// Health handles GET /api/v1/health.
//
// Always returns 200 while the process is serving; the payload reports
// component states so operators can distinguish a degraded instance
// (database down, index still building) from a dead one.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil
	indexReady := h.engine != nil && h.engine.Ready()

	status := "healthy"
	if !dbConnected || !indexReady {
		status = "degraded"
	}

	var datasetTitles int
	if h.engine != nil {
		datasetTitles = h.engine.GetStatus().DatasetTitles
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           "1.0.0",
		DatabaseConnected: dbConnected,
		IndexReady:        indexReady,
		DatasetTitles:     datasetTitles,
		PostersEnabled:    h.posters != nil && h.posters.Enabled(),
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady handles GET /api/v1/ready.
//
// Readiness gates on the similarity index: a 503 here tells load
// balancers to hold traffic until training completes.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if h.engine == nil || !h.engine.Ready() {
		respondJSON(w, http.StatusServiceUnavailable, models.APIResponse{
			Status:   "error",
			Data:     map[string]interface{}{"ready": false},
			Error:    &models.APIError{Code: codeDatasetUnavailable, Message: "Similarity index not ready"},
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		})
		return
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status:   "success",
		Data:     map[string]interface{}{"ready": true},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
