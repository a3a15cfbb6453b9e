// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/similia-io/similia/internal/models"
)

func TestInsightsGenres(t *testing.T) {
	h := setupTestHandler(t)

	t.Run("returns genre distribution", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.InsightsGenres(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insights/genres", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)

		var data struct {
			Genres []models.GenreCount `json:"genres"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode genres payload: %v", err)
		}
		if len(data.Genres) == 0 {
			t.Fatal("expected genre rows")
		}
		// Dramas appears on s1, s2, s4, s5
		if data.Genres[0].Genre != "Dramas" || data.Genres[0].Count != 4 {
			t.Errorf("expected Dramas x4 first, got %+v", data.Genres[0])
		}
	})

	t.Run("honors limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.InsightsGenres(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insights/genres?limit=1", nil))

		env := decodeEnvelope(t, rec)
		var data struct {
			Genres []models.GenreCount `json:"genres"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatalf("decode genres payload: %v", err)
		}
		if len(data.Genres) != 1 {
			t.Errorf("expected 1 genre row, got %d", len(data.Genres))
		}
	})

	t.Run("rejects malformed limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.InsightsGenres(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insights/genres?limit=ten", nil))

		expectErrorCode(t, rec, http.StatusBadRequest, codeInvalidParameter)
	})
}

func TestInsightsTypes(t *testing.T) {
	h := setupTestHandler(t)

	rec := httptest.NewRecorder()
	h.InsightsTypes(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insights/types", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)

	var data struct {
		Types []models.TypeCount `json:"types"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode types payload: %v", err)
	}

	counts := make(map[models.MediaType]int, len(data.Types))
	for _, tc := range data.Types {
		counts[tc.Type] = tc.Count
	}
	if counts[models.MediaTypeMovie] != 3 || counts[models.MediaTypeTVShow] != 2 {
		t.Errorf("expected 3 movies / 2 shows, got %+v", counts)
	}
}

func TestInsightsYears(t *testing.T) {
	h := setupTestHandler(t)

	rec := httptest.NewRecorder()
	h.InsightsYears(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insights/years?from=2005", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)

	var data struct {
		Years []models.YearCount `json:"years"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode years payload: %v", err)
	}
	if len(data.Years) != 2 {
		t.Fatalf("expected 2 year rows from 2005, got %d", len(data.Years))
	}
	for _, yc := range data.Years {
		if yc.Year < 2005 {
			t.Errorf("year %d before from bound", yc.Year)
		}
	}
}

func TestInsightsOverview(t *testing.T) {
	h := setupTestHandler(t)

	rec := httptest.NewRecorder()
	h.InsightsOverview(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insights/overview", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)

	var overview models.CatalogOverview
	if err := json.Unmarshal(env.Data, &overview); err != nil {
		t.Fatalf("decode overview payload: %v", err)
	}
	if overview.TotalTitles != 5 {
		t.Errorf("expected 5 total titles, got %d", overview.TotalTitles)
	}
	if overview.Movies != 3 || overview.TVShows != 2 {
		t.Errorf("expected 3 movies / 2 shows, got %d / %d", overview.Movies, overview.TVShows)
	}
	if overview.MinReleaseYear != 1999 || overview.MaxReleaseYear != 2015 {
		t.Errorf("expected year span 1999-2015, got %d-%d", overview.MinReleaseYear, overview.MaxReleaseYear)
	}
}

func TestInsightsUnavailable(t *testing.T) {
	bare := NewHandler(nil, nil, nil, nil, testAPIConfig())

	rec := httptest.NewRecorder()
	bare.InsightsOverview(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insights/overview", nil))

	expectErrorCode(t, rec, http.StatusServiceUnavailable, codeServiceError)
}
