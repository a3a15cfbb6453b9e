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

func decodeTitles(t *testing.T, rec *httptest.ResponseRecorder) models.TitlesResponse {
	t.Helper()

	env := decodeEnvelope(t, rec)
	var resp models.TitlesResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode titles payload: %v", err)
	}
	return resp
}

func TestListTitles(t *testing.T) {
	h := setupTestHandler(t)

	t.Run("returns full catalog by default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		resp := decodeTitles(t, rec)
		if len(resp.Titles) != 5 {
			t.Errorf("expected 5 titles, got %d", len(resp.Titles))
		}
		if resp.Pagination.TotalCount != 5 {
			t.Errorf("expected total_count 5, got %d", resp.Pagination.TotalCount)
		}
		if resp.Pagination.HasMore {
			t.Error("expected has_more false for full page")
		}
	})

	t.Run("filters by type and genre", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles?type=Movie&genre=dramas", nil))

		resp := decodeTitles(t, rec)
		if len(resp.Titles) != 3 {
			t.Fatalf("expected 3 drama movies, got %d", len(resp.Titles))
		}
		for _, title := range resp.Titles {
			if title.Type != models.MediaTypeMovie {
				t.Errorf("title %s is not a movie", title.ID)
			}
		}
	})

	t.Run("filters by year range and substring", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles?year_min=2001&year_max=2012&q=harbor", nil))

		resp := decodeTitles(t, rec)
		if len(resp.Titles) != 1 || resp.Titles[0].ID != "s4" {
			t.Fatalf("expected [s4], got %+v", resp.Titles)
		}
	})

	t.Run("paginates with has_more", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles?limit=2&offset=0", nil))

		resp := decodeTitles(t, rec)
		if len(resp.Titles) != 2 {
			t.Fatalf("expected 2 titles, got %d", len(resp.Titles))
		}
		if !resp.Pagination.HasMore {
			t.Error("expected has_more true")
		}
		if resp.Pagination.TotalCount != 5 {
			t.Errorf("expected total_count 5, got %d", resp.Pagination.TotalCount)
		}

		rec = httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles?limit=2&offset=4", nil))

		resp = decodeTitles(t, rec)
		if len(resp.Titles) != 1 {
			t.Fatalf("expected 1 title on last page, got %d", len(resp.Titles))
		}
		if resp.Pagination.HasMore {
			t.Error("expected has_more false on last page")
		}
	})

	t.Run("clamps limit to configured maximum", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles?limit=10000", nil))

		resp := decodeTitles(t, rec)
		if resp.Pagination.Limit != testAPIConfig().API.MaxPageSize {
			t.Errorf("expected limit clamped to %d, got %d", testAPIConfig().API.MaxPageSize, resp.Pagination.Limit)
		}
	})

	t.Run("rejects malformed integers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles?limit=abc", nil))

		expectErrorCode(t, rec, http.StatusBadRequest, codeInvalidParameter)
	})

	t.Run("rejects inverted year range", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles?year_min=2010&year_max=2000", nil))

		expectErrorCode(t, rec, http.StatusBadRequest, codeInvalidYearRange)
	})

	t.Run("rejects unknown media type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles?type=documentary", nil))

		expectErrorCode(t, rec, http.StatusBadRequest, codeInvalidParameter)
	})

	t.Run("503 without database", func(t *testing.T) {
		bare := NewHandler(nil, nil, nil, nil, testAPIConfig())
		rec := httptest.NewRecorder()
		bare.ListTitles(rec, httptest.NewRequest(http.MethodGet, "/api/v1/titles", nil))

		expectErrorCode(t, rec, http.StatusServiceUnavailable, codeServiceError)
	})
}

func TestGetTitle(t *testing.T) {
	h := setupTestHandler(t)

	t.Run("returns title detail", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetTitle(rec, requestWithParam("/api/v1/titles/s1", "titleID", "s1"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)

		var title models.Title
		if err := json.Unmarshal(env.Data, &title); err != nil {
			t.Fatalf("decode title payload: %v", err)
		}
		if title.ID != "s1" || title.Name != "Midnight Run" {
			t.Errorf("unexpected title %+v", title)
		}
	})

	t.Run("404 for unknown id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetTitle(rec, requestWithParam("/api/v1/titles/s999", "titleID", "s999"))

		expectErrorCode(t, rec, http.StatusNotFound, codeTitleNotFound)
	})

	t.Run("400 for empty id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetTitle(rec, requestWithParam("/api/v1/titles/", "titleID", ""))

		expectErrorCode(t, rec, http.StatusBadRequest, codeInvalidParameter)
	})
}
