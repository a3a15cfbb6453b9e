// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/similia-io/similia/internal/config"
	"github.com/similia-io/similia/internal/database"
	"github.com/similia-io/similia/internal/insights"
	"github.com/similia-io/similia/internal/models"
	"github.com/similia-io/similia/internal/posters"
	"github.com/similia-io/similia/internal/recommend"
)

func recommendRequest(titleID, query string) *http.Request {
	target := "/api/v1/titles/" + titleID + "/recommendations"
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("titleID", titleID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeRecommendations(t *testing.T, rec *httptest.ResponseRecorder) recommendationsPayload {
	t.Helper()

	env := decodeEnvelope(t, rec)
	var payload recommendationsPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode recommendations payload: %v", err)
	}
	return payload
}

func resultIDs(payload recommendationsPayload) []string {
	ids := make([]string, len(payload.Results))
	for i, res := range payload.Results {
		ids[i] = res.Title.ID
	}
	return ids
}

func TestRecommendations(t *testing.T) {
	h := setupTestHandler(t)

	t.Run("ranks near-duplicate first", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=2"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		payload := decodeRecommendations(t, rec)
		if payload.TitleID != "s1" {
			t.Errorf("expected title_id s1, got %q", payload.TitleID)
		}
		if len(payload.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(payload.Results))
		}
		if payload.Results[0].Title.ID != "s2" {
			t.Errorf("expected s2 ranked first, got %s", payload.Results[0].Title.ID)
		}
		for i := 1; i < len(payload.Results); i++ {
			if payload.Results[i].Score > payload.Results[i-1].Score {
				t.Error("results not sorted by descending score")
			}
		}
	})

	t.Run("never includes the query title", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=50"))

		payload := decodeRecommendations(t, rec)
		for _, id := range resultIDs(payload) {
			if id == "s1" {
				t.Fatal("query title appeared in its own recommendations")
			}
		}
		if len(payload.Results) != 4 {
			t.Errorf("expected all 4 other titles, got %d", len(payload.Results))
		}
	})

	t.Run("type filter is a hard constraint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=50&type=Movie"))

		payload := decodeRecommendations(t, rec)
		if len(payload.Results) != 2 {
			t.Fatalf("expected 2 movie results, got %d", len(payload.Results))
		}
		for _, res := range payload.Results {
			if res.Title.Type != models.MediaTypeMovie {
				t.Errorf("non-movie %s in filtered results", res.Title.ID)
			}
		}
	})

	t.Run("genre filter keeps zero-score candidates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=50&genres=Comedies"))

		payload := decodeRecommendations(t, rec)
		if len(payload.Results) != 1 || payload.Results[0].Title.ID != "s3" {
			t.Fatalf("expected [s3], got %v", resultIDs(payload))
		}
	})

	t.Run("year filter bounds the pool", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=50&year_min=2005"))

		payload := decodeRecommendations(t, rec)
		ids := resultIDs(payload)
		if len(ids) != 2 {
			t.Fatalf("expected 2 results from 2005 on, got %v", ids)
		}
		for _, res := range payload.Results {
			if res.Title.ReleaseYear < 2005 {
				t.Errorf("title %s released %d, before year_min", res.Title.ID, res.Title.ReleaseYear)
			}
		}
	})

	t.Run("empty filtered pool returns empty results", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=5&year_min=2030"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for empty pool, got %d", rec.Code)
		}
		payload := decodeRecommendations(t, rec)
		if len(payload.Results) != 0 {
			t.Errorf("expected no results, got %v", resultIDs(payload))
		}
	})

	t.Run("404 for unknown title", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s999", "k=5"))

		expectErrorCode(t, rec, http.StatusNotFound, codeTitleNotFound)
	})

	t.Run("400 for non-positive k", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=0"))

		expectErrorCode(t, rec, http.StatusBadRequest, codeInvalidK)
	})

	t.Run("400 for malformed k", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=five"))

		expectErrorCode(t, rec, http.StatusBadRequest, codeInvalidParameter)
	})

	t.Run("400 for inverted year range", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "year_min=2010&year_max=2001"))

		expectErrorCode(t, rec, http.StatusBadRequest, codeInvalidYearRange)
	})

	t.Run("503 before training", func(t *testing.T) {
		untrained := NewHandler(nil, setupTestEngine(t, apiCatalog(), false), nil, nil, testAPIConfig())

		rec := httptest.NewRecorder()
		untrained.Recommendations(rec, recommendRequest("s1", "k=5"))

		expectErrorCode(t, rec, http.StatusServiceUnavailable, codeDatasetUnavailable)
	})

	t.Run("posters flag is a no-op when disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=2&posters=true"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		payload := decodeRecommendations(t, rec)
		for _, res := range payload.Results {
			if res.Poster != nil {
				t.Error("expected no poster refs with posters disabled")
			}
		}
	})
}

func TestRecommendationsDeterminism(t *testing.T) {
	h := setupTestHandler(t)

	first := httptest.NewRecorder()
	h.Recommendations(first, recommendRequest("s1", "k=4"))
	second := httptest.NewRecorder()
	h.Recommendations(second, recommendRequest("s1", "k=4"))

	firstIDs := resultIDs(decodeRecommendations(t, first))
	secondIDs := resultIDs(decodeRecommendations(t, second))

	if len(firstIDs) != len(secondIDs) {
		t.Fatalf("result sizes differ: %v vs %v", firstIDs, secondIDs)
	}
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Fatalf("ordering differs: %v vs %v", firstIDs, secondIDs)
		}
	}
}

// posterTestConfig enables lookups against the given server without a
// persistent cache.
func posterTestConfig(baseURL string) *config.TMDBConfig {
	return &config.TMDBConfig{
		Enabled:      true,
		APIKey:       "test-key",
		BaseURL:      baseURL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		PosterSize:   "w92",
		Timeout:      2 * time.Second,
		RateLimit:    100,
		RateBurst:    50,
		CacheSize:    16,
		CacheTTL:     time.Minute,
	}
}

func posterHandlerFor(t *testing.T, db *database.DB, eng *recommend.Engine, baseURL string) *Handler {
	t.Helper()

	svc, err := posters.NewService(posterTestConfig(baseURL), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close poster service: %v", err)
		}
	})
	return NewHandler(db, eng, insights.New(db), svc, testAPIConfig())
}

func TestRecommendationsPosterEnrichment(t *testing.T) {
	titles := apiCatalog()
	db := setupTestDB(t, titles)
	eng := setupTestEngine(t, titles, true)

	t.Run("attaches refs on successful lookups", func(t *testing.T) {
		// Echo server: every search matches exactly
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"page":1,"results":[{"id":7,"title":%q,"poster_path":"/art.jpg","popularity":10}],"total_results":1}`,
				r.URL.Query().Get("query"))
		}))
		defer server.Close()

		h := posterHandlerFor(t, db, eng, server.URL)
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=2&posters=true"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}
		payload := decodeRecommendations(t, rec)
		if len(payload.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(payload.Results))
		}
		for _, res := range payload.Results {
			if res.Poster == nil || !res.Poster.Matched {
				t.Fatalf("result %s missing poster ref: %+v", res.Title.ID, res.Poster)
			}
			if res.Poster.URL != "https://image.tmdb.org/t/p/w92/art.jpg" {
				t.Errorf("poster URL = %q", res.Poster.URL)
			}
		}
	})

	t.Run("lookup failures never affect results", func(t *testing.T) {
		baseline := httptest.NewRecorder()
		NewHandler(db, eng, insights.New(db), nil, testAPIConfig()).
			Recommendations(baseline, recommendRequest("s1", "k=2"))
		want := resultIDs(decodeRecommendations(t, baseline))

		h := posterHandlerFor(t, db, eng, "http://127.0.0.1:1")
		rec := httptest.NewRecorder()
		h.Recommendations(rec, recommendRequest("s1", "k=2&posters=true"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 despite poster outage, got %d", rec.Code)
		}
		payload := decodeRecommendations(t, rec)
		got := resultIDs(payload)
		if len(got) != len(want) {
			t.Fatalf("result ids = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("result ids = %v, want %v", got, want)
			}
		}
		for _, res := range payload.Results {
			if res.Poster != nil {
				t.Errorf("result %s carries a poster ref from a failed lookup: %+v", res.Title.ID, res.Poster)
			}
		}
	})
}
