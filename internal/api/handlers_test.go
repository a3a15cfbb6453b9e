// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"context"
	"encoding/json"
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
	"github.com/similia-io/similia/internal/recommend"
	"github.com/similia-io/similia/internal/recommend/algorithms"
)

// apiCatalog is a small fixed catalog covering every filter axis. The
// overlapping director and cast between s1 and s2 make them the
// strongest similarity pair.
func apiCatalog() []models.Title {
	return []models.Title{
		{ID: "s1", Type: models.MediaTypeMovie, Name: "Midnight Run", Director: "Lena Hart", Cast: []string{"Mara Voss", "Theo Reyes"}, ReleaseYear: 2000, Genres: []string{"Dramas"}},
		{ID: "s2", Type: models.MediaTypeMovie, Name: "Midnight Return", Director: "Lena Hart", Cast: []string{"Mara Voss", "Theo Reyes"}, ReleaseYear: 2001, Genres: []string{"Dramas"}},
		{ID: "s3", Type: models.MediaTypeTVShow, Name: "Laugh Lines", Director: "Gil Soto", Cast: []string{"Pia Cole"}, ReleaseYear: 1999, Genres: []string{"Comedies"}},
		{ID: "s4", Type: models.MediaTypeMovie, Name: "Harbor Lights", Director: "Lena Hart", Cast: []string{"Noor Khan"}, ReleaseYear: 2010, Genres: []string{"Dramas", "Romantic Movies"}},
		{ID: "s5", Type: models.MediaTypeTVShow, Name: "Quiet Harbor", Director: "Gil Soto", Cast: []string{"Noor Khan"}, ReleaseYear: 2015, Genres: []string{"Dramas"}},
	}
}

// staticProvider serves a fixed catalog to the engine.
type staticProvider struct {
	titles []models.Title
}

func (p *staticProvider) AllTitles(_ context.Context) ([]models.Title, error) {
	return p.titles, nil
}

func testAPIConfig() *config.Config {
	return &config.Config{
		API:       config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Recommend: config.RecommendConfig{DefaultK: 5, MaxK: 50},
		Security:  config.SecurityConfig{RateLimitReqs: 100, RateLimitWindow: time.Minute},
	}
}

// setupTestDB creates an in-memory catalog store seeded with titles.
func setupTestDB(t *testing.T, titles []models.Title) *database.DB {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	if len(titles) > 0 {
		if err := db.ReplaceTitles(context.Background(), titles); err != nil {
			t.Fatalf("ReplaceTitles failed: %v", err)
		}
	}
	return db
}

// setupTestEngine builds an engine over the real TF-IDF index. Caching
// is disabled so assertions see freshly computed responses.
func setupTestEngine(t *testing.T, titles []models.Title, train bool) *recommend.Engine {
	t.Helper()

	cfg := &recommend.Config{DefaultK: 5, MaxK: 50}
	idx := algorithms.NewTFIDF(algorithms.TFIDFConfig{})
	eng, err := recommend.NewEngine(cfg, idx, &staticProvider{titles: titles}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if train {
		if err := eng.Train(context.Background()); err != nil {
			t.Fatalf("Train failed: %v", err)
		}
	}
	return eng
}

// setupTestHandler wires a handler over in-memory storage and a trained
// engine, with posters disabled.
func setupTestHandler(t *testing.T) *Handler {
	t.Helper()

	titles := apiCatalog()
	db := setupTestDB(t, titles)
	eng := setupTestEngine(t, titles, true)
	return NewHandler(db, eng, insights.New(db), nil, testAPIConfig())
}

// requestWithParam builds a GET request carrying a chi URL parameter,
// matching what the router injects.
func requestWithParam(target, param, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// envelope mirrors models.APIResponse with raw data for per-test
// decoding.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Error    *models.APIError `json:"error"`
	Metadata models.Metadata  `json:"metadata"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

// expectErrorCode asserts status code and error envelope code.
func expectErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (body: %s)", status, rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "error" {
		t.Errorf("expected error status, got %q", env.Status)
	}
	if env.Error == nil || env.Error.Code != code {
		t.Errorf("expected error code %s, got %+v", code, env.Error)
	}
}
