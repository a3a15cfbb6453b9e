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
	"golang.org/x/sync/errgroup"

	"github.com/similia-io/similia/internal/models"
	"github.com/similia-io/similia/internal/recommend"
)

// posterLookupConcurrency bounds parallel TMDB lookups per request so a
// cold poster cache cannot monopolize the client's rate budget.
const posterLookupConcurrency = 4

// recommendationItem is one scored result, optionally enriched with a
// poster reference when the client asked for artwork.
type recommendationItem struct {
	Title  models.Title      `json:"title"`
	Score  float64           `json:"score"`
	Poster *models.PosterRef `json:"poster,omitempty"`
}

// recommendationsPayload is the data envelope for the recommendations
// endpoint.
type recommendationsPayload struct {
	TitleID  string                     `json:"title_id"`
	Results  []recommendationItem       `json:"results"`
	Metadata recommend.ResponseMetadata `json:"metadata"`
}

// parseRecommendRequest builds the engine request from query
// parameters. Validation the engine owns (k bounds, year ordering)
// is left to the engine so its error taxonomy stays authoritative.
func (h *Handler) parseRecommendRequest(r *http.Request) (recommend.Request, error) {
	defaultK := 10
	if h.config != nil {
		defaultK = h.config.Recommend.DefaultK
	}

	k, err := getIntParam(r, "k", defaultK)
	if err != nil {
		return recommend.Request{}, err
	}
	yearMin, err := getIntParam(r, "year_min", 0)
	if err != nil {
		return recommend.Request{}, err
	}
	yearMax, err := getIntParam(r, "year_max", 0)
	if err != nil {
		return recommend.Request{}, err
	}

	var mediaType models.MediaType
	if raw := r.URL.Query().Get("type"); raw != "" {
		mediaType, err = models.ParseMediaType(raw)
		if err != nil {
			return recommend.Request{}, fmt.Errorf("parameter type: %w", err)
		}
	}

	req := recommend.Request{
		TitleID: chi.URLParam(r, "titleID"),
		K:       k,
		Filters: recommend.Filters{
			Genres:    parseCommaSeparated(r.URL.Query().Get("genres")),
			MediaType: mediaType,
		},
	}
	if yearMin > 0 || yearMax > 0 {
		req.Filters.Years = &recommend.YearRange{Min: yearMin, Max: yearMax}
	}
	return req, nil
}

// Recommendations handles
// GET /api/v1/titles/{titleID}/recommendations.
//
// Returns up to k titles similar to the query title, most similar
// first. Filters narrow the candidate pool before ranking; posters=true
// attaches TMDB artwork references where a match exists.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if !h.requireEngine(w) {
		return
	}

	req, err := h.parseRecommendRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
		return
	}
	if req.TitleID == "" {
		respondError(w, http.StatusBadRequest, codeInvalidParameter, "Title id is required")
		return
	}

	start := time.Now()

	resp, err := h.engine.Recommend(r.Context(), req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	items := make([]recommendationItem, len(resp.Results))
	for i, res := range resp.Results {
		items[i] = recommendationItem{Title: res.Title, Score: res.Score}
	}

	if getBoolParam(r, "posters") && h.posters != nil && h.posters.Enabled() {
		h.attachPosters(r, items)
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data: recommendationsPayload{
			TitleID:  resp.TitleID,
			Results:  items,
			Metadata: resp.Metadata,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryMillis(start),
			Cached:      resp.Metadata.Cached,
			Count:       len(items),
		},
	})
}

// attachPosters resolves artwork for each result in place. Lookups are
// best-effort: a miss or upstream failure leaves the poster unset and
// never fails the recommendation response.
func (h *Handler) attachPosters(r *http.Request, items []recommendationItem) {
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(posterLookupConcurrency)

	for i := range items {
		g.Go(func() error {
			t := items[i].Title
			items[i].Poster = h.posters.Lookup(ctx, t.Name, t.ReleaseYear, t.Type)
			return nil
		})
	}
	// Lookup never returns an error, so Wait only synchronizes.
	_ = g.Wait()
}
