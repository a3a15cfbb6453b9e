// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

// Package posters resolves catalog titles to poster artwork through the
// TMDB search API.
//
// Lookups are an external enrichment and are deliberately lossy: rate
// limiting, circuit breaking, and caching all sit in front of the HTTP
// call, and every failure mode degrades to "no poster" instead of an
// error. The recommendation path never waits on TMDB being healthy.
package posters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/similia-io/similia/internal/config"
	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/metrics"
	"github.com/similia-io/similia/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read
// for diagnostics.
const maxErrorBodySize = 8 * 1024

// Match scoring constants. Candidates are scored against the catalog
// title; the weighting depends on whether a release year is available.
const (
	// With a year hint: title carries most of the weight, the year
	// tier confirms it, popularity breaks near-ties.
	withYearTitleWeight = 0.6
	withYearYearWeight  = 0.3
	withYearPopWeight   = 0.1
	withYearThreshold   = 0.30

	// Without a year the title has to stand on its own, so the
	// acceptance bar is higher.
	noYearTitleWeight = 0.85
	noYearPopWeight   = 0.15
	noYearThreshold   = 0.60
)

// searchResult is a single TMDB search hit. Movie and TV results use
// different field names for the title and date, so both are declared
// and resolved in displayName / releaseYear.
type searchResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	Popularity   float64 `json:"popularity"`
}

// displayName returns the candidate's title regardless of media type.
func (r *searchResult) displayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// releaseYear parses the year from the candidate's date field.
// Returns 0 when no date is present.
func (r *searchResult) releaseYear() int {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

type searchResponse struct {
	Page         int            `json:"page"`
	Results      []searchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

// Client is a resilient TMDB search client. A shared rate limiter
// smooths request bursts and a circuit breaker stops hammering TMDB
// while it is failing. Safe for concurrent use.
type Client struct {
	baseURL      string
	imageBaseURL string
	posterSize   string
	apiKey       string
	httpClient   *http.Client
	limiter      *rate.Limiter
	cb           *gobreaker.CircuitBreaker[*searchResponse]
}

// NewClient creates a TMDB client from configuration.
func NewClient(cfg *config.TMDBConfig) *Client {
	cb := gobreaker.NewCircuitBreaker[*searchResponse](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("TMDB circuit breaker state change")
		},
	})

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		posterSize:   cfg.PosterSize,
		apiKey:       cfg.APIKey,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		cb:           cb,
	}
}

// Search queries TMDB for a title of the given media type and returns
// the best matching poster reference, or an unmatched reference when no
// candidate clears the acceptance threshold.
func (c *Client) Search(ctx context.Context, name string, year int, mediaType models.MediaType) (*models.PosterRef, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()
	resp, err := c.cb.Execute(func() (*searchResponse, error) {
		return c.doSearch(ctx, name, mediaType)
	})
	metrics.RecordPosterAPICall(time.Since(start))
	if err != nil {
		return nil, err
	}

	best := bestMatch(resp.Results, name, year)
	if best == nil {
		return &models.PosterRef{Matched: false}, nil
	}
	return &models.PosterRef{
		URL:     c.posterURL(best.PosterPath),
		TMDBID:  best.ID,
		Matched: true,
	}, nil
}

// doSearch performs the raw HTTP search against /search/movie or
// /search/tv depending on media type.
func (c *Client) doSearch(ctx context.Context, name string, mediaType models.MediaType) (*searchResponse, error) {
	endpoint := "/search/movie"
	if mediaType == models.MediaTypeTVShow {
		endpoint = "/search/tv"
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", name)
	params.Set("include_adult", "false")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("TMDB search returned status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode TMDB response: %w", err)
	}
	return &result, nil
}

// posterURL builds the full image URL from a TMDB poster path, which
// always starts with a slash.
func (c *Client) posterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + "/" + c.posterSize + path
}

// bestMatch scores the candidates against the catalog title and
// returns the highest scorer that clears the acceptance threshold, or
// nil when none does. Candidates without a poster are skipped since a
// match without artwork is useless here. Ties keep the earlier
// candidate, which follows TMDB's own relevance ordering, so repeated
// lookups always pick the same winner.
func bestMatch(results []searchResult, name string, year int) *searchResult {
	maxPopularity := 0.0
	for i := range results {
		if results[i].Popularity > maxPopularity {
			maxPopularity = results[i].Popularity
		}
	}

	var best *searchResult
	bestScore := 0.0
	for i := range results {
		cand := &results[i]
		if cand.PosterPath == "" {
			continue
		}

		score, threshold := matchScore(cand, name, year, maxPopularity)
		if score < threshold {
			continue
		}
		if best == nil || score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best
}

// matchScore computes a candidate's composite score and the threshold
// it must clear. Year-aware scoring is only used when both the catalog
// title and the candidate carry a year.
func matchScore(cand *searchResult, name string, year int, maxPopularity float64) (score, threshold float64) {
	titleScore := titleSimilarity(name, cand.displayName())

	popScore := 0.0
	if maxPopularity > 0 {
		popScore = cand.Popularity / maxPopularity
	}

	candYear := cand.releaseYear()
	if year > 0 && candYear > 0 {
		score = withYearTitleWeight*titleScore +
			withYearYearWeight*yearScore(year, candYear) +
			withYearPopWeight*popScore
		return score, withYearThreshold
	}

	score = noYearTitleWeight*titleScore + noYearPopWeight*popScore
	return score, noYearThreshold
}

// yearScore maps the release year difference onto confidence tiers.
// An exact year is near-proof of a correct match; remakes and regional
// re-releases usually land within a year or three.
func yearScore(want, got int) float64 {
	diff := want - got
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1.0
	case diff <= 1:
		return 0.7
	case diff <= 3:
		return 0.4
	default:
		return 0.0
	}
}
