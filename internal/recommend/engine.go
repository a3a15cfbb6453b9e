// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/similia-io/similia/internal/cache"
	"github.com/similia-io/similia/internal/catalog"
	"github.com/similia-io/similia/internal/metrics"
	"github.com/similia-io/similia/internal/models"
)

// DataProvider feeds the engine its training data. Implemented by the
// database layer; the interface keeps this package from depending on
// the store directly.
type DataProvider interface {
	// AllTitles returns the full catalog in a deterministic order.
	AllTitles(ctx context.Context) ([]models.Title, error)
}

// Engine answers similar-title queries against a trained index.
// It is safe for concurrent use; Train may run while requests are
// served and swaps the model atomically.
type Engine struct {
	config *Config
	logger zerolog.Logger

	index Algorithm
	data  DataProvider

	// Catalog snapshot, replaced wholesale on retrain
	catalogMu     sync.RWMutex
	titles        []models.Title
	titleIdx      map[string]int
	lastTrainedAt time.Time

	// trainMu serializes Train calls
	trainMu      sync.Mutex
	modelVersion atomic.Int32

	// Response cache; nil when caching is disabled
	respCache *cache.LRUCache[*Response]

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates a recommendation engine around a similarity index.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, index Algorithm, data DataProvider, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if index == nil {
		return nil, fmt.Errorf("similarity index is required")
	}
	if data == nil {
		return nil, fmt.Errorf("data provider is required")
	}

	e := &Engine{
		config: cfg,
		logger: logger,
		index:  index,
		data:   data,
	}
	if cfg.CacheTTL > 0 && cfg.CacheSize > 0 {
		e.respCache = cache.NewLRUCache[*Response](cfg.CacheSize, cfg.CacheTTL)
	}
	return e, nil
}

// Train loads the catalog and (re)builds the similarity index. The
// previous model keeps serving requests until the swap completes.
// Returns catalog.ErrDatasetEmpty when the store holds no titles.
func (e *Engine) Train(ctx context.Context) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	start := time.Now()
	e.logger.Info().Msg("building similarity index")

	titles, err := e.data.AllTitles(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if len(titles) == 0 {
		return catalog.ErrDatasetEmpty
	}

	docs := make([]Document, len(titles))
	for i := range titles {
		docs[i] = Document{ID: titles[i].ID, Text: catalog.CombinedText(&titles[i])}
	}

	if err := e.index.Train(ctx, docs); err != nil {
		return fmt.Errorf("train index: %w", err)
	}

	titleIdx := make(map[string]int, len(titles))
	for i := range titles {
		titleIdx[titles[i].ID] = i
	}

	e.catalogMu.Lock()
	e.titles = titles
	e.titleIdx = titleIdx
	e.lastTrainedAt = time.Now()
	e.catalogMu.Unlock()

	e.modelVersion.Add(1)
	if e.respCache != nil {
		e.respCache.Clear()
	}

	vocabulary := e.index.VocabularySize()
	metrics.RecordIndexBuild(time.Since(start), vocabulary, len(titles))

	e.logger.Info().
		Int("titles", len(titles)).
		Int("vocabulary", vocabulary).
		Int32("version", e.modelVersion.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("similarity index ready")

	return nil
}

// Ready reports whether the engine can serve recommendations
func (e *Engine) Ready() bool {
	return e.index.IsTrained()
}

// Recommend returns up to req.K titles similar to req.TitleID.
//
// Filters are applied to the candidate pool before ranking, the query
// title itself is always excluded, and results are ordered by
// descending score with ascending id as the tie-break. Requests with
// identical arguments on an unchanged catalog return identical results.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.K <= 0 {
		e.errorCount.Add(1)
		metrics.RecordRecommendation("invalid", 0)
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, req.K)
	}
	if req.K > e.config.MaxK {
		req.K = e.config.MaxK
	}
	if y := req.Filters.Years; y != nil && y.Min > 0 && y.Max > 0 && y.Min > y.Max {
		e.errorCount.Add(1)
		metrics.RecordRecommendation("invalid", 0)
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidYearRange, y.Min, y.Max)
	}
	if !e.index.IsTrained() {
		e.errorCount.Add(1)
		metrics.RecordRecommendation("not_trained", 0)
		return nil, ErrNotTrained
	}

	key := e.cacheKey(req)
	if e.respCache != nil {
		if resp, ok := e.respCache.Get(key); ok {
			metrics.RecordRecommendationCache(true)
			return copyCachedResponse(resp), nil
		}
		metrics.RecordRecommendationCache(false)
	}

	e.catalogMu.RLock()
	titles := e.titles
	titleIdx := e.titleIdx
	e.catalogMu.RUnlock()

	if _, ok := titleIdx[req.TitleID]; !ok {
		e.errorCount.Add(1)
		metrics.RecordRecommendation("not_found", 0)
		return nil, fmt.Errorf("%w: %s", ErrTitleNotFound, req.TitleID)
	}

	// Hard filters narrow the pool before any scoring; the query title
	// never recommends itself
	candidates := make([]string, 0, len(titles))
	for i := range titles {
		t := &titles[i]
		if t.ID == req.TitleID {
			continue
		}
		if !req.Filters.Matches(t) {
			continue
		}
		candidates = append(candidates, t.ID)
	}

	resp := &Response{
		TitleID: req.TitleID,
		Results: []ScoredTitle{},
		Metadata: ResponseMetadata{
			K:            req.K,
			Candidates:   len(candidates),
			ModelVersion: int(e.modelVersion.Load()),
			GeneratedAt:  time.Now().UTC(),
		},
	}

	if len(candidates) == 0 {
		e.logger.Debug().Str("title_id", req.TitleID).Msg("no candidates after filtering")
		e.storeCache(key, resp)
		metrics.RecordRecommendation("ok", time.Since(start))
		return resp, nil
	}

	scores, err := e.index.Similar(ctx, req.TitleID, candidates)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendation("error", 0)
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	ranked := e.rankCandidates(titles, titleIdx, scores)
	if len(ranked) > req.K {
		ranked = ranked[:req.K]
	}
	resp.Results = ranked

	e.storeCache(key, resp)
	metrics.RecordRecommendation("ok", time.Since(start))

	e.logger.Debug().
		Str("title_id", req.TitleID).
		Int("k", req.K).
		Int("candidates", len(candidates)).
		Int("returned", len(ranked)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendation complete")

	return resp, nil
}

// rankCandidates orders scored candidates by descending score, with
// ascending title id breaking ties. Candidates below MinScore are
// dropped; with the default MinScore of zero every candidate ranks, so
// zero-similarity titles can still fill K on small pools.
func (e *Engine) rankCandidates(titles []models.Title, titleIdx map[string]int, scores map[string]float64) []ScoredTitle {
	results := make([]ScoredTitle, 0, len(scores))
	for id, score := range scores {
		if score < e.config.MinScore {
			continue
		}
		results = append(results, ScoredTitle{Title: titles[titleIdx[id]], Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Title.ID < results[j].Title.ID
	})
	return results
}

// GetTitle returns a title from the trained catalog snapshot.
func (e *Engine) GetTitle(id string) (models.Title, error) {
	e.catalogMu.RLock()
	defer e.catalogMu.RUnlock()

	idx, ok := e.titleIdx[id]
	if !ok {
		return models.Title{}, fmt.Errorf("%w: %s", ErrTitleNotFound, id)
	}
	return e.titles[idx], nil
}

// Similarity exposes the pairwise score between two catalog titles.
func (e *Engine) Similarity(a, b string) (float64, error) {
	return e.index.Similarity(a, b)
}

// GetStatus reports the engine's model state.
func (e *Engine) GetStatus() TrainingStatus {
	e.catalogMu.RLock()
	defer e.catalogMu.RUnlock()

	return TrainingStatus{
		Trained:       e.index.IsTrained(),
		ModelVersion:  int(e.modelVersion.Load()),
		LastTrainedAt: e.lastTrainedAt,
		DatasetTitles: len(e.titles),
		Vocabulary:    e.index.VocabularySize(),
	}
}

// cacheKey canonicalizes a request for response caching
func (e *Engine) cacheKey(req Request) string {
	return req.TitleID + "|k=" + strconv.Itoa(req.K) + "|" + req.Filters.cacheKey()
}

func (e *Engine) storeCache(key string, resp *Response) {
	if e.respCache == nil {
		return
	}
	e.respCache.Add(key, resp)
}

// copyCachedResponse returns a copy safe for the caller to hold.
// Results are copied; Metadata is a value type.
func copyCachedResponse(resp *Response) *Response {
	results := make([]ScoredTitle, len(resp.Results))
	copy(results, resp.Results)

	out := &Response{
		TitleID:  resp.TitleID,
		Results:  results,
		Metadata: resp.Metadata,
	}
	out.Metadata.Cached = true
	return out
}
