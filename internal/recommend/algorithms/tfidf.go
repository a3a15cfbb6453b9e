// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package algorithms

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/similia-io/similia/internal/recommend"
)

// minTokenRunes drops single-character tokens, which are almost always
// initials or noise in media metadata.
const minTokenRunes = 2

// TFIDF implements a content-based similarity index over catalog text.
// Each document is vectorized with term-frequency / inverse-document-
// frequency weighting and compared by cosine similarity.
//
// The weighting follows the common smoothed formulation:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//	w(t,d) = tf(t,d) * idf(t)
//
// with every document vector L2-normalized, so the cosine of two
// documents reduces to a sparse dot product. Scores are symmetric and
// bounded to [0, 1], with identical documents scoring 1.
//
// Vocabulary order, tokenization and weighting are all deterministic:
// training twice on the same documents yields identical scores.
type TFIDF struct {
	BaseAlgorithm

	// workers bounds scoring parallelism
	workers int

	// Trained model
	idIndex   map[string]int
	vectors   []termVector
	vocabSize int
}

// termVector is a sparse L2-normalized document vector. terms holds
// sorted vocabulary indexes; weights is parallel to terms.
type termVector struct {
	terms   []int
	weights []float64
}

// TFIDFConfig contains configuration for the TF-IDF index.
type TFIDFConfig struct {
	// Workers bounds the number of goroutines used when scoring
	// candidates. Zero means one per CPU.
	Workers int
}

// NewTFIDF creates a new TF-IDF similarity index.
func NewTFIDF(cfg TFIDFConfig) *TFIDF {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &TFIDF{
		BaseAlgorithm: NewBaseAlgorithm("tfidf"),
		workers:       workers,
		idIndex:       make(map[string]int),
	}
}

// Train builds the vocabulary and document vectors from catalog
// documents. Any previous model is replaced wholesale.
func (t *TFIDF) Train(ctx context.Context, docs []recommend.Document) error {
	t.acquireTrainLock()
	defer t.releaseTrainLock()

	// Tokenize all documents up front
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		tokenized[i] = tokenize(doc.Text)
	}

	// Document frequency over unique tokens per document
	df := make(map[string]int)
	for _, tokens := range tokenized {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}

	// Vocabulary in lexicographic order for deterministic indexes
	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	termIndex := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for i, term := range vocab {
		termIndex[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	// Build L2-normalized sparse vectors
	idIndex := make(map[string]int, len(docs))
	vectors := make([]termVector, len(docs))
	for i, doc := range docs {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		idIndex[doc.ID] = i
		vectors[i] = buildVector(tokenized[i], termIndex, idf)
	}

	t.idIndex = idIndex
	t.vectors = vectors
	t.vocabSize = len(vocab)
	t.markTrained()
	return nil
}

// buildVector turns a token list into a normalized sparse vector
func buildVector(tokens []string, termIndex map[string]int, idf []float64) termVector {
	counts := make(map[int]int, len(tokens))
	for _, tok := range tokens {
		if idx, ok := termIndex[tok]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return termVector{}
	}

	terms := make([]int, 0, len(counts))
	for idx := range counts {
		terms = append(terms, idx)
	}
	sort.Ints(terms)

	weights := make([]float64, len(terms))
	var norm float64
	for i, idx := range terms {
		w := float64(counts[idx]) * idf[idx]
		weights[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range weights {
			weights[i] /= norm
		}
	}
	return termVector{terms: terms, weights: weights}
}

// Similar scores the candidate ids against the given id. All indexed
// candidates appear in the result, zero scores included; candidates
// unknown to the index are skipped. Returns recommend.ErrTitleNotFound
// when the query id itself is not indexed.
func (t *TFIDF) Similar(ctx context.Context, id string, candidates []string) (map[string]float64, error) {
	t.acquireScoreLock()
	defer t.releaseScoreLock()

	if !t.trained {
		return nil, recommend.ErrNotTrained
	}

	srcIdx, ok := t.idIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", recommend.ErrTitleNotFound, id)
	}
	src := t.vectors[srcIdx]

	// Score into fixed slots so concurrency cannot affect results
	scores := make([]float64, len(candidates))
	known := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(candidates) + t.workers - 1) / t.workers
	if chunk < 1 {
		chunk = 1
	}
	for start := 0; start < len(candidates); start += chunk {
		end := start + chunk
		if end > len(candidates) {
			end = len(candidates)
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if ContextCancelled(gctx) {
					return gctx.Err()
				}
				idx, ok := t.idIndex[candidates[i]]
				if !ok {
					continue
				}
				known[i] = true
				scores[i] = clampScore(dotSparse(src, t.vectors[idx]))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]float64, len(candidates))
	for i := range candidates {
		if known[i] {
			result[candidates[i]] = scores[i]
		}
	}
	return result, nil
}

// Similarity returns the pairwise cosine score between two indexed ids.
func (t *TFIDF) Similarity(a, b string) (float64, error) {
	t.acquireScoreLock()
	defer t.releaseScoreLock()

	if !t.trained {
		return 0, recommend.ErrNotTrained
	}

	ai, ok := t.idIndex[a]
	if !ok {
		return 0, fmt.Errorf("%w: %s", recommend.ErrTitleNotFound, a)
	}
	bi, ok := t.idIndex[b]
	if !ok {
		return 0, fmt.Errorf("%w: %s", recommend.ErrTitleNotFound, b)
	}
	return clampScore(dotSparse(t.vectors[ai], t.vectors[bi])), nil
}

// VocabularySize returns the number of distinct indexed terms.
func (t *TFIDF) VocabularySize() int {
	t.acquireScoreLock()
	defer t.releaseScoreLock()
	return t.vocabSize
}

// DocumentCount returns the number of indexed documents.
func (t *TFIDF) DocumentCount() int {
	t.acquireScoreLock()
	defer t.releaseScoreLock()
	return len(t.vectors)
}

// dotSparse computes the dot product of two sorted sparse vectors.
// Both vectors are L2-normalized at build time, so this is the cosine.
func dotSparse(a, b termVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			sum += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// clampScore bounds a cosine to [0, 1] against floating-point drift
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// tokenize lowercases text and splits it into word-character runs,
// dropping runs shorter than minTokenRunes and stop-list tokens.
// Word characters are letters, digits and underscore.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	tokens := make([]string, 0, 16)
	start := -1
	for i, r := range lower {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			appendToken(&tokens, lower[start:i])
			start = -1
		}
	}
	if start >= 0 {
		appendToken(&tokens, lower[start:])
	}
	return tokens
}

func appendToken(tokens *[]string, tok string) {
	if utf8.RuneCountInString(tok) < minTokenRunes || isStopWord(tok) {
		return
	}
	*tokens = append(*tokens, tok)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
