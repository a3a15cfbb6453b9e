// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package recommend

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/similia-io/similia/internal/models"
)

// Document is one catalog entry's combined descriptive text, the unit
// the similarity index trains on.
type Document struct {
	// ID is the catalog title id.
	ID string `json:"id"`

	// Text is the space-joined descriptive text (title, director, cast,
	// genres).
	Text string `json:"text"`
}

// Algorithm is a trainable similarity index over catalog documents.
//
// Implementations must be safe for concurrent use: Train acquires an
// exclusive lock while Similar and Similarity use a shared lock.
type Algorithm interface {
	// Name returns the algorithm identifier.
	Name() string

	// IsTrained returns whether the model has been trained.
	IsTrained() bool

	// Train builds the index from catalog documents. Any previous model
	// is replaced.
	Train(ctx context.Context, docs []Document) error

	// Similar scores the candidate ids against the given id. Every
	// candidate known to the index appears in the result, including
	// zero scores; unknown candidates are skipped. Scores are symmetric
	// and bounded to [0, 1].
	Similar(ctx context.Context, id string, candidates []string) (map[string]float64, error)

	// Similarity returns the pairwise score between two indexed ids.
	Similarity(a, b string) (float64, error)

	// VocabularySize returns the number of distinct indexed terms.
	VocabularySize() int
}

// YearRange bounds release years (inclusive). A zero Min or Max leaves
// that side unbounded.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Filters narrows the candidate pool before ranking. Every set field is
// a hard constraint: no returned title may violate it.
type Filters struct {
	// Genres keeps titles carrying at least one of these genres
	// (case-insensitive exact match).
	Genres []string `json:"genres,omitempty"`

	// MediaType keeps titles of this type.
	MediaType models.MediaType `json:"type,omitempty"`

	// Years bounds the release year.
	Years *YearRange `json:"years,omitempty"`
}

// Matches reports whether the title satisfies every set filter field
func (f Filters) Matches(t *models.Title) bool {
	if f.MediaType != "" && t.Type != f.MediaType {
		return false
	}
	if f.Years != nil {
		if f.Years.Min > 0 && t.ReleaseYear < f.Years.Min {
			return false
		}
		if f.Years.Max > 0 && t.ReleaseYear > f.Years.Max {
			return false
		}
	}
	if len(f.Genres) > 0 {
		matched := false
		for _, genre := range f.Genres {
			if t.HasGenre(genre) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Empty reports whether no filter field is set
func (f Filters) Empty() bool {
	return f.MediaType == "" && f.Years == nil && len(f.Genres) == 0
}

// cacheKey returns a canonical string for response caching. Genres are
// lowercased and sorted so equivalent filters share an entry.
func (f Filters) cacheKey() string {
	var b strings.Builder
	if len(f.Genres) > 0 {
		genres := make([]string, len(f.Genres))
		for i, g := range f.Genres {
			genres[i] = strings.ToLower(strings.TrimSpace(g))
		}
		sort.Strings(genres)
		b.WriteString("g=")
		b.WriteString(strings.Join(genres, ","))
	}
	b.WriteString("|t=")
	b.WriteString(string(f.MediaType))
	if f.Years != nil {
		b.WriteString("|y=")
		b.WriteString(strconv.Itoa(f.Years.Min))
		b.WriteString("-")
		b.WriteString(strconv.Itoa(f.Years.Max))
	}
	return b.String()
}

// Request asks for titles similar to TitleID.
type Request struct {
	// TitleID is the catalog id of the query title.
	TitleID string `json:"title_id"`

	// K is the maximum number of results. Zero or negative is invalid;
	// values above the engine's configured maximum are clamped.
	K int `json:"k"`

	// Filters restricts the candidate pool. Applied before ranking.
	Filters Filters `json:"filters"`
}

// ScoredTitle pairs a recommended title with its similarity score.
type ScoredTitle struct {
	Title models.Title `json:"title"`

	// Score is the cosine similarity to the query title, in [0, 1].
	Score float64 `json:"score"`
}

// ResponseMetadata describes how a response was produced.
type ResponseMetadata struct {
	// K is the effective result limit after clamping.
	K int `json:"k"`

	// Candidates is the pool size after filtering and self-exclusion.
	Candidates int `json:"candidates"`

	// ModelVersion increments on every (re)train.
	ModelVersion int `json:"model_version"`

	// Cached reports whether the response was served from cache.
	Cached bool `json:"cached"`

	// GeneratedAt is when the response was computed (not served).
	GeneratedAt time.Time `json:"generated_at"`
}

// Response is an ordered recommendation list. Results are sorted by
// descending score with ascending id as the tie-break.
type Response struct {
	TitleID  string           `json:"title_id"`
	Results  []ScoredTitle    `json:"results"`
	Metadata ResponseMetadata `json:"metadata"`
}

// TrainingStatus reports the engine's model state.
type TrainingStatus struct {
	Trained       bool      `json:"trained"`
	ModelVersion  int       `json:"model_version"`
	LastTrainedAt time.Time `json:"last_trained_at"`
	DatasetTitles int       `json:"dataset_titles"`
	Vocabulary    int       `json:"vocabulary"`
}
