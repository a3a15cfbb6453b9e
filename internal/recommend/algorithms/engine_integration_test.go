// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package algorithms

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/similia-io/similia/internal/models"
	"github.com/similia-io/similia/internal/recommend"
)

// staticProvider serves a fixed in-memory catalog to the engine.
type staticProvider struct {
	titles []models.Title
}

func (p *staticProvider) AllTitles(_ context.Context) ([]models.Title, error) {
	return p.titles, nil
}

// minimalCatalog is the smallest catalog that exercises ranking,
// filtering and zero-score backfill at once: two dramas that match
// each other exactly and one comedy that matches nothing.
func minimalCatalog() []models.Title {
	return []models.Title{
		{ID: "A", Type: models.MediaTypeMovie, Name: "A", ReleaseYear: 2000, Genres: []string{"Drama"}},
		{ID: "B", Type: models.MediaTypeMovie, Name: "B", ReleaseYear: 2001, Genres: []string{"Drama"}},
		{ID: "C", Type: models.MediaTypeTVShow, Name: "C", ReleaseYear: 1999, Genres: []string{"Comedy"}},
	}
}

func newTrainedEngine(t *testing.T, titles []models.Title) *recommend.Engine {
	t.Helper()
	index := NewTFIDF(TFIDFConfig{})
	eng, err := recommend.NewEngine(nil, index, &staticProvider{titles: titles}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := eng.Train(context.Background()); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	return eng
}

func ids(resp *recommend.Response) []string {
	out := make([]string, len(resp.Results))
	for i, r := range resp.Results {
		out[i] = r.Title.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEngineWithTFIDF(t *testing.T) {
	eng := newTrainedEngine(t, minimalCatalog())

	t.Run("unfiltered fills k with zero scorers", func(t *testing.T) {
		resp, err := eng.Recommend(context.Background(), recommend.Request{TitleID: "A", K: 2})
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if !equalIDs(ids(resp), []string{"B", "C"}) {
			t.Fatalf("result ids = %v, want [B C]", ids(resp))
		}
		if resp.Results[0].Score <= resp.Results[1].Score {
			t.Errorf("scores = %f, %f, want strictly decreasing", resp.Results[0].Score, resp.Results[1].Score)
		}
		if resp.Results[1].Score != 0 {
			t.Errorf("unrelated title score = %f, want 0", resp.Results[1].Score)
		}
	})

	t.Run("type filter restricts the pool", func(t *testing.T) {
		resp, err := eng.Recommend(context.Background(), recommend.Request{
			TitleID: "A",
			K:       2,
			Filters: recommend.Filters{MediaType: models.MediaTypeMovie},
		})
		if err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
		if !equalIDs(ids(resp), []string{"B"}) {
			t.Errorf("result ids = %v, want [B]", ids(resp))
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := eng.Recommend(context.Background(), recommend.Request{TitleID: "unknown-id", K: 5})
		if !errors.Is(err, recommend.ErrTitleNotFound) {
			t.Errorf("Recommend = %v, want ErrTitleNotFound", err)
		}
	})

	t.Run("non-positive k", func(t *testing.T) {
		_, err := eng.Recommend(context.Background(), recommend.Request{TitleID: "A", K: 0})
		if !errors.Is(err, recommend.ErrInvalidK) {
			t.Errorf("Recommend = %v, want ErrInvalidK", err)
		}
	})
}

func TestEngineWithTFIDFRealisticCatalog(t *testing.T) {
	titles := []models.Title{
		{
			ID: "s1", Type: models.MediaTypeMovie, Name: "Inception",
			Director: "Christopher Nolan", Cast: []string{"Leonardo DiCaprio", "Elliot Page"},
			ReleaseYear: 2010, Genres: []string{"Sci-Fi & Fantasy", "Thrillers"},
		},
		{
			ID: "s2", Type: models.MediaTypeMovie, Name: "Interstellar",
			Director: "Christopher Nolan", Cast: []string{"Matthew McConaughey", "Anne Hathaway"},
			ReleaseYear: 2014, Genres: []string{"Sci-Fi & Fantasy", "Dramas"},
		},
		{
			ID: "s3", Type: models.MediaTypeTVShow, Name: "Dark",
			Cast:        []string{"Louis Hofmann", "Lisa Vicari"},
			ReleaseYear: 2017, Genres: []string{"Sci-Fi & Fantasy", "TV Dramas"},
		},
		{
			ID: "s4", Type: models.MediaTypeMovie, Name: "Paddington",
			Director: "Paul King", Cast: []string{"Hugh Bonneville", "Sally Hawkins"},
			ReleaseYear: 2014, Genres: []string{"Children & Family Movies", "Comedies"},
		},
	}
	eng := newTrainedEngine(t, titles)

	resp, err := eng.Recommend(context.Background(), recommend.Request{TitleID: "s1", K: 3})
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(resp.Results))
	}
	// Interstellar shares director, sci-fi and fantasy terms with
	// Inception; Paddington shares nothing and must rank last.
	if resp.Results[0].Title.ID != "s2" {
		t.Errorf("top result = %s, want s2", resp.Results[0].Title.ID)
	}
	if resp.Results[2].Title.ID != "s4" {
		t.Errorf("last result = %s, want s4", resp.Results[2].Title.ID)
	}
	if resp.Results[0].Score <= resp.Results[2].Score {
		t.Error("shared-term title does not outscore unrelated title")
	}

	t.Run("similarity is symmetric", func(t *testing.T) {
		ab, err := eng.Similarity("s1", "s2")
		if err != nil {
			t.Fatalf("Similarity failed: %v", err)
		}
		ba, err := eng.Similarity("s2", "s1")
		if err != nil {
			t.Fatalf("Similarity failed: %v", err)
		}
		if ab != ba {
			t.Errorf("Similarity(s1, s2) = %f, Similarity(s2, s1) = %f", ab, ba)
		}
	})

	t.Run("recommendations stable across retrains", func(t *testing.T) {
		first := ids(resp)
		for i := 0; i < 3; i++ {
			fresh := newTrainedEngine(t, titles)
			again, err := fresh.Recommend(context.Background(), recommend.Request{TitleID: "s1", K: 3})
			if err != nil {
				t.Fatalf("Recommend failed: %v", err)
			}
			if !equalIDs(ids(again), first) {
				t.Fatalf("retrain %d ids = %v, want %v", i, ids(again), first)
			}
			for j := range again.Results {
				if again.Results[j].Score != resp.Results[j].Score {
					t.Errorf("retrain %d score[%d] = %f, want %f",
						i, j, again.Results[j].Score, resp.Results[j].Score)
				}
			}
		}
	})
}
