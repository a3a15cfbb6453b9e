// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package posters

import (
	"math"
	"testing"
)

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "inception", "inception", 1.0},
		{"case insensitive", "INCEPTION", "inception", 1.0},
		{"surrounding whitespace", "  Dark  ", "dark", 1.0},
		{"both empty", "", "", 0.0},
		{"one empty", "inception", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		// Classic ratio example: "bcd" matches, 2*3/(4+4)
		{"partial overlap", "abcd", "bcde", 0.75},
		// "inception" (9) inside a longer title (24): 2*9/33
		{"prefix of longer title", "inception", "inception: the cobol job", 2.0 * 9 / 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titleSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("titleSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTitleSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"inception", "interstellar"},
		{"the crown", "crown heights"},
		{"dark", "darkest hour"},
		{"paddington", "paddington 2"},
	}

	for _, p := range pairs {
		ab := titleSimilarity(p[0], p[1])
		ba := titleSimilarity(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("titleSimilarity(%q, %q) = %f but reversed = %f", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("titleSimilarity(%q, %q) = %f, want within [0, 1]", p[0], p[1], ab)
		}
	}
}

func TestTitleSimilarityOrdersByCloseness(t *testing.T) {
	// A sequel title should sit closer than an unrelated one
	sequel := titleSimilarity("paddington", "paddington 2")
	unrelated := titleSimilarity("paddington", "the godfather")
	if sequel <= unrelated {
		t.Errorf("sequel similarity %f <= unrelated similarity %f", sequel, unrelated)
	}
}

func TestLongestCommonSubstring(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		wantAI   int
		wantBI   int
		wantSize int
	}{
		{"full match", "dark", "dark", 0, 0, 4},
		{"middle", "xdarky", "adarkb", 1, 1, 4},
		{"no match", "abc", "xyz", 0, 0, 0},
		{"leftmost wins on tie", "abxab", "ab", 0, 0, 2},
		{"empty", "", "abc", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai, bi, size := longestCommonSubstring([]rune(tt.a), []rune(tt.b))
			if ai != tt.wantAI || bi != tt.wantBI || size != tt.wantSize {
				t.Errorf("longestCommonSubstring(%q, %q) = (%d, %d, %d), want (%d, %d, %d)",
					tt.a, tt.b, ai, bi, size, tt.wantAI, tt.wantBI, tt.wantSize)
			}
		})
	}
}
