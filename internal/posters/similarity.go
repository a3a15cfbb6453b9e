// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package posters

import "strings"

// titleSimilarity returns the Ratcliff/Obershelp similarity of two
// titles in [0, 1], computed over lowercased runes. The measure is the
// classic difflib ratio: twice the number of matching characters
// divided by the total character count, where matches are found by
// locating the longest common substring and recursing into the
// unmatched pieces on both sides.
func titleSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)
	matched := matchingChars(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingChars counts the matched characters for the ratio. The
// leftmost longest common substring keeps the result deterministic for
// inputs with several equally long candidates.
func matchingChars(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

// longestCommonSubstring returns the start offsets and length of the
// leftmost longest substring common to a and b.
func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				curr[j] = 0
				continue
			}
			curr[j] = prev[j-1] + 1
			if curr[j] > size {
				size = curr[j]
				ai = i - size
				bi = j - size
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
