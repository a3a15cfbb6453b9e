// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

// Package models defines the domain and API models shared across Similia.
package models

import (
	"fmt"
	"strings"
	"time"
)

// MediaType distinguishes movies from TV shows. The catalog CSV uses the
// literal values "Movie" and "TV Show".
type MediaType string

const (
	MediaTypeMovie  MediaType = "Movie"
	MediaTypeTVShow MediaType = "TV Show"
)

// ParseMediaType converts a string into a MediaType. Matching is
// case-insensitive and tolerates the common "tv" / "tvshow" spellings.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaTypeMovie, nil
	case "tv show", "tvshow", "tv":
		return MediaTypeTVShow, nil
	default:
		return "", fmt.Errorf("unknown media type: %q", s)
	}
}

// String returns the canonical catalog spelling.
func (m MediaType) String() string {
	return string(m)
}

// Valid reports whether the media type is one of the known values.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTVShow
}

// Title is a single catalog entry. Fields map 1:1 to the catalog CSV
// columns; list-valued columns (cast, listed_in) are split on commas at
// load time.
//
// Optional text columns (director, cast, country, rating, duration) are
// empty rather than null when missing from the source row.
type Title struct {
	// ID is the catalog identifier, e.g. "s1". Unique within a dataset.
	ID string `json:"id"`

	// Type is the media type: Movie or TV Show.
	Type MediaType `json:"type"`

	// Name is the display title.
	Name string `json:"title"`

	// Director is the credited director (may list several, comma-joined
	// in the source; kept verbatim for display).
	Director string `json:"director,omitempty"`

	// Cast lists the credited actors.
	Cast []string `json:"cast,omitempty"`

	// Country is the production country as listed in the source.
	Country string `json:"country,omitempty"`

	// DateAdded is when the title entered the catalog. Nil when the
	// source row has no date.
	DateAdded *time.Time `json:"date_added,omitempty"`

	// ReleaseYear is the original release year.
	ReleaseYear int `json:"release_year"`

	// Rating is the maturity rating (e.g. "PG-13", "TV-MA").
	Rating string `json:"rating,omitempty"`

	// Duration is the raw duration string ("90 min", "2 Seasons").
	Duration string `json:"duration,omitempty"`

	// Genres lists the catalog genres from the listed_in column.
	Genres []string `json:"genres"`

	// Description is the synopsis.
	Description string `json:"description,omitempty"`
}

// HasGenre reports whether the title carries the given genre.
// Matching is case-insensitive against the trimmed genre list.
func (t *Title) HasGenre(genre string) bool {
	for _, g := range t.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// PosterRef points at external poster artwork for a title.
// A zero-valued URL with Matched=false means no acceptable poster was
// found; clients render a placeholder.
type PosterRef struct {
	// URL is the full poster image URL.
	URL string `json:"url,omitempty"`

	// TMDBID is the matched TMDB entry, for attribution links.
	TMDBID int64 `json:"tmdb_id,omitempty"`

	// Matched reports whether an acceptable match was found.
	Matched bool `json:"matched"`
}
