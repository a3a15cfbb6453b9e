// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package models

// GenreCount is one row of the genre distribution: how many catalog
// titles carry a genre. A title with three genres counts once per genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// TypeCount is the number of catalog titles per media type.
type TypeCount struct {
	Type  MediaType `json:"type"`
	Count int       `json:"count"`
}

// YearCount is the number of catalog titles released in a year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// CatalogOverview summarizes the loaded dataset.
type CatalogOverview struct {
	TotalTitles    int `json:"total_titles"`
	Movies         int `json:"movies"`
	TVShows        int `json:"tv_shows"`
	DistinctGenres int `json:"distinct_genres"`
	MinReleaseYear int `json:"min_release_year"`
	MaxReleaseYear int `json:"max_release_year"`
}
