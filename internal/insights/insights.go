// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

// Package insights computes catalog aggregations with DuckDB SQL.
// Genre lists are stored as ", "-joined text, so the genre queries
// unnest them with string_split before grouping.
package insights

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/similia-io/similia/internal/database"
	"github.com/similia-io/similia/internal/models"
)

const defaultGenreLimit = 10

// Service answers catalog aggregation queries
type Service struct {
	conn *sql.DB
}

// New creates an insights service backed by the catalog database
func New(db *database.DB) *Service {
	return &Service{conn: db.Conn()}
}

// TopGenres returns the most frequent genres in the catalog, ordered by
// title count descending with genre name as tie-breaker.
func (s *Service) TopGenres(ctx context.Context, limit int) ([]models.GenreCount, error) {
	if limit <= 0 {
		limit = defaultGenreLimit
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	query := `
	SELECT genre, COUNT(*) AS title_count
	FROM (
		SELECT trim(unnest(string_split(genres, ','))) AS genre
		FROM titles
		WHERE genres IS NOT NULL AND genres <> ''
	) AS g
	WHERE genre <> ''
	GROUP BY genre
	ORDER BY title_count DESC, genre ASC
	LIMIT ?`

	rows, err := s.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top genres: %w", err)
	}
	defer rows.Close()

	var counts []models.GenreCount
	for rows.Next() {
		var gc models.GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan genre count: %w", err)
		}
		counts = append(counts, gc)
	}
	return counts, rows.Err()
}

// TypeCounts returns the number of titles per media type
func (s *Service) TypeCounts(ctx context.Context) ([]models.TypeCount, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	query := `
	SELECT type, COUNT(*) AS title_count
	FROM titles
	GROUP BY type
	ORDER BY title_count DESC, type ASC`

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query type counts: %w", err)
	}
	defer rows.Close()

	var counts []models.TypeCount
	for rows.Next() {
		var (
			tc        models.TypeCount
			mediaType string
		)
		if err := rows.Scan(&mediaType, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		tc.Type = models.MediaType(mediaType)
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

// TitlesPerYear returns a release-year histogram. Years below fromYear
// are excluded; fromYear <= 0 includes the whole catalog.
func (s *Service) TitlesPerYear(ctx context.Context, fromYear int) ([]models.YearCount, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	query := `
	SELECT release_year, COUNT(*) AS title_count
	FROM titles
	WHERE release_year >= ?
	GROUP BY release_year
	ORDER BY release_year ASC`

	rows, err := s.conn.QueryContext(ctx, query, fromYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles per year: %w", err)
	}
	defer rows.Close()

	var counts []models.YearCount
	for rows.Next() {
		var yc models.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan year count: %w", err)
		}
		counts = append(counts, yc)
	}
	return counts, rows.Err()
}

// Overview returns catalog totals. All fields are zero for an empty
// catalog.
func (s *Service) Overview(ctx context.Context) (models.CatalogOverview, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	var (
		overview models.CatalogOverview
		minYear  sql.NullInt64
		maxYear  sql.NullInt64
	)

	query := `
	SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE type = 'Movie') AS movies,
		COUNT(*) FILTER (WHERE type = 'TV Show') AS tv_shows,
		MIN(release_year) AS min_year,
		MAX(release_year) AS max_year
	FROM titles`

	if err := s.conn.QueryRowContext(ctx, query).Scan(
		&overview.TotalTitles, &overview.Movies, &overview.TVShows,
		&minYear, &maxYear,
	); err != nil {
		return models.CatalogOverview{}, fmt.Errorf("failed to query overview: %w", err)
	}

	if minYear.Valid {
		overview.MinReleaseYear = int(minYear.Int64)
	}
	if maxYear.Valid {
		overview.MaxReleaseYear = int(maxYear.Int64)
	}

	distinctQuery := `
	SELECT COUNT(DISTINCT genre)
	FROM (
		SELECT trim(unnest(string_split(genres, ','))) AS genre
		FROM titles
		WHERE genres IS NOT NULL AND genres <> ''
	) AS g
	WHERE genre <> ''`

	if err := s.conn.QueryRowContext(ctx, distinctQuery).Scan(&overview.DistinctGenres); err != nil {
		return models.CatalogOverview{}, fmt.Errorf("failed to query distinct genres: %w", err)
	}

	return overview, nil
}

// queryContext guarantees a deadline on aggregation queries
func (s *Service) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, 30*time.Second)
	}
	return ctx, func() {}
}
