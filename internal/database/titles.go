// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/models"
)

// titleColumns is the select list shared by every title query.
// Order must match scanTitle.
const titleColumns = `id, type, title, director, cast_members, country, date_added, release_year, rating, duration, genres, description`

// TitleFilter narrows catalog listings. Zero values mean "no constraint".
// Filters are hard constraints: a title must satisfy every set field.
type TitleFilter struct {
	// Genre keeps titles carrying this genre (case-insensitive exact
	// match against the title's genre list).
	Genre string

	// Type keeps titles of this media type.
	Type models.MediaType

	// YearMin / YearMax bound the release year (inclusive).
	YearMin int
	YearMax int

	// Query keeps titles whose name contains this substring
	// (case-insensitive).
	Query string

	// Limit / Offset page through results. Limit <= 0 means no limit.
	Limit  int
	Offset int
}

// apply adds the filter's conditions to a query builder
func (f TitleFilter) apply(qb *queryBuilder) {
	if f.Genre != "" {
		qb.addFilter("list_contains(string_split(lower(genres), ', '), lower(?))", f.Genre)
	}
	if f.Type != "" {
		qb.addFilter("type = ?", string(f.Type))
	}
	if f.YearMin > 0 {
		qb.addFilter("release_year >= ?", f.YearMin)
	}
	if f.YearMax > 0 {
		qb.addFilter("release_year <= ?", f.YearMax)
	}
	if f.Query != "" {
		qb.addFilter("contains(lower(title), lower(?))", f.Query)
	}
}

// ReplaceTitles atomically swaps the catalog contents for the given
// titles. Used at startup after parsing the dataset; the delete and all
// inserts run in one transaction so readers never observe a partial
// catalog.
func (db *DB) ReplaceTitles(ctx context.Context, titles []models.Title) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // No-op after commit
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM titles"); err != nil {
		return fmt.Errorf("failed to clear titles: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO titles (`+titleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close prepared statement")
		}
	}()

	for _, t := range titles {
		if _, err := stmt.ExecContext(ctx,
			t.ID, string(t.Type), t.Name, t.Director,
			joinList(t.Cast), t.Country, t.DateAdded, t.ReleaseYear,
			t.Rating, t.Duration, joinList(t.Genres), t.Description,
		); err != nil {
			return fmt.Errorf("failed to insert title %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit titles: %w", err)
	}

	logging.Info().
		Int("titles", len(titles)).
		Dur("elapsed", time.Since(start)).
		Msg("Catalog stored")

	return nil
}

// GetTitle returns a single title by id. Returns ErrNotFound when the
// id is not in the catalog.
func (db *DB) GetTitle(ctx context.Context, id string) (models.Title, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	stmt, err := db.preparedStmt(ctx, `SELECT `+titleColumns+` FROM titles WHERE id = ?`)
	if err != nil {
		return models.Title{}, err
	}

	t, err := scanTitleRow(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Title{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Title{}, fmt.Errorf("failed to get title %s: %w", id, err)
	}
	return t, nil
}

// ListTitles returns catalog entries matching the filter, ordered by
// name then id for stable pagination.
func (db *DB) ListTitles(ctx context.Context, f TitleFilter) ([]models.Title, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	qb := newQueryBuilder(`SELECT ` + titleColumns + ` FROM titles WHERE 1=1`)
	f.apply(qb)

	suffix := "ORDER BY title ASC, id ASC"
	if f.Limit > 0 {
		suffix += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	query, args := qb.build(suffix)
	titles, err := queryAndScan(ctx, db.conn, query, args, scanTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	return titles, nil
}

// CountTitles returns the number of catalog entries matching the filter.
// Limit and Offset are ignored.
func (db *DB) CountTitles(ctx context.Context, f TitleFilter) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	qb := newQueryBuilder(`SELECT COUNT(*) FROM titles WHERE 1=1`)
	f.apply(qb)

	query, args := qb.build("")
	var count int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count titles: %w", err)
	}
	return count, nil
}

// AllTitles returns the full catalog ordered by id. The similarity
// index trains on this ordering, so it must be deterministic.
func (db *DB) AllTitles(ctx context.Context) ([]models.Title, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + titleColumns + ` FROM titles WHERE 1=1 ORDER BY id ASC`
	titles, err := queryAndScan(ctx, db.conn, query, nil, scanTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return titles, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTitle(rows *sql.Rows) (models.Title, error) {
	return scanTitleRow(rows)
}

func scanTitleRow(row rowScanner) (models.Title, error) {
	var (
		t         models.Title
		mediaType string
		director  sql.NullString
		cast      sql.NullString
		country   sql.NullString
		dateAdded sql.NullTime
		rating    sql.NullString
		duration  sql.NullString
		genres    sql.NullString
		desc      sql.NullString
	)

	if err := row.Scan(
		&t.ID, &mediaType, &t.Name, &director, &cast, &country,
		&dateAdded, &t.ReleaseYear, &rating, &duration, &genres, &desc,
	); err != nil {
		return models.Title{}, err
	}

	t.Type = models.MediaType(mediaType)
	t.Director = director.String
	t.Cast = splitList(cast.String)
	t.Country = country.String
	if dateAdded.Valid {
		added := dateAdded.Time
		t.DateAdded = &added
	}
	t.Rating = rating.String
	t.Duration = duration.String
	t.Genres = splitList(genres.String)
	t.Description = desc.String
	return t, nil
}

// joinList stores a list field as ", "-joined text so string_split can
// recover the elements in SQL.
func joinList(values []string) string {
	return strings.Join(values, ", ")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
