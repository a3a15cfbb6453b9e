// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with a generous timeout for DDL statements.
// Schema creation on a cold start can be slow on constrained disks.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates all tables and indexes if they do not exist
func (db *DB) createTables(ctx context.Context) error {
	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema object: %w", err)
		}
	}
	return nil
}

// getTableCreationQueries returns the DDL for the catalog schema.
// The cast column is named cast_members because CAST is a reserved word.
// List-valued fields (cast_members, genres) are stored as ", "-joined text
// so DuckDB string_split can unnest them for aggregation queries.
func getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS titles (
			id VARCHAR PRIMARY KEY,
			type VARCHAR NOT NULL,
			title VARCHAR NOT NULL,
			director VARCHAR,
			cast_members VARCHAR,
			country VARCHAR,
			date_added TIMESTAMP,
			release_year INTEGER NOT NULL,
			rating VARCHAR,
			duration VARCHAR,
			genres VARCHAR,
			description VARCHAR
		)`,
		`CREATE INDEX IF NOT EXISTS idx_titles_type ON titles(type)`,
		`CREATE INDEX IF NOT EXISTS idx_titles_release_year ON titles(release_year)`,
	}
}
