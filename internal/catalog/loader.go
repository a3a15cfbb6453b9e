// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

// Package catalog loads the media catalog from its CSV source.
//
// The loader is deliberately strict about structure (columns, id
// uniqueness, and values that are present but unparseable) and
// deliberately lenient about incomplete rows: a missing director or
// cast becomes an empty string, and a row lacking its identity fields
// (id, type, title, release year) is dropped rather than failing the
// load. This mirrors how the feature text is built downstream, where
// absent fields simply contribute no tokens.
//
// Loading is deterministic: the same file bytes always produce the same
// titles in the same order.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/similia-io/similia/internal/logging"
	"github.com/similia-io/similia/internal/models"
)

// columns are the required CSV columns. Order in the file does not
// matter; all twelve must be present in the header.
var columns = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in",
	"description",
}

// mandatoryColumns are the fields a row cannot serve without: id keys
// every lookup, and type, title, and release year back the filters and
// the feature text. Rows missing any of them are dropped.
var mandatoryColumns = []string{"show_id", "type", "title", "release_year"}

// dateAddedLayout matches the catalog's date style, e.g. "September 25, 2021".
const dateAddedLayout = "January 2, 2006"

// Load reads and parses the catalog CSV at path.
//
// Errors wrap ErrDatasetMalformed (unreadable file, header problems,
// unparseable values, duplicate ids) or ErrDatasetEmpty (no usable data
// rows). On success the titles are returned in file order.
func Load(path string) ([]models.Title, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDatasetMalformed, path, err)
	}
	defer f.Close()

	titles, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return titles, nil
}

// Parse reads catalog rows from r. Split from Load so tests and other
// sources can feed readers directly.
func Parse(r io.Reader) ([]models.Title, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrDatasetMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrDatasetMalformed, err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var titles []models.Title
	seen := make(map[string]struct{})
	dropped := 0

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDatasetMalformed, line, err)
		}

		if missing := missingMandatory(record, idx); missing != "" {
			logging.Debug().Int("line", line).Str("field", missing).Msg("Dropping catalog row with missing field")
			dropped++
			continue
		}

		title, err := parseRow(record, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDatasetMalformed, line, err)
		}

		if _, dup := seen[title.ID]; dup {
			return nil, fmt.Errorf("%w: line %d: duplicate id %q", ErrDatasetMalformed, line, title.ID)
		}
		seen[title.ID] = struct{}{}

		titles = append(titles, title)
	}

	if dropped > 0 {
		logging.Warn().Int("rows", dropped).Msg("Dropped catalog rows with missing mandatory fields")
	}

	if len(titles) == 0 {
		return nil, ErrDatasetEmpty
	}

	return titles, nil
}

// columnIndex maps required column names to their header positions.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	for _, name := range columns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrDatasetMalformed, name)
		}
	}
	return idx, nil
}

// fieldAt returns the trimmed value of a named column in a record.
func fieldAt(record []string, idx map[string]int, name string) string {
	i := idx[name]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// missingMandatory returns the name of the first mandatory column the
// record leaves empty, or "" when the row is complete enough to keep.
func missingMandatory(record []string, idx map[string]int) string {
	for _, name := range mandatoryColumns {
		if fieldAt(record, idx, name) == "" {
			return name
		}
	}
	return ""
}

// parseRow converts one CSV record into a Title. The caller has already
// checked the mandatory fields are present; values that are present but
// unparseable are errors.
func parseRow(record []string, idx map[string]int) (models.Title, error) {
	field := func(name string) string {
		return fieldAt(record, idx, name)
	}

	id := field("show_id")

	mediaType, err := models.ParseMediaType(field("type"))
	if err != nil {
		return models.Title{}, fmt.Errorf("id %q: %v", id, err)
	}

	yearText := field("release_year")
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return models.Title{}, fmt.Errorf("id %q: bad release_year %q", id, yearText)
	}

	title := models.Title{
		ID:          id,
		Type:        mediaType,
		Name:        field("title"),
		Director:    field("director"),
		Cast:        splitList(field("cast")),
		Country:     field("country"),
		ReleaseYear: year,
		Rating:      field("rating"),
		Duration:    field("duration"),
		Genres:      splitList(field("listed_in")),
		Description: field("description"),
	}

	// date_added is display metadata only; unparseable values stay nil
	if raw := field("date_added"); raw != "" {
		if parsed, err := time.Parse(dateAddedLayout, raw); err == nil {
			title.DateAdded = &parsed
		}
	}

	return title, nil
}

// splitList splits a comma-separated source field into trimmed parts,
// dropping empties.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CombinedText builds the text the similarity index vectorizes: the
// title, director, cast, and genres joined with spaces. Absent fields
// contribute nothing.
func CombinedText(t *models.Title) string {
	parts := make([]string, 0, 4)

	if t.Name != "" {
		parts = append(parts, t.Name)
	}
	if t.Director != "" {
		parts = append(parts, t.Director)
	}
	if len(t.Cast) > 0 {
		parts = append(parts, strings.Join(t.Cast, " "))
	}
	if len(t.Genres) > 0 {
		parts = append(parts, strings.Join(t.Genres, " "))
	}

	return strings.Join(parts, " ")
}
