// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package recommend

import "errors"

var (
	// ErrNotTrained indicates the similarity index has not been built
	// yet. Callers should retry after the catalog loads.
	ErrNotTrained = errors.New("similarity index not trained")

	// ErrTitleNotFound indicates the query title id is not in the
	// catalog.
	ErrTitleNotFound = errors.New("title not found")

	// ErrInvalidK indicates a non-positive result limit.
	ErrInvalidK = errors.New("k must be positive")

	// ErrInvalidYearRange indicates a year filter with min above max.
	ErrInvalidYearRange = errors.New("year range min exceeds max")
)
