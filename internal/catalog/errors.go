// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package catalog

import "errors"

var (
	// ErrDatasetEmpty indicates the dataset parsed cleanly but contains
	// no titles. An empty catalog cannot back a similarity index.
	ErrDatasetEmpty = errors.New("dataset contains no titles")

	// ErrDatasetMalformed indicates the dataset could not be parsed:
	// unreadable file, missing columns, bad row shapes, duplicate ids,
	// or unparseable required fields.
	ErrDatasetMalformed = errors.New("dataset is malformed")
)
