// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package posters

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/similia-io/similia/internal/models"
)

// posterKeyPrefix namespaces poster entries inside the Badger store.
const posterKeyPrefix = "poster:"

// storedPoster is the persisted cache record. Unmatched lookups are
// stored too (negative caching) so unknown titles do not trigger a
// fresh TMDB search on every request.
type storedPoster struct {
	Poster   models.PosterRef `json:"poster"`
	CachedAt time.Time        `json:"cached_at"`
}

// posterStore is a BadgerDB-backed poster cache with per-entry TTLs.
// Badger expires entries itself; value log garbage collection is the
// caller's responsibility via RunGC.
type posterStore struct {
	db *badger.DB
}

// openPosterDB opens the poster cache database at path.
func openPosterDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB internal logs
	// Poster records are tiny; keep value log segments small
	opts.ValueLogFileSize = 16 << 20 // 16MB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for posters: %w", err)
	}
	return db, nil
}

func newPosterStore(db *badger.DB) *posterStore {
	return &posterStore{db: db}
}

// Get returns the cached poster for key, or ok=false when the key is
// absent or expired.
func (s *posterStore) Get(key string) (*models.PosterRef, bool) {
	var stored storedPoster

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(posterKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err != nil {
		return nil, false
	}
	return &stored.Poster, true
}

// Set stores a poster lookup result with the given TTL.
func (s *posterStore) Set(key string, ref *models.PosterRef, ttl time.Duration) error {
	stored := storedPoster{
		Poster:   *ref,
		CachedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal poster entry: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(posterKeyPrefix+key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Count returns the number of poster entries currently in the store.
func (s *posterStore) Count() (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(posterKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}

// RunGC runs BadgerDB value log garbage collection to reclaim space
// from expired entries. Badger returns ErrNoRewrite when there was
// nothing to collect, which is not an error here.
func (s *posterStore) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *posterStore) Close() error {
	return s.db.Close()
}
