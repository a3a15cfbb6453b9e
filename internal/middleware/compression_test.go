// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	payload := strings.Repeat(`{"title":"The Matrix","score":0.91},`, 100)
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(payload)); err != nil {
			t.Fatalf("write response: %v", err)
		}
	})

	t.Run("gzips when client accepts", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/titles", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
			t.Fatalf("expected Content-Encoding gzip, got %q", got)
		}
		if rec.Header().Get("Content-Length") != "" {
			t.Error("expected Content-Length to be dropped")
		}

		reader, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		defer reader.Close()

		body, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("read decompressed body: %v", err)
		}
		if string(body) != payload {
			t.Error("decompressed body does not match original payload")
		}
	})

	t.Run("passes through without accept header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/titles", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Header().Get("Content-Encoding") != "" {
			t.Error("expected uncompressed response")
		}
		if rec.Body.String() != payload {
			t.Error("body does not match original payload")
		}
	})

	t.Run("status code preserved", func(t *testing.T) {
		notFound := Compression(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		notFound(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}
