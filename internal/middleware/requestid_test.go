// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	t.Run("generates valid UUID when absent", func(t *testing.T) {
		var contextID string
		handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
			contextID = GetRequestID(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/titles", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		headerID := rec.Header().Get("X-Request-ID")
		if headerID == "" {
			t.Fatal("expected X-Request-ID response header")
		}
		if _, err := uuid.Parse(headerID); err != nil {
			t.Errorf("response id is not a valid UUID: %v", err)
		}
		if contextID != headerID {
			t.Errorf("context id %q does not match header id %q", contextID, headerID)
		}
	})

	t.Run("preserves upstream proxy id", func(t *testing.T) {
		var contextID string
		handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
			contextID = GetRequestID(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/titles", nil)
		req.Header.Set("X-Request-ID", "proxy-id-42")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "proxy-id-42" {
			t.Errorf("expected upstream id preserved, got %q", got)
		}
		if contextID != "proxy-id-42" {
			t.Errorf("expected upstream id in context, got %q", contextID)
		}
	})

	t.Run("unique per request", func(t *testing.T) {
		handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		seen := make(map[string]bool)
		for i := 0; i < 10; i++ {
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodGet, "/titles", nil))
			id := rec.Header().Get("X-Request-ID")
			if seen[id] {
				t.Fatalf("duplicate request id %q", id)
			}
			seen[id] = true
		}
	})
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/titles", nil)
	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("expected empty id outside middleware, got %q", id)
	}
}

func BenchmarkRequestID(b *testing.B) {
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		_ = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/titles", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler(httptest.NewRecorder(), req)
	}
}
