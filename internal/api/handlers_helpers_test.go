// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"42", 42, false},
		{"-7", -7, false},
		{"0", 0, false},
		{" 15 ", 15, false},
		{"12abc", 0, true},
		{"abc", 0, true},
		{"1.5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseIntParam(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIntParam(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseIntParam(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestGetIntParam(t *testing.T) {
	t.Run("default when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/titles", nil)
		got, err := getIntParam(req, "limit", 20)
		if err != nil || got != 20 {
			t.Errorf("got (%d, %v), want (20, nil)", got, err)
		}
	})

	t.Run("parses when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/titles?limit=7", nil)
		got, err := getIntParam(req, "limit", 20)
		if err != nil || got != 7 {
			t.Errorf("got (%d, %v), want (7, nil)", got, err)
		}
	})

	t.Run("errors when malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/titles?limit=x", nil)
		if _, err := getIntParam(req, "limit", 20); err == nil {
			t.Error("expected error for malformed value")
		}
	})
}

func TestGetBoolParam(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"posters=true", true},
		{"posters=1", true},
		{"posters=TRUE", true},
		{"posters=false", false},
		{"posters=yes", false},
		{"", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/titles?"+tt.query, nil)
		if got := getBoolParam(req, "posters"); got != tt.want {
			t.Errorf("getBoolParam(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"Dramas", []string{"Dramas"}},
		{"Dramas,Comedies", []string{"Dramas", "Comedies"}},
		{" Dramas , Comedies ", []string{"Dramas", "Comedies"}},
		{",,", nil},
		{"a,,b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := parseCommaSeparated(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseCommaSeparated(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseCommaSeparated(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"line\nbreak", "line\\x0abreak"},
		{"tab\there", "tab\\x09here"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.input); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGenerateETag(t *testing.T) {
	a := generateETag([]byte(`{"status":"success"}`))
	b := generateETag([]byte(`{"status":"success"}`))
	c := generateETag([]byte(`{"status":"error"}`))

	if a != b {
		t.Error("identical bodies must hash to identical ETags")
	}
	if a == c {
		t.Error("different bodies should hash to different ETags")
	}
	if len(a) != 10 || a[0] != '"' || a[len(a)-1] != '"' {
		t.Errorf("ETag %q is not a quoted 8-hex-digit string", a)
	}
}

func TestRespondJSONSetsCacheHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("expected ETag on 200 response")
	}
	if rec.Header().Get("Cache-Control") != "public, max-age=60" {
		t.Errorf("unexpected Cache-Control %q", rec.Header().Get("Cache-Control"))
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, http.StatusNotFound, codeTitleNotFound, "Title not found in catalog")

	expectErrorCode(t, rec, http.StatusNotFound, codeTitleNotFound)
	if rec.Header().Get("ETag") != "" {
		t.Error("error responses must not carry ETags")
	}
}
