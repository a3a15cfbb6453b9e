// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

/*
Package middleware provides HTTP middleware in plain http.HandlerFunc
form, adapted into the chi stack by the api package.

Components:

  - RequestID: UUID request tracking with log correlation
  - PrometheusMetrics: request counter, latency histogram, in-flight gauge
  - Compression: gzip response encoding for clients that accept it

All three wrap func(http.ResponseWriter, *http.Request) handlers
directly, so they can also front handlers outside the router (tests,
auxiliary listeners):

	http.HandleFunc("/api/v1/titles",
	    middleware.PrometheusMetrics(
	        middleware.Compression(
	            middleware.RequestID(handler),
	        ),
	    ),
	)
*/
package middleware
