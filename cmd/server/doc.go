// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

/*
Package main is the entry point for the Similia server application.

Similia is a self-hosted content-based recommendation service for movie and
TV catalogs. It builds a TF-IDF similarity index over title metadata
(director, cast, genres, description) and serves similar-title queries,
catalog browsing, and genre insights over a REST API, with optional poster
artwork lookups against TMDB.

# Application Architecture

The server implements a layered architecture with suture v4 process supervision:

	RootSupervisor ("similia")
	├── DataSupervisor ("data-layer")
	│   ├── Engine Trainer (index training and scheduled rebuilds)
	│   └── Poster Store (cache GC, when TMDB lookups are enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and an optional YAML file
 2. Logging: zerolog, JSON or console format
 3. Database: DuckDB analytical store for the title catalog
 4. Dataset: catalog CSV parsed and loaded into the store
 5. Engine: TF-IDF similarity index over the catalog
 6. Posters: TMDB lookup service with layered caching (optional)
 7. HTTP server: chi router with rate limiting, CORS, and Prometheus metrics
 8. Supervisor tree: all long-running services under supervision

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
  - Environment variables (see .env.example)
  - Config file (config.yaml)
  - Built-in defaults

The only required setting is the dataset path:

	export DATASET_PATH=/data/catalog.csv

Poster lookups are opt-in and need a TMDB API key:

	export TMDB_ENABLED=true
	export TMDB_API_KEY=your-tmdb-api-key
	export TMDB_CACHE_PATH=/data/posters

# Startup and Readiness

The dataset is loaded and validated before the server starts; a missing or
malformed catalog file is a fatal startup error. Index training runs under
supervision, so the HTTP server accepts connections immediately and answers
503 DATASET_UNAVAILABLE on recommendation routes until the first training
cycle completes. Orchestrators should gate traffic on GET /api/v1/ready.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests to complete (configurable timeout)
  - Stops the trainer and poster maintenance loops
  - Closes the poster cache and database

# Example Usage

Minimal run against a catalog file:

	export DATASET_PATH=./data/catalog.csv
	./similia

Production with posters and JSON logs:

	export DATASET_PATH=/data/catalog.csv
	export TMDB_ENABLED=true
	export TMDB_API_KEY=your-tmdb-api-key
	export TMDB_CACHE_PATH=/data/posters
	export LOG_FORMAT=json
	./similia

Docker:

	docker run -d \
	  -v ./data:/data \
	  -e DATASET_PATH=/data/catalog.csv \
	  -p 8807:8807 \
	  ghcr.io/similia-io/similia
*/
package main
