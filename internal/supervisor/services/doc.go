// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

/*
Package services provides suture.Service wrappers for Similia components.

This package adapts existing application components to the suture v4 supervision
model, translating their lifecycle patterns (train loop, periodic maintenance,
ListenAndServe) into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation into the Serve pattern
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Engine Trainer (EngineTrainerService):
  - Owns recommendation index training
  - Optionally trains on startup and rebuilds on a schedule
  - Training failures are logged and retried, never fatal

Poster Store (PosterStoreService):
  - Runs periodic garbage collection on the poster cache
  - No-op against a service without persistence

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/similia-io/similia/internal/supervisor"
	    "github.com/similia-io/similia/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, engine *recommend.Engine, posterSvc *posters.Service) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    trainerSvc := services.NewEngineTrainerService(engine, services.EngineTrainerConfig{
	        TrainOnStartup:  true,
	        RebuildInterval: cfg.Recommend.RebuildInterval,
	    }, zlog)
	    tree.AddDataService(trainerSvc)

	    tree.AddDataService(services.NewPosterStoreService(posterSvc, 30*time.Minute, zlog))

	    // HTTP server with 10s shutdown timeout
	    tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	    // Start supervision
	    tree.Serve(ctx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# Service Identification

All services implement fmt.Stringer for logging:

	func (s *HTTPServerService) String() string {
	    return "http-server"
	}

Suture uses this for log messages:

	INFO http-server: starting
	INFO http-server: stopped
	ERROR http-server: restarting after failure

# Testing

Services accept narrow interfaces rather than concrete types, so tests can
substitute mocks:

	type MockServer struct {
	    started  bool
	    shutdown bool
	}

	func (m *MockServer) ListenAndServe() error {
	    m.started = true
	    <-time.After(time.Hour) // Block until shutdown
	    return nil
	}

	func (m *MockServer) Shutdown(ctx context.Context) error {
	    m.shutdown = true
	    return nil
	}

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
*/
package services
