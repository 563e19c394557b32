// Copyright (c) 2026, The langpop Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server provides the HTTP server behind langpopd.
//
// The server owns the system routes and the middleware chain; domain
// routes are registered by the caller:
//
//	s := server.New(
//	    server.WithName("langpopd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/dataset": h.HandleDataset,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Routes
//
//   - GET /         name, version, readiness and the route list
//   - GET /health   liveness, always 200
//   - GET /ready    503 until the listener is up and during shutdown
//   - GET /metrics  Prometheus exposition
//
// Registered routes run through metrics, API version negotiation
// (Accept: application/vnd.langpop.v1+json), request id (X-Request-Id, a
// UUID), panic recovery, token-bucket rate limiting and debug logging, in
// that order.
//
// # Errors
//
// Failures are written as ErrorResponse JSON. WriteErrorFromErr maps the
// code of a pkg/errors StructuredError to the HTTP status:
// INVALID_REQUEST is 400, NOT_FOUND 404, RATE_LIMIT_EXCEEDED 429,
// SERVICE_UNAVAILABLE 503, TIMEOUT 504 and anything else 500.
//
// # Configuration
//
// NewConfig reads PORT and SHUTDOWN_TIMEOUT_SECONDS from the environment.
// Run stops on context cancellation, SIGINT or SIGTERM.
package server
