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

package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	apperrors "github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/serializer"
)

// RootResponse is served at GET /.
type RootResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Ready     bool     `json:"ready"`
	Timestamp string   `json:"timestamp"`
	Routes    []string `json:"routes"`
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDefault)

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", metricsHandler())

	for path, handler := range s.config.Handlers {
		mux.HandleFunc(path, s.withMiddleware(handler))
	}

	return mux
}

func (s *Server) routes() []string {
	routes := make([]string, 0, len(s.config.Handlers)+3)
	for path := range s.config.Handlers {
		routes = append(routes, "GET "+path)
	}
	slices.Sort(routes)
	return append(routes, "GET /health", "GET /ready", "GET /metrics")
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, apperrors.ErrCodeNotFound, "Route not found", false,
			map[string]any{"path": r.URL.Path})
		return
	}

	slog.Debug("handling default route",
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	serializer.RespondJSON(w, http.StatusOK, RootResponse{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Ready:     s.isReady(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes:    s.routes(),
	})
}
