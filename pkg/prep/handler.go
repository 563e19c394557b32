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

package prep

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/langpop/langpop/pkg/defaults"
	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/serializer"
	"github.com/langpop/langpop/pkg/server"
	"github.com/langpop/langpop/pkg/table"
)

// ItemsResponse is the body of GET /v1/items.
type ItemsResponse struct {
	RunID string        `json:"runId,omitempty"`
	Names []string      `json:"names,omitempty"`
	Items table.Tabular `json:"items"`
}

// SumsResponse is the body of GET /v1/sums.
type SumsResponse struct {
	RunID   string        `json:"runId,omitempty"`
	GroupBy string        `json:"groupBy"`
	Sums    table.Tabular `json:"sums"`
}

// Handler serves a prepared Dataset over HTTP.
type Handler struct {
	// CacheTTL is advertised in Cache-Control. Zero disables caching.
	CacheTTL time.Duration
	// Timeout bounds each request. Zero disables the limit.
	Timeout time.Duration

	mu sync.RWMutex
	ds *Dataset
}

// NewHandler returns a Handler serving ds with default cache and timeout
// settings. ds may be nil until SetDataset is called.
func NewHandler(ds *Dataset) *Handler {
	return &Handler{
		CacheTTL: defaults.DatasetCacheTTL,
		Timeout:  defaults.DatasetHandlerTimeout,
		ds:       ds,
	}
}

// SetDataset swaps the served dataset.
func (h *Handler) SetDataset(ds *Dataset) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ds = ds
}

// Dataset returns the dataset currently served, or nil.
func (h *Handler) Dataset() *Dataset {
	return h.dataset()
}

func (h *Handler) dataset() *Dataset {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ds
}

// Routes returns the dataset routes for server.WithHandler.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/dataset": h.withTimeout(h.HandleDataset),
		"/v1/items":   h.withTimeout(h.HandleItems),
		"/v1/sums":    h.withTimeout(h.HandleSums),
	}
}

func (h *Handler) withTimeout(next http.HandlerFunc) http.HandlerFunc {
	if h.Timeout <= 0 {
		return next
	}
	return http.TimeoutHandler(next, h.Timeout, `{"code":"TIMEOUT","message":"request timed out"}`).ServeHTTP
}

// HandleDataset serves GET /v1/dataset: the whole document.
func (h *Handler) HandleDataset(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.begin(w, r)
	if !ok {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, ds)
}

// HandleItems serves GET /v1/items. Repeated name parameters restrict the
// result to those languages; naming only unknown languages is a 404.
func (h *Handler) HandleItems(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.begin(w, r)
	if !ok {
		return
	}

	names := r.URL.Query()["name"]
	items := ds.FilterItems(names)
	if len(names) > 0 && items.Len() == 0 {
		server.WriteErrorFromErr(w, r, errors.NewWithContext(errors.ErrCodeNotFound,
			"no items match the requested names", map[string]any{"names": names}), "", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, ItemsResponse{
		RunID: ds.RunID(),
		Names: names,
		Items: items,
	})
}

// HandleSums serves GET /v1/sums.
func (h *Handler) HandleSums(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.begin(w, r)
	if !ok {
		return
	}

	var groupBy string
	if len(ds.Sums.Keys) > 0 {
		groupBy = ds.Sums.Keys[0]
	}
	serializer.RespondJSON(w, http.StatusOK, SumsResponse{
		RunID:   ds.RunID(),
		GroupBy: groupBy,
		Sums:    ds.Sums,
	})
}

// begin enforces GET, checks a dataset is loaded and sets cache headers.
func (h *Handler) begin(w http.ResponseWriter, r *http.Request) (*Dataset, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return nil, false
	}

	ds := h.dataset()
	if ds == nil {
		server.WriteErrorFromErr(w, r,
			errors.New(errors.ErrCodeUnavailable, "dataset is not loaded"), "", nil)
		return nil, false
	}

	if h.CacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.CacheTTL.Seconds())))
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	return ds, true
}
