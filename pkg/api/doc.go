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

// Package api runs langpopd, the HTTP API over a prepared dataset.
//
// It is a thin wrapper around pkg/server: it configures structured logging,
// loads the dataset document produced by `langpop prep` and registers the
// dataset routes from pkg/prep:
//
//   - GET /v1/dataset  the whole document
//   - GET /v1/items    merged rows, optionally filtered by ?name= (repeatable)
//   - GET /v1/sums     per-group totals
//
// The dataset is read from a local file, an http(s) URL or a
// cm://namespace/name ConfigMap.
//
//	if err := api.Serve(); err != nil {
//	    os.Exit(1)
//	}
//
// Serve reads LANGPOP_DATASET, LANGPOP_REFRESH and PORT from the
// environment. Run and NewServer take the same settings explicitly and are
// used by `langpop serve`.
//
// # Reloading
//
// A Reloader swaps a freshly loaded dataset into the running handler. Watch
// follows a local file with fsnotify; Schedule reloads on a cron schedule
// ("@every 10m", "0 * * * *"). A reload that fails to load or decode keeps
// the previous dataset and is counted in langpop_dataset_reloads_total.
package api
