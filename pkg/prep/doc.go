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

// Package prep builds the language popularity dataset.
//
// Run loads every configured metric source (a local file, an HTTP URL or a
// cm://namespace/name ConfigMap), converts each into rows keyed by
// (name, date), folds them together with table.Merge in declared order,
// zero-fills metrics a language has no records for, and totals each
// metric per date.
//
//	cfg := prep.DefaultConfig()
//	cfg.Dir = "./scripts/data"
//	ds, err := prep.Run(ctx, cfg)
//
// The resulting Dataset carries a header (kind Dataset, run id, timestamp)
// and is serialized by the serializer package or served by pkg/server.
package prep
