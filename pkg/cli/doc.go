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

// Package cli implements the langpop command-line interface.
//
// # Commands
//
// prep - Build the popularity dataset:
//
//	langpop prep [--config FILE] [--dir DIR] [--source KEY=PATH ...]
//	             [--merge-key FIELD ...] [--group-by FIELD]
//	             [--empty-policy drop|keep|fail] [--locale TAG]
//	             [--output TARGET] [--format json|yaml|table]
//
// Loads the metric exports, merges them on name and date, zero-fills
// missing metrics and computes per-quarter sums. Without --config the
// stock sources under ./scripts/data are used.
//
// merge - Merge two row collections:
//
//	langpop merge --on name --on date left.json right.yaml
//
// Inputs hold an array of row objects or a tabular object. The result is
// written in tabular form with merge statistics.
//
// serve - Serve a prepared dataset:
//
//	langpop serve --dataset dataset.json [--port 8080] [--watch] [--refresh SCHEDULE]
//
// # Output Targets
//
//	(empty)                      stdout
//	path/to/file                 local file, parent directories created
//	cm://namespace/name          Kubernetes ConfigMap
//	oci://registry/repo[:tag]    OCI artifact, tag defaults to the version
//
// # Environment Variables
//
//	LANGPOP_LOG_LEVEL  Log level (debug, info, warn, error), LOG_LEVEL also accepted
//	LANGPOP_DEBUG      Enables debug logging
//	LANGPOP_CONFIG     Prep configuration location
//	LANGPOP_DATASET    Dataset served by serve
//	LANGPOP_REFRESH    Cron schedule for reloading the served dataset
//	KUBECONFIG         Kubeconfig for cm:// locations
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/langpop/langpop/pkg/cli.version=1.0.0'"
package cli
