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

// Package defaults provides centralized configuration constants for langpop.
//
// Timeouts are organized by component:
//
//   - Pipeline: loading metric sources and running a prep
//   - Handler: HTTP request processing in the dataset API
//   - Server: HTTP server configuration
//   - HTTP client: outbound source fetches
//   - Kubernetes and registry: ConfigMap and OCI output
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.SourceLoadTimeout)
//	defer cancel()
package defaults
