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

package defaults

import "time"

// Pipeline timeouts for dataset preparation.
const (
	// SourceLoadTimeout bounds reading a single metric source.
	// Loaders respect parent context deadlines when shorter.
	SourceLoadTimeout = 30 * time.Second

	// PrepTimeout is the default timeout for a whole prep run.
	PrepTimeout = 5 * time.Minute

	// SourceFetchRate is the default number of remote source fetches per second.
	SourceFetchRate = 4.0

	// SourceFetchBurst is the default burst for remote source fetches.
	SourceFetchBurst = 2

	// SourceConcurrency is the default number of sources loaded at once.
	SourceConcurrency = 4
)

// Handler timeouts for HTTP request processing.
const (
	// DatasetHandlerTimeout is the timeout for dataset query requests.
	DatasetHandlerTimeout = 10 * time.Second

	// DatasetCacheTTL is the Cache-Control max-age for dataset responses.
	DatasetCacheTTL = 10 * time.Minute
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// Kubernetes and registry timeouts.
const (
	// ConfigMapReadTimeout is the timeout for reading ConfigMaps.
	ConfigMapReadTimeout = 15 * time.Second

	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second

	// OCIPushTimeout is the timeout for publishing a dataset artifact.
	OCIPushTimeout = 2 * time.Minute
)
