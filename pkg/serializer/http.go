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

package serializer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/langpop/langpop/pkg/defaults"
)

// RespondJSON writes a JSON response with the given status code and data.
// The body is encoded before headers are written so an encoding failure
// never produces a partial response.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

const (
	// HttpReaderUserAgent is sent with every source fetch.
	HttpReaderUserAgent = "langpop/1.0"

	// HttpReaderDefaultMaxBytes caps the size of a fetched document.
	HttpReaderDefaultMaxBytes int64 = 64 << 20
)

// HttpReaderOption configures an HttpReader.
type HttpReaderOption func(*HttpReader)

// HttpReader fetches documents over HTTP.
type HttpReader struct {
	UserAgent          string
	TotalTimeout       time.Duration
	MaxBytes           int64
	InsecureSkipVerify bool
	Client             *http.Client

	limiter *rate.Limiter
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) HttpReaderOption {
	return func(r *HttpReader) {
		r.UserAgent = userAgent
	}
}

// WithTotalTimeout sets the overall request timeout.
func WithTotalTimeout(timeout time.Duration) HttpReaderOption {
	return func(r *HttpReader) {
		r.TotalTimeout = timeout
	}
}

// WithMaxBytes caps the response body size.
func WithMaxBytes(n int64) HttpReaderOption {
	return func(r *HttpReader) {
		r.MaxBytes = n
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) HttpReaderOption {
	return func(r *HttpReader) {
		r.InsecureSkipVerify = skip
	}
}

// WithClient replaces the underlying HTTP client.
func WithClient(client *http.Client) HttpReaderOption {
	return func(r *HttpReader) {
		r.Client = client
	}
}

// WithRateLimiter throttles requests through l. Every request waits for a
// token before it is sent.
func WithRateLimiter(l *rate.Limiter) HttpReaderOption {
	return func(r *HttpReader) {
		r.limiter = l
	}
}

// NewHttpReader creates a new HttpReader with the specified options.
func NewHttpReader(options ...HttpReaderOption) *HttpReader {
	r := &HttpReader{
		UserAgent:    HttpReaderUserAgent,
		TotalTimeout: defaults.HTTPClientTimeout,
		MaxBytes:     HttpReaderDefaultMaxBytes,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.Client == nil {
		r.Client = &http.Client{
			Timeout:   r.TotalTimeout,
			Transport: newDefaultHTTPTransport(r.InsecureSkipVerify),
		}
	}
	if r.UserAgent == "" {
		r.UserAgent = HttpReaderUserAgent
	}
	return r
}

func newDefaultHTTPTransport(insecure bool) *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: insecure, //nolint:gosec // opt-in for self-hosted sources
		},
	}
}

// Read fetches url and returns the body.
func (r *HttpReader) Read(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("url is empty")
	}
	if r.Client == nil {
		return nil, fmt.Errorf("http client is nil")
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait for %s: %w", url, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	req.Header.Set("User-Agent", r.UserAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.1")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed for url %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}

	body := io.Reader(resp.Body)
	if r.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, r.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if r.MaxBytes > 0 && int64(len(data)) > r.MaxBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", url, r.MaxBytes)
	}

	return data, nil
}
