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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/langpop/langpop/pkg/k8s/client"
)

// FormatFromPath determines the serialization format from a file
// extension, case-insensitively:
//   - .json → FormatJSON
//   - .yaml, .yml → FormatYAML
//   - .table, .txt → FormatTable
//
// Unknown extensions default to FormatJSON.
func FormatFromPath(filePath string) Format {
	lowerPath := strings.ToLower(filePath)
	if i := strings.IndexAny(lowerPath, "?#"); i >= 0 && IsRemote(filePath) {
		lowerPath = lowerPath[:i]
	}
	switch {
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lowerPath, ".table"), strings.HasSuffix(lowerPath, ".txt"):
		return FormatTable
	default:
		slog.Debug("unknown file extension, defaulting to JSON", "filePath", filePath)
		return FormatJSON
	}
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Reader decodes JSON or YAML documents from an io.Reader.
// Close releases the input when it is closeable; it is safe to call more
// than once.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a Reader over input. The table format is write-only.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return nil, fmt.Errorf("table format does not support deserialization")
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	return r, nil
}

// NewFileReader opens a local file for decoding.
func NewFileReader(format Format, filePath string) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return nil, fmt.Errorf("table format does not support deserialization")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Reader{
		format: format,
		input:  file,
		closer: file,
	}, nil
}

// Deserialize decodes the input into v, which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases any resources held by the Reader.
func (r *Reader) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Decode unmarshals data in format f into v.
func Decode(f Format, data []byte, v any) error {
	r, err := NewReader(f, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return r.Deserialize(v)
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPReader sets the reader used for http(s) locations.
func WithHTTPReader(h *HttpReader) FetcherOption {
	return func(f *Fetcher) {
		f.http = h
	}
}

// WithKubeClient sets the client provider used for cm:// locations.
func WithKubeClient(p client.Provider) FetcherOption {
	return func(f *Fetcher) {
		f.kube = p
	}
}

// Fetcher loads raw documents from local files, http(s) URLs and
// cm://namespace/name ConfigMaps.
type Fetcher struct {
	http *HttpReader
	kube client.Provider
}

// NewFetcher creates a Fetcher. By default it uses a fresh HttpReader and
// client.DefaultProvider.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{}
	for _, opt := range opts {
		opt(f)
	}
	if f.http == nil {
		f.http = NewHttpReader()
	}
	if f.kube == nil {
		f.kube = client.DefaultProvider
	}
	return f
}

// Fetch returns the document at location and its format.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, Format, error) {
	switch {
	case strings.HasPrefix(location, ConfigMapURIScheme):
		namespace, name, err := parseConfigMapURI(location)
		if err != nil {
			return nil, "", err
		}
		return readConfigMap(ctx, f.kube, namespace, name)

	case IsRemote(location):
		data, err := f.http.Read(ctx, location)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch %s: %w", location, err)
		}
		return data, FormatFromPath(location), nil

	default:
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", location, err)
		}
		return data, FormatFromPath(location), nil
	}
}

// FromFile reads and decodes the document at path into a new T. The path
// may be a local file, an http(s) URL or cm://namespace/name; the format
// follows the extension, or the stored data key for ConfigMaps.
//
//	cfg, err := serializer.FromFile[prep.Config]("langpop.yaml")
func FromFile[T any](path string) (*T, error) {
	return FromLocation[T](context.Background(), NewFetcher(), path)
}

// FromLocation is FromFile with an explicit context and Fetcher.
func FromLocation[T any](ctx context.Context, f *Fetcher, location string) (*T, error) {
	data, format, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	var v T
	if err := Decode(format, data, &v); err != nil {
		return nil, fmt.Errorf("failed to deserialize object from %q: %w", location, err)
	}

	slog.Debug("loaded object", "location", location, "format", format)
	return &v, nil
}
