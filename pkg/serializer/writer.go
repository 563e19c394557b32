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
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/langpop/langpop/pkg/k8s/client"
)

// Format represents the output format type.
type Format string

const (
	// FormatJSON outputs data in JSON format.
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format.
	FormatYAML Format = "yaml"
	// FormatTable outputs data as an aligned text table.
	FormatTable Format = "table"
)

const defaultValueKey = "value"

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// Extension returns the file extension used for f.
func (f Format) Extension() string {
	if f == FormatTable {
		return "txt"
	}
	return string(f)
}

// SupportedFormats returns the names of all supported output formats.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// ParseFormat parses a format name. The empty string yields FormatJSON.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatJSON, nil
	}
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q, supported formats: %s",
			s, strings.Join(SupportedFormats(), ", "))
	}
	return f, nil
}

// Writer serializes documents to an io.Writer.
// Close must be called to release file handles when using NewFileWriterOrStdout.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter creates a Writer for output. A nil output writes to stdout and
// an unknown format falls back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &Writer{
		format: format,
		output: output,
	}
}

// NewStdoutWriter creates a Writer that outputs to stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// WriterOption configures NewFileWriterOrStdout.
type WriterOption func(*writerOptions)

type writerOptions struct {
	kube client.Provider
}

// WithKubeProvider sets the client provider used for cm:// destinations.
func WithKubeProvider(p client.Provider) WriterOption {
	return func(o *writerOptions) {
		o.kube = p
	}
}

// NewFileWriterOrStdout returns a Serializer for path:
//   - "" or "-" writes to stdout
//   - cm://namespace/name writes to a Kubernetes ConfigMap
//   - anything else creates (or truncates) a local file, creating parent
//     directories as needed
//
// Call Close on the result when done.
func NewFileWriterOrStdout(format Format, path string, opts ...WriterOption) (Serializer, error) {
	o := &writerOptions{kube: client.DefaultProvider}
	for _, opt := range opts {
		opt(o)
	}

	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return NewStdoutWriter(format), nil
	}

	if strings.HasPrefix(trimmed, ConfigMapURIScheme) {
		namespace, name, err := parseConfigMapURI(trimmed)
		if err != nil {
			return nil, err
		}
		return NewConfigMapWriter(namespace, name, format, o.kube), nil
	}

	if dir := filepath.Dir(trimmed); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	file, err := os.Create(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", trimmed, err)
	}

	w := NewWriter(format, file)
	w.closer = file
	return w, nil
}

// Close releases the underlying file, if any. It is safe to call more
// than once.
func (w *Writer) Close() error {
	if w.closer != nil {
		err := w.closer.Close()
		w.closer = nil
		return err
	}
	return nil
}

// Serialize writes data in the configured format.
func (w *Writer) Serialize(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content, err := Encode(w.format, data)
	if err != nil {
		return err
	}
	if _, err := w.output.Write(content); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Encode renders data in format f.
func Encode(f Format, data any) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return nil, fmt.Errorf("failed to serialize to JSON: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return nil, fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTable:
		return encodeTable(data)
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
}

func encodeTable(data any) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if t, ok := data.(Tabler); ok {
		header := t.TableHeader()
		fmt.Fprintln(tw, strings.ToUpper(strings.Join(header, "\t")))
		for _, r := range t.TableRows() {
			fmt.Fprintln(tw, strings.Join(r, "\t"))
		}
	} else {
		flat := make(map[string]any)
		flattenValue(flat, reflect.ValueOf(data), "")
		if len(flat) == 0 {
			return []byte("<empty>\n"), nil
		}

		keys := make([]string, 0, len(flat))
		for k := range flat {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(tw, "FIELD\tVALUE")
		fmt.Fprintln(tw, "-----\t-----")
		for _, key := range keys {
			fmt.Fprintf(tw, "%s\t%v\n", key, flat[key])
		}
	}

	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush table: %w", err)
	}
	return buf.Bytes(), nil
}

func flattenValue(out map[string]any, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				out[prefix] = nil
			}
			return
		}
		val = val.Elem()
	}

	// Values with their own text form (row.Value, time.Time) print as-is.
	if val.CanInterface() {
		if s, ok := val.Interface().(fmt.Stringer); ok && val.Kind() != reflect.Map && val.Kind() != reflect.Slice {
			if prefix == "" {
				prefix = defaultValueKey
			}
			out[prefix] = s.String()
			return
		}
	}

	//nolint:exhaustive // common kinds are handled, the rest print as scalars
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			flattenValue(out, val.Field(i), joinKey(prefix, field.Name))
		}
	case reflect.Map:
		for _, mapKey := range val.MapKeys() {
			key := joinKey(prefix, fmt.Sprintf("%v", mapKey.Interface()))
			flattenValue(out, val.MapIndex(mapKey), key)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			flattenValue(out, val.Index(i), joinKey(prefix, fmt.Sprintf("[%d]", i)))
		}
	default:
		if prefix == "" {
			prefix = defaultValueKey
		}
		out[prefix] = val.Interface()
	}
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	return prefix + "." + suffix
}
