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

package metric

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/row"
	"github.com/langpop/langpop/pkg/serializer"
)

// Field names shared by every metric row.
const (
	FieldName = "name"
	FieldDate = "date"
)

// Source names one metric export. Key becomes the metric field name in
// merged rows; Path is a file, http(s) URL or cm://namespace/name.
type Source struct {
	Key  string `json:"key" yaml:"key"`
	Path string `json:"path" yaml:"path"`
}

// ParseSource parses "key=path".
func ParseSource(s string) (Source, error) {
	key, path, ok := strings.Cut(s, "=")
	if !ok {
		return Source{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"source must be key=path", map[string]any{"source": s})
	}
	src := Source{Key: strings.TrimSpace(key), Path: strings.TrimSpace(path)}
	return src, src.Validate()
}

// Validate checks the key and path.
func (s Source) Validate() error {
	switch {
	case s.Key == "":
		return errors.New(errors.ErrCodeInvalidRequest, "source key is empty")
	case s.Key == FieldName || s.Key == FieldDate:
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"source key collides with a merge key", map[string]any{"key": s.Key})
	case s.Path == "":
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"source path is empty", map[string]any{"key": s.Key})
	}
	return nil
}

// Location resolves the source path against dir. Remote and ConfigMap
// paths, and absolute file paths, are returned unchanged.
func (s Source) Location(dir string) string {
	if dir == "" || serializer.IsRemote(s.Path) ||
		strings.HasPrefix(s.Path, serializer.ConfigMapURIScheme) || filepath.IsAbs(s.Path) {
		return s.Path
	}
	return filepath.Join(dir, s.Path)
}

// String returns "key=path".
func (s Source) String() string {
	return s.Key + "=" + s.Path
}

// Load reads and validates the counts of src.
func Load(ctx context.Context, f *serializer.Fetcher, src Source, dir string) ([]Count, error) {
	loc := src.Location(dir)
	data, format, err := f.Fetch(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to load source %s: %w", src.Key, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		slog.Warn("source is empty", "key", src.Key, "location", loc)
		return []Count{}, nil
	}

	var counts []Count
	if err := serializer.Decode(format, data, &counts); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeSchemaMismatch,
			"failed to decode source", err, map[string]any{"key": src.Key, "location": loc})
	}
	if counts == nil {
		counts = []Count{}
	}

	slog.Debug("source loaded", "key", src.Key, "location", loc, "records", len(counts))
	return counts, nil
}

// ToRows converts counts to rows {name, date, key: count}. Names are
// canonicalized through aliases and records that then share a name and
// date are summed, keeping first-seen order.
func ToRows(key string, counts []Count, aliases Aliases) row.Rows {
	type group struct{ name, date string }

	out := make(row.Rows, 0, len(counts))
	index := make(map[group]*row.Row, len(counts))
	for _, c := range counts {
		g := group{name: aliases.Canonical(c.Name), date: c.Date()}
		if r, ok := index[g]; ok {
			r.Set(key, row.Num(r.Value(key).Float()+c.Count))
			continue
		}
		r := row.New(
			row.Field{Name: FieldName, Value: row.Str(g.name)},
			row.Field{Name: FieldDate, Value: row.Str(g.date)},
			row.Field{Name: key, Value: row.Num(c.Count)},
		)
		index[g] = r
		out = append(out, r)
	}
	return out
}
