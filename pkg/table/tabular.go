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

package table

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/row"
)

// Tabular is the compact columnar form of a row collection: one key list
// and one positional value array per row.
type Tabular struct {
	Keys []string      `json:"keys" yaml:"keys"`
	Rows [][]row.Value `json:"rows" yaml:"rows"`
}

// Len returns the number of rows.
func (t Tabular) Len() int {
	return len(t.Rows)
}

// Encode converts rows to tabular form. When keys is empty the column
// order is the union of row fields in first-seen order. Cells for fields
// a row lacks encode as null.
func Encode(rows row.Rows, keys ...string) Tabular {
	if len(keys) == 0 {
		keys = rows.Schema()
	}
	t := Tabular{
		Keys: make([]string, len(keys)),
		Rows: make([][]row.Value, 0, len(rows)),
	}
	copy(t.Keys, keys)

	for _, r := range rows {
		cells := make([]row.Value, len(keys))
		for i, k := range keys {
			cells[i] = r.Value(k)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// Decode rebuilds rows from tabular form. Null cells are treated as
// absent fields.
func Decode(t Tabular) (row.Rows, error) {
	seen := make(map[string]struct{}, len(t.Keys))
	for _, k := range t.Keys {
		if _, dup := seen[k]; dup {
			return nil, errors.NewWithContext(errors.ErrCodeSchemaMismatch,
				"duplicate key in tabular header", map[string]any{"key": k})
		}
		seen[k] = struct{}{}
	}

	out := make(row.Rows, 0, len(t.Rows))
	for i, cells := range t.Rows {
		if len(cells) != len(t.Keys) {
			return nil, errors.NewWithContext(errors.ErrCodeSchemaMismatch,
				"tabular row length differs from key count", map[string]any{
					"index": i,
					"keys":  len(t.Keys),
					"cells": len(cells),
				})
		}
		r := row.New()
		for j, v := range cells {
			if v.IsNull() {
				continue
			}
			r.Set(t.Keys[j], v)
		}
		out = append(out, r)
	}
	return out, nil
}

// UnmarshalRows decodes a JSON document holding either an array of row
// objects or a tabular object.
func UnmarshalRows(data []byte) (row.Rows, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return row.Rows{}, nil
	}

	switch trimmed[0] {
	case '[':
		var rows row.Rows
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, "failed to decode row array", err)
		}
		if rows == nil {
			rows = row.Rows{}
		}
		return rows, nil
	case '{':
		var t Tabular
		if err := json.Unmarshal(trimmed, &t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, "failed to decode tabular object", err)
		}
		return Decode(t)
	default:
		return nil, errors.New(errors.ErrCodeSchemaMismatch,
			"expected a JSON array of rows or a tabular object")
	}
}

// UnmarshalRowsYAML is UnmarshalRows for YAML documents: a sequence of
// mappings or a tabular mapping with keys and rows.
func UnmarshalRowsYAML(data []byte) (row.Rows, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return row.Rows{}, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, "failed to parse YAML", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return row.Rows{}, nil
	}

	node := doc.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		rows := make(row.Rows, 0, len(node.Content))
		if err := node.Decode(&rows); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, "failed to decode row sequence", err)
		}
		return rows, nil
	case yaml.MappingNode:
		var t Tabular
		if err := node.Decode(&t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchemaMismatch, "failed to decode tabular mapping", err)
		}
		return Decode(t)
	default:
		return nil, errors.New(errors.ErrCodeSchemaMismatch,
			"expected a YAML sequence of rows or a tabular mapping")
	}
}
