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
	"slices"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/row"
)

// MergeStats summarizes a single Merge call.
type MergeStats struct {
	// Rows is the number of rows emitted.
	Rows int `json:"rows" yaml:"rows"`
	// Collisions counts input rows folded into an earlier row with the same key.
	Collisions int `json:"collisions" yaml:"collisions"`
	// Processed is the number of input rows scanned.
	Processed int `json:"processed" yaml:"processed"`
}

// Merge performs a full outer join of a and b on the key fields in on.
//
// The output schema is on followed by every other field seen on either
// side, sorted by name. Rows sharing a key collapse into one: numeric
// fields are summed, other fields take the later value, and fields absent
// from every row of the group are zero. Inputs are never modified.
func Merge(a, b row.Rows, on []string, opts ...Option) (row.Rows, *MergeStats, error) {
	if len(on) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidMergeKey, "key field list is empty")
	}

	o := newOptions(opts)
	stats := &MergeStats{}

	input := make(row.Rows, 0, len(a)+len(b))
	if len(a) == 0 || len(b) == 0 {
		mergeEmptyInputs.WithLabelValues(o.emptyPolicy.String()).Inc()
		switch o.emptyPolicy {
		case EmptyFail:
			return nil, nil, errors.NewWithContext(errors.ErrCodeEmptyInput,
				"merge input is empty", map[string]any{"left": len(a), "right": len(b)})
		case EmptyKeep:
			input = append(input, a...)
			input = append(input, b...)
			if len(input) == 0 {
				return row.Rows{}, stats, nil
			}
		default:
			o.logger.Warn("merge input is empty, dropping result",
				"left", len(a), "right", len(b), "on", on)
			return row.Rows{}, stats, nil
		}
	} else {
		input = append(input, a...)
		input = append(input, b...)
	}

	out, err := collapse(input, on, o, stats)
	if err != nil {
		return nil, nil, err
	}

	mergeRowsTotal.Add(float64(stats.Rows))
	mergeCollisionsTotal.Add(float64(stats.Collisions))
	o.logger.Info("merge complete",
		"rows", stats.Rows,
		"collisions", stats.Collisions,
		"processed", stats.Processed)

	return out, stats, nil
}

// Schema returns the merge output schema for rows keyed on on: the key
// fields followed by all remaining fields, sorted.
func Schema(rows row.Rows, on []string) []string {
	keys := make(map[string]struct{}, len(on))
	for _, k := range on {
		keys[k] = struct{}{}
	}
	var extras []string
	for _, name := range rows.Schema() {
		if _, ok := keys[name]; !ok {
			extras = append(extras, name)
		}
	}
	slices.Sort(extras)

	schema := make([]string, 0, len(on)+len(extras))
	schema = append(schema, on...)
	return append(schema, extras...)
}

func collapse(input row.Rows, on []string, o *options, stats *MergeStats) (row.Rows, error) {
	cmp, err := newComparator(on, input[0], o)
	if err != nil {
		return nil, err
	}
	if err := cmp.Validate(input); err != nil {
		return nil, err
	}

	schema := Schema(input, on)
	extras := schema[len(on):]

	sorted := slices.Clone(input)
	slices.SortStableFunc(sorted, cmp.Compare)
	stats.Processed = len(sorted)

	out := make(row.Rows, 0, len(sorted))
	acc, zero := startGroup(sorted[0], schema, extras)
	for _, r := range sorted[1:] {
		if cmp.Compare(acc, r) != 0 {
			out = append(out, acc)
			acc, zero = startGroup(r, schema, extras)
			continue
		}

		stats.Collisions++
		for _, name := range extras {
			v, ok := r.Get(name)
			if !ok || v.IsNull() {
				continue
			}
			if _, placeholder := zero[name]; placeholder {
				acc.Set(name, v)
				delete(zero, name)
				continue
			}
			cur := acc.Value(name)
			if !cur.IsNumber() {
				acc.Set(name, v)
				continue
			}
			n, err := row.NumberOrZero(v)
			if err != nil {
				return nil, errors.WrapWithContext(errors.ErrCodeSchemaMismatch,
					"cannot add non-numeric value to numeric field", err,
					map[string]any{"field": name, "row": r.String()})
			}
			acc.Set(name, row.Num(cur.Float()+n))
		}
	}
	out = append(out, acc)

	stats.Rows = len(out)
	return out, nil
}

// startGroup projects r onto schema and records the extras r lacks, which
// hold a zero placeholder until some row of the group supplies them.
func startGroup(r *row.Row, schema, extras []string) (*row.Row, map[string]struct{}) {
	zero := make(map[string]struct{})
	for _, name := range extras {
		if v, ok := r.Get(name); !ok || v.IsNull() {
			zero[name] = struct{}{}
		}
	}
	return r.Project(schema), zero
}
