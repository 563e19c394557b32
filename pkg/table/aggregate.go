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

type groupKey struct {
	kind row.Kind
	text string
}

// SumGrouped sums the outs fields of rows grouped by the value of by.
// Each output row is {by, outs...}, ordered by the group value. Missing
// or null metrics count as zero.
func SumGrouped(rows row.Rows, by string, outs []string, opts ...Option) (row.Rows, error) {
	if by == "" {
		return nil, errors.New(errors.ErrCodeInvalidMergeKey, "group-by field is empty")
	}
	if len(rows) == 0 {
		return row.Rows{}, nil
	}

	o := newOptions(opts)
	groups := make(map[groupKey]*row.Row)
	order := make(row.Rows, 0)

	for i, r := range rows {
		v, ok := r.Get(by)
		if !ok || v.IsNull() {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidMergeKey,
				"group-by field missing from row", map[string]any{"field": by, "index": i})
		}

		k := groupKey{kind: v.Kind(), text: v.String()}
		acc, ok := groups[k]
		if !ok {
			acc = row.New(row.Field{Name: by, Value: v})
			for _, name := range outs {
				if name != by {
					acc.Set(name, row.Num(0))
				}
			}
			groups[k] = acc
			order = append(order, acc)
		}

		for _, name := range outs {
			if name == by {
				continue
			}
			n, err := row.NumberOrZero(r.Value(name))
			if err != nil {
				return nil, errors.WrapWithContext(errors.ErrCodeSchemaMismatch,
					"cannot sum non-numeric value", err,
					map[string]any{"field": name, "index": i})
			}
			acc.Set(name, row.Num(acc.Value(name).Float()+n))
		}
	}

	c, err := newComparator([]string{by}, order[0], o)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(order, c.Compare)
	return order, nil
}
