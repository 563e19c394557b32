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
	"cmp"

	"golang.org/x/text/collate"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/row"
)

type keyField struct {
	name string
	kind row.Kind
}

// Comparator orders rows by a tuple of key fields.
// A Comparator is not safe for concurrent use.
type Comparator struct {
	keys []keyField
	coll *collate.Collator
}

// NewComparator builds a comparator over the on fields. The sample row
// decides each key's kind: string keys use locale-aware collation, all
// others compare numerically.
func NewComparator(on []string, sample *row.Row, opts ...Option) (*Comparator, error) {
	return newComparator(on, sample, newOptions(opts))
}

func newComparator(on []string, sample *row.Row, o *options) (*Comparator, error) {
	if len(on) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMergeKey, "key field list is empty")
	}
	if sample == nil {
		return nil, errors.New(errors.ErrCodeInvalidMergeKey, "no sample row to derive key kinds from")
	}

	c := &Comparator{
		keys: make([]keyField, 0, len(on)),
		coll: collate.New(o.locale),
	}

	seen := make(map[string]struct{}, len(on))
	for _, name := range on {
		if _, dup := seen[name]; dup {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidMergeKey,
				"duplicate key field", map[string]any{"key": name})
		}
		seen[name] = struct{}{}

		v, ok := sample.Get(name)
		if !ok || v.IsNull() {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidMergeKey,
				"key field missing from row", map[string]any{"key": name, "row": sample.String()})
		}
		kind := row.KindNumber
		if v.IsString() {
			kind = row.KindString
		}
		c.keys = append(c.keys, keyField{name: name, kind: kind})
	}
	return c, nil
}

// Keys returns the key field names in comparison order.
func (c *Comparator) Keys() []string {
	out := make([]string, len(c.keys))
	for i, k := range c.keys {
		out[i] = k.name
	}
	return out
}

// Validate checks that every row carries every key with the kind taken
// from the sample row.
func (c *Comparator) Validate(rows row.Rows) error {
	for i, r := range rows {
		if r == nil {
			return errors.NewWithContext(errors.ErrCodeInvalidMergeKey,
				"nil row", map[string]any{"index": i})
		}
		for _, k := range c.keys {
			v, ok := r.Get(k.name)
			if !ok || v.IsNull() {
				return errors.NewWithContext(errors.ErrCodeInvalidMergeKey,
					"key field missing from row", map[string]any{"key": k.name, "index": i})
			}
			if v.Kind() != k.kind {
				return errors.NewWithContext(errors.ErrCodeSchemaMismatch,
					"key field kind differs from first row", map[string]any{
						"key":      k.name,
						"index":    i,
						"expected": k.kind.String(),
						"actual":   v.Kind().String(),
					})
			}
		}
	}
	return nil
}

// Compare returns a negative number when x sorts before y, a positive
// number when after, and 0 when all key fields tie. A nil row sorts after
// any present row.
func (c *Comparator) Compare(x, y *row.Row) int {
	if x == nil || y == nil {
		switch {
		case x != nil:
			return -1
		case y != nil:
			return 1
		}
		return 0
	}
	for _, k := range c.keys {
		if r := c.compareValues(x.Value(k.name), y.Value(k.name)); r != 0 {
			return r
		}
	}
	return 0
}

func (c *Comparator) compareValues(a, b row.Value) int {
	if a.Kind() != b.Kind() {
		// Only reachable on rows that skipped Validate.
		return cmp.Compare(a.Kind(), b.Kind())
	}
	switch a.Kind() {
	case row.KindString:
		return c.coll.CompareString(a.Text(), b.Text())
	case row.KindNumber:
		return cmp.Compare(a.Float(), b.Float())
	default:
		return 0
	}
}
