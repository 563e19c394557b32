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

package prep

import (
	"context"
	"slices"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/header"
	"github.com/langpop/langpop/pkg/metric"
	"github.com/langpop/langpop/pkg/row"
	"github.com/langpop/langpop/pkg/serializer"
	"github.com/langpop/langpop/pkg/table"
)

// MergeStep records the statistics of folding one source into the dataset.
type MergeStep struct {
	Source           string `json:"source" yaml:"source"`
	table.MergeStats `json:",inline" yaml:",inline"`
}

// Dataset is the prepared output: every (name, date) row with one column
// per metric, plus per-group totals.
type Dataset struct {
	header.Header `json:",inline" yaml:",inline"`

	// Sources lists the metric keys in declared order.
	Sources []string `json:"sources" yaml:"sources"`

	// Items holds the merged rows.
	Items table.Tabular `json:"items" yaml:"items"`

	// Sums holds the metric totals per group.
	Sums table.Tabular `json:"sums" yaml:"sums"`

	// Stats has one entry per merge performed.
	Stats []MergeStep `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// ItemRows decodes Items.
func (d *Dataset) ItemRows() (row.Rows, error) {
	return table.Decode(d.Items)
}

// SumRows decodes Sums.
func (d *Dataset) SumRows() (row.Rows, error) {
	return table.Decode(d.Sums)
}

// FilterItems returns the items whose name is in names, in tabular form
// with the same keys. An empty names list returns all items.
func (d *Dataset) FilterItems(names []string) table.Tabular {
	if len(names) == 0 {
		return d.Items
	}
	col := slices.Index(d.Items.Keys, metric.FieldName)
	out := table.Tabular{
		Keys: d.Items.Keys,
		Rows: make([][]row.Value, 0),
	}
	if col < 0 {
		return out
	}
	for _, cells := range d.Items.Rows {
		if col < len(cells) && slices.Contains(names, cells[col].Text()) {
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

// Names returns the distinct item names in first-seen order.
func (d *Dataset) Names() []string {
	col := slices.Index(d.Items.Keys, metric.FieldName)
	if col < 0 {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, cells := range d.Items.Rows {
		if col >= len(cells) {
			continue
		}
		n := cells[col].String()
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// TableHeader implements serializer.Tabler over the items.
func (d *Dataset) TableHeader() []string {
	return d.Items.Keys
}

// TableRows implements serializer.Tabler over the items.
func (d *Dataset) TableRows() [][]string {
	out := make([][]string, 0, len(d.Items.Rows))
	for _, cells := range d.Items.Rows {
		r := make([]string, len(cells))
		for i, v := range cells {
			r[i] = v.String()
		}
		out = append(out, r)
	}
	return out
}

// LoadDataset reads a Dataset document from a file, URL or cm:// ConfigMap.
func LoadDataset(ctx context.Context, f *serializer.Fetcher, location string) (*Dataset, error) {
	if location == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "dataset location is empty")
	}
	ds, err := serializer.FromLocation[Dataset](ctx, f, location)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable,
			"failed to load dataset", err, map[string]any{"location": location})
	}
	if ds.Kind != header.KindDataset {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"document is not a dataset", map[string]any{"location": location, "kind": string(ds.Kind)})
	}
	if _, err := ds.ItemRows(); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeSchemaMismatch,
			"dataset items are malformed", err, map[string]any{"location": location})
	}
	return ds, nil
}
