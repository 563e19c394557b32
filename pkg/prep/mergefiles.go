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
	"fmt"

	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/header"
	"github.com/langpop/langpop/pkg/row"
	"github.com/langpop/langpop/pkg/serializer"
	"github.com/langpop/langpop/pkg/table"
)

// MergeResult is the document written by `langpop merge`.
type MergeResult struct {
	header.Header `json:",inline" yaml:",inline"`

	// On is the merge key tuple.
	On []string `json:"on" yaml:"on"`

	// Inputs are the two locations in merge order.
	Inputs []string `json:"inputs" yaml:"inputs"`

	// Stats describes the merge.
	Stats table.MergeStats `json:"stats" yaml:"stats"`

	// Table holds the merged rows.
	Table table.Tabular `json:"table" yaml:"table"`
}

// TableHeader implements serializer.Tabler.
func (m *MergeResult) TableHeader() []string {
	return m.Table.Keys
}

// TableRows implements serializer.Tabler.
func (m *MergeResult) TableRows() [][]string {
	out := make([][]string, 0, len(m.Table.Rows))
	for _, cells := range m.Table.Rows {
		r := make([]string, len(cells))
		for i, v := range cells {
			r[i] = v.String()
		}
		out = append(out, r)
	}
	return out
}

// LoadRows reads a row collection from a file, URL or ConfigMap. JSON and
// YAML documents may hold an array of row objects or a tabular object.
func LoadRows(ctx context.Context, f *serializer.Fetcher, location string) (row.Rows, error) {
	data, format, err := f.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	var rows row.Rows
	switch format {
	case serializer.FormatYAML:
		rows, err = table.UnmarshalRowsYAML(data)
	default:
		rows, err = table.UnmarshalRows(data)
	}
	if err != nil {
		return nil, errors.WrapWithContext(errors.CodeOf(err),
			"failed to decode rows", err, map[string]any{"location": location})
	}
	return rows, nil
}

// MergeRequest names the inputs of MergeFiles.
type MergeRequest struct {
	On      []string
	Left    string
	Right   string
	Version string
}

// MergeFiles loads two row collections and merges them on the key tuple.
func MergeFiles(ctx context.Context, f *serializer.Fetcher, req MergeRequest, opts ...table.Option) (*MergeResult, error) {
	a, err := LoadRows(ctx, f, req.Left)
	if err != nil {
		return nil, fmt.Errorf("left input: %w", err)
	}
	b, err := LoadRows(ctx, f, req.Right)
	if err != nil {
		return nil, fmt.Errorf("right input: %w", err)
	}

	merged, stats, err := table.Merge(a, b, req.On, opts...)
	if err != nil {
		return nil, err
	}

	res := &MergeResult{
		On:     req.On,
		Inputs: []string{req.Left, req.Right},
		Stats:  *stats,
		Table:  table.Encode(merged, table.Schema(merged, req.On)...),
	}
	res.Init(header.KindMergeResult, req.Version)
	return res, nil
}
