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
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/langpop/langpop/pkg/errors"
)

// Count is one record of a per-metric export: how often a language was
// seen in a given quarter.
//
// Exports carry every field as either a JSON number or a numeric string:
//
//	[{"name": "Go", "year": "2020", "quarter": "1", "count": "1234"}]
type Count struct {
	Name    string  `json:"name" yaml:"name"`
	Year    int     `json:"year" yaml:"year"`
	Quarter int     `json:"quarter" yaml:"quarter"`
	Count   float64 `json:"count" yaml:"count"`
}

// Date returns the quarter label used as a merge key, such as "2020Q1".
func (c Count) Date() string {
	return fmt.Sprintf("%dQ%d", c.Year, c.Quarter)
}

// Validate checks the quarter and year ranges.
func (c Count) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New(errors.ErrCodeSchemaMismatch, "count has no language name")
	}
	if c.Year <= 0 {
		return errors.NewWithContext(errors.ErrCodeSchemaMismatch,
			"count year must be positive", map[string]any{"name": c.Name, "year": c.Year})
	}
	if c.Quarter < 1 || c.Quarter > 4 {
		return errors.NewWithContext(errors.ErrCodeSchemaMismatch,
			"count quarter must be between 1 and 4", map[string]any{"name": c.Name, "quarter": c.Quarter})
	}
	if math.IsNaN(c.Count) || math.IsInf(c.Count, 0) || c.Count < 0 {
		return errors.NewWithContext(errors.ErrCodeSchemaMismatch,
			"count must be a non-negative number", map[string]any{"name": c.Name, "count": c.Count})
	}
	return nil
}

// UnmarshalJSON accepts numbers or numeric strings for year, quarter and count.
func (c *Count) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string      `json:"name"`
		Year    json.Number `json:"year"`
		Quarter json.Number `json:"quarter"`
		Count   json.Number `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeSchemaMismatch, "invalid count record", err)
	}
	return c.set(raw.Name, raw.Year.String(), raw.Quarter.String(), raw.Count.String())
}

// UnmarshalYAML accepts numbers or numeric strings for year, quarter and count.
func (c *Count) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Name    string `yaml:"name"`
		Year    string `yaml:"year"`
		Quarter string `yaml:"quarter"`
		Count   string `yaml:"count"`
	}
	if err := node.Decode(&raw); err != nil {
		return errors.Wrap(errors.ErrCodeSchemaMismatch, "invalid count record", err)
	}
	return c.set(raw.Name, raw.Year, raw.Quarter, raw.Count)
}

func (c *Count) set(name, year, quarter, count string) error {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeSchemaMismatch,
			"invalid year", err, map[string]any{"name": name, "year": year})
	}
	q, err := strconv.Atoi(strings.TrimSpace(quarter))
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeSchemaMismatch,
			"invalid quarter", err, map[string]any{"name": name, "quarter": quarter})
	}
	n := 0.0
	if s := strings.TrimSpace(count); s != "" {
		n, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeSchemaMismatch,
				"invalid count", err, map[string]any{"name": name, "count": count})
		}
	}

	*c = Count{Name: name, Year: y, Quarter: q, Count: n}
	return c.Validate()
}
