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
	"fmt"

	"golang.org/x/text/language"

	"github.com/langpop/langpop/pkg/defaults"
	"github.com/langpop/langpop/pkg/errors"
	"github.com/langpop/langpop/pkg/metric"
	"github.com/langpop/langpop/pkg/serializer"
	"github.com/langpop/langpop/pkg/table"
)

// Config describes one dataset preparation run.
type Config struct {
	// Dir is the base directory for relative source paths.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Sources are merged in order.
	Sources []metric.Source `json:"sources" yaml:"sources"`

	// MergeKeys identify a row across sources.
	MergeKeys []string `json:"mergeKeys,omitempty" yaml:"mergeKeys,omitempty"`

	// GroupBy is the field the sums table is grouped on.
	GroupBy string `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`

	// Aliases extend and override the built-in canonical name table.
	Aliases metric.Aliases `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// EmptyPolicy is drop, keep or fail.
	EmptyPolicy string `json:"emptyPolicy,omitempty" yaml:"emptyPolicy,omitempty"`

	// Locale is a BCP 47 tag for string key collation.
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty"`

	// Concurrency caps the number of sources loaded at once.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// FetchRate and FetchBurst throttle remote source fetches.
	FetchRate  float64 `json:"fetchRate,omitempty" yaml:"fetchRate,omitempty"`
	FetchBurst int     `json:"fetchBurst,omitempty" yaml:"fetchBurst,omitempty"`

	// Kubeconfig is used for cm:// sources. Empty uses discovery.
	Kubeconfig string `json:"kubeconfig,omitempty" yaml:"kubeconfig,omitempty"`
}

// DefaultConfig returns the stock configuration: four metric exports under
// ./scripts/data merged on name and date and summed by date.
func DefaultConfig() *Config {
	c := &Config{
		Dir: "./scripts/data",
		Sources: []metric.Source{
			{Key: "issues", Path: "gh-issue-event.json"},
			{Key: "pulls", Path: "gh-pull-request.json"},
			{Key: "stars", Path: "gh-star-event.json"},
			{Key: "soQuestions", Path: "so-tags.json"},
		},
	}
	c.ApplyDefaults()
	return c
}

// LoadConfig reads a YAML or JSON config from a file, URL or ConfigMap and
// fills in defaults.
func LoadConfig(path string) (*Config, error) {
	c, err := serializer.FromFile[Config](path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to load config", err)
	}
	c.ApplyDefaults()
	return c, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if len(c.MergeKeys) == 0 {
		c.MergeKeys = []string{metric.FieldName, metric.FieldDate}
	}
	if c.GroupBy == "" {
		c.GroupBy = metric.FieldDate
	}
	if c.EmptyPolicy == "" {
		c.EmptyPolicy = table.EmptyDrop.String()
	}
	if c.Locale == "" {
		c.Locale = table.DefaultLocale.String()
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaults.SourceConcurrency
	}
	if c.FetchRate <= 0 {
		c.FetchRate = defaults.SourceFetchRate
	}
	if c.FetchBurst <= 0 {
		c.FetchBurst = defaults.SourceFetchBurst
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "no sources configured")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for _, s := range c.Sources {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.Key]; dup {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"duplicate source key", map[string]any{"key": s.Key})
		}
		seen[s.Key] = struct{}{}
	}

	if len(c.MergeKeys) == 0 {
		return errors.New(errors.ErrCodeInvalidMergeKey, "no merge keys configured")
	}
	for _, k := range c.MergeKeys {
		if k == "" {
			return errors.New(errors.ErrCodeInvalidMergeKey, "merge key is empty")
		}
		if _, clash := seen[k]; clash {
			return errors.NewWithContext(errors.ErrCodeInvalidMergeKey,
				"merge key collides with a source key", map[string]any{"key": k})
		}
	}
	if c.GroupBy == "" {
		return errors.New(errors.ErrCodeInvalidMergeKey, "group-by field is empty")
	}

	if _, err := table.ParseEmptyPolicy(c.EmptyPolicy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "invalid empty policy", err)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid locale %q", c.Locale), err)
	}
	return nil
}

// SourceKeys returns the source keys in declared order.
func (c *Config) SourceKeys() []string {
	keys := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		keys = append(keys, s.Key)
	}
	return keys
}

func (c *Config) tableOptions() ([]table.Option, table.EmptyPolicy, error) {
	policy, err := table.ParseEmptyPolicy(c.EmptyPolicy)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid empty policy", err)
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidRequest, "invalid locale", err)
	}
	return []table.Option{table.WithLocale(tag), table.WithEmptyPolicy(policy)}, policy, nil
}
