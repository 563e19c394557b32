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
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
)

// EmptyPolicy decides what Merge does when either input has no rows.
type EmptyPolicy string

const (
	// EmptyDrop returns an empty result and logs a warning.
	EmptyDrop EmptyPolicy = "drop"
	// EmptyKeep returns the non-empty side projected onto the merge schema.
	EmptyKeep EmptyPolicy = "keep"
	// EmptyFail returns an EMPTY_INPUT error.
	EmptyFail EmptyPolicy = "fail"
)

// String returns the policy name.
func (p EmptyPolicy) String() string {
	return string(p)
}

// IsValid reports whether p is a known policy.
func (p EmptyPolicy) IsValid() bool {
	switch p {
	case EmptyDrop, EmptyKeep, EmptyFail:
		return true
	default:
		return false
	}
}

// ParseEmptyPolicy parses a policy name. The empty string yields EmptyDrop.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	p := EmptyPolicy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return EmptyDrop, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("empty policy %q, supported values: %v", s, SupportedEmptyPolicies())
	}
	return p, nil
}

// SupportedEmptyPolicies lists the accepted policy names.
func SupportedEmptyPolicies() []string {
	return []string{string(EmptyDrop), string(EmptyKeep), string(EmptyFail)}
}

// DefaultLocale is the collation locale used for string keys.
var DefaultLocale = language.English

type options struct {
	locale      language.Tag
	emptyPolicy EmptyPolicy
	logger      *slog.Logger
}

// Option configures comparator, merge and aggregation behavior.
type Option func(*options)

// WithLocale sets the collation locale for string ordering.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// WithEmptyPolicy sets the empty-input policy for Merge.
func WithEmptyPolicy(p EmptyPolicy) Option {
	return func(o *options) {
		o.emptyPolicy = p
	}
}

// WithLogger sets the logger used for merge diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		locale:      DefaultLocale,
		emptyPolicy: EmptyDrop,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if !o.emptyPolicy.IsValid() {
		o.emptyPolicy = EmptyDrop
	}
	return o
}
