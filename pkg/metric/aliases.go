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

import "maps"

// Aliases maps variant language names to their canonical name.
type Aliases map[string]string

var defaultAliases = Aliases{
	"AL Code":         "AL",
	"BlitzBasic":      "BlitzMax",
	"Classic ASP":     "ASP",
	"Csound Document": "Csound",
	"Csound Score":    "Csound",
	"FORTRAN":         "Fortran",
	"Graphviz (DOT)":  "DOT",
	"Matlab":          "MATLAB",
	"Nimrod":          "Nim",
	"PAWN":            "Pawn",
	"Perl6":           "Raku",
	"Perl 6":          "Raku",
	"REALbasic":       "Xojo",
	"Sass":            "Sass/SCSS",
	"SCSS":            "Sass/SCSS",
	"VimL":            "Vim script",
}

// DefaultAliases returns a copy of the built-in canonical name table.
func DefaultAliases() Aliases {
	return maps.Clone(defaultAliases)
}

// Merge returns a new table holding a's entries overridden by extra.
func (a Aliases) Merge(extra Aliases) Aliases {
	out := make(Aliases, len(a)+len(extra))
	maps.Copy(out, a)
	maps.Copy(out, extra)
	return out
}

// Canonical returns the canonical name for name, or name itself.
func (a Aliases) Canonical(name string) string {
	if c, ok := a[name]; ok && c != "" {
		return c
	}
	return name
}
