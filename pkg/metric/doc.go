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

// Package metric loads per-metric language popularity exports.
//
// Each export is a JSON (or YAML) array of Count records, one per
// language and quarter. A Source binds an export location to the metric
// key it contributes, for example issues=gh-issue-event.json.
//
// ToRows turns counts into rows keyed on name and date, applying the
// canonical name table so that variants such as "Perl 6" and "Perl6"
// fold into "Raku".
package metric
