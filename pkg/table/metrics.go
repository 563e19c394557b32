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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mergeRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "langpop_merge_rows_total",
			Help: "Total number of rows emitted by merges",
		},
	)
	mergeCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "langpop_merge_collisions_total",
			Help: "Total number of rows folded into an existing key during merges",
		},
	)
	mergeEmptyInputs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "langpop_merge_empty_inputs_total",
			Help: "Total number of merges that saw an empty input, by policy",
		},
		[]string{"policy"},
	)
)
