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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "langpop_prep_duration_seconds",
			Help:    "Duration of dataset preparation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)
	prepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "langpop_prep_runs_total",
			Help: "Total number of dataset preparation runs by result",
		},
		[]string{"result"},
	)
	sourceRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "langpop_source_records_total",
			Help: "Total number of count records loaded per source key",
		},
		[]string{"source"},
	)
)
