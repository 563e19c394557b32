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

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "langpop_dataset_reloads_total",
			Help: "Total number of dataset reload attempts by trigger and result",
		},
		[]string{"trigger", "result"},
	)
)
