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

// Package header provides the common document header for langpop outputs.
//
// Every document written by langpop (a prepared Dataset, a standalone
// MergeResult) starts with a Kubernetes-style header:
//
//	{
//	  "kind": "Dataset",
//	  "apiVersion": "langpop.dev/v1",
//	  "metadata": {
//	    "timestamp": "2026-01-02T10:30:00Z",
//	    "version": "v0.3.0",
//	    "runId": "5f1c..."
//	  }
//	}
//
// Use Init to stamp a header at creation time, or New with options to
// build one explicitly.
package header
