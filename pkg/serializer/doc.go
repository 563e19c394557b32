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

// Package serializer reads and writes langpop documents.
//
// Writers render a document as JSON, YAML or an aligned text table and
// send it to stdout, a local file, or a Kubernetes ConfigMap:
//
//	s, err := serializer.NewFileWriterOrStdout(serializer.FormatJSON, "cm://langpop/dataset")
//	if err != nil {
//	    return err
//	}
//	defer serializer.Close(s)
//	err = s.Serialize(ctx, dataset)
//
// Documents implementing Tabler render as columns in the table format;
// everything else is flattened into dotted field paths.
//
// A Fetcher loads raw documents from local files, http(s) URLs (through
// an HttpReader, optionally rate limited) and cm://namespace/name
// ConfigMaps. FromFile decodes any of those into a typed value:
//
//	cfg, err := serializer.FromFile[prep.Config]("langpop.yaml")
//
// RespondJSON writes HTTP JSON responses, encoding before headers are
// sent so failures never leave a partial body.
package serializer
