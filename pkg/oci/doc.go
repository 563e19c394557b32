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

// Package oci publishes prepared datasets to OCI-compliant registries.
//
// A dataset directory is packed as an OCI 1.1 artifact with artifact type
// "application/vnd.langpop.dataset": each regular file becomes one layer
// whose media type follows its extension (JSON or YAML dataset, plain text
// otherwise), annotated with its file name. Pushing uses ORAS with Docker
// credential helpers for authentication.
//
//	ref, err := oci.ParseOutputTarget("oci://ghcr.io/langpop/dataset:2020Q4")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Publish(ctx, oci.PublishConfig{
//	    SourceDir: dir,
//	    Reference: ref,
//	    Version:   version,
//	})
//
// Package writes the same artifact to a local OCI image layout, which is
// useful for inspecting or mirroring a dataset without a registry.
//
// PlainHTTP and InsecureTLS are meant for local development registries.
package oci
