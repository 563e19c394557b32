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

// Package k8s holds the Kubernetes integration used for cm://namespace/name
// locations.
//
// # Sub-packages
//
// client: Kubernetes client construction with kubeconfig discovery
//
//	clientset, config, err := client.GetKubeClient()
//	if err != nil {
//	    return err
//	}
//
// The serializer package takes a client.Provider so ConfigMap reads and
// writes resolve the client lazily, and tests substitute a fake clientset
// with client.StaticProvider.
package k8s
