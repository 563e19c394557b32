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

// Package client provides Kubernetes client construction for ConfigMap
// input and output.
//
// langpop only talks to a cluster when a source or output uses a
// cm://namespace/name location. The client is built lazily through a
// Provider and cached for the life of the process:
//
//	c, _, err := client.GetKubeClient()
//	if err != nil {
//	    return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//
// Configuration is taken from KUBECONFIG, then ~/.kube/config, then the
// in-cluster service account. Use KubeconfigProvider for an explicit path
// and StaticProvider to inject a fake clientset in tests.
package client
