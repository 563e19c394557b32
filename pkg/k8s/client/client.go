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

package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is an alias for kubernetes.Interface so callers can hold either
// a real clientset or fake.NewClientset().
type Interface = kubernetes.Interface

// Provider returns a Kubernetes client on demand. ConfigMap readers and
// writers take a Provider so the cluster is only contacted when a cm://
// location is actually used.
type Provider func() (Interface, error)

var (
	clientOnce   sync.Once
	cachedClient *kubernetes.Clientset
	cachedConfig *rest.Config
	clientErr    error
)

// GetKubeClient returns a process-wide client, creating it on first call.
//
// Configuration is discovered from, in order:
//   - the KUBECONFIG environment variable
//   - ~/.kube/config
//   - the in-cluster service account
func GetKubeClient() (Interface, *rest.Config, error) {
	clientOnce.Do(func() {
		cachedClient, cachedConfig, clientErr = BuildKubeClient("")
	})
	if clientErr != nil {
		return nil, nil, clientErr
	}
	return cachedClient, cachedConfig, nil
}

// BuildKubeClient creates a new client from the given kubeconfig file,
// bypassing the cache. An empty path uses the discovery order of
// GetKubeClient.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	var config *rest.Config
	var err error

	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")

		if kubeconfig == "" {
			kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, err = os.Stat(kubeconfig); os.IsNotExist(err) {
				kubeconfig = ""
			}
		}
	}

	// Skip clientcmd entirely without a kubeconfig to avoid its
	// "Neither --kubeconfig nor --master was specified" warning.
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
		}
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, config, nil
}

// DefaultProvider returns the cached client from GetKubeClient.
func DefaultProvider() (Interface, error) {
	c, _, err := GetKubeClient()
	return c, err
}

// KubeconfigProvider returns a Provider that builds a client from path.
// An empty path yields DefaultProvider.
func KubeconfigProvider(path string) Provider {
	if path == "" {
		return DefaultProvider
	}
	return func() (Interface, error) {
		c, _, err := BuildKubeClient(path)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// StaticProvider returns a Provider that always yields c.
func StaticProvider(c Interface) Provider {
	return func() (Interface, error) {
		return c, nil
	}
}
