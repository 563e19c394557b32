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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/langpop/langpop/pkg/defaults"
	"github.com/langpop/langpop/pkg/header"
	"github.com/langpop/langpop/pkg/k8s/client"
)

// ConfigMap data keys written alongside the document.
const (
	configMapFormatKey    = "format"
	configMapTimestampKey = "timestamp"
	configMapDefaultStem  = "data"
	configMapFieldManager = "langpop"
)

// ConfigMapWriter writes serialized data to a Kubernetes ConfigMap using
// server-side apply, so the ConfigMap is created or updated atomically.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	kube      client.Provider
}

// NewConfigMapWriter creates a writer for namespace/name. A nil provider
// uses client.DefaultProvider.
func NewConfigMapWriter(namespace, name string, format Format, kube client.Provider) *ConfigMapWriter {
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	if kube == nil {
		kube = client.DefaultProvider
	}
	return &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    format,
		kube:      kube,
	}
}

// Serialize writes data to the ConfigMap. The ConfigMap holds:
//   - <kind>.<ext>: the serialized document (dataset.json for a Dataset)
//   - format: the format used
//   - timestamp: the document timestamp, or now
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	k8s, err := w.kube()
	if err != nil {
		return fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	content, err := Encode(w.format, data)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	stem := configMapDefaultStem
	version := "unknown"
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if h, ok := data.(interface {
		GetKind() header.Kind
		GetMetadata() map[string]string
	}); ok {
		if k := h.GetKind(); k != "" {
			stem = strings.ToLower(k.String())
		}
		md := h.GetMetadata()
		if v := md[header.MetadataVersion]; v != "" {
			version = v
		}
		if ts := md[header.MetadataTimestamp]; ts != "" {
			timestamp = ts
		}
	}

	dataKey := stem + "." + w.format.Extension()
	cm := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "langpop",
			"app.kubernetes.io/component": stem,
			"app.kubernetes.io/version":   version,
		}).
		WithData(map[string]string{
			dataKey:               string(content),
			configMapFormatKey:    string(w.format),
			configMapTimestampKey: timestamp,
		})

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"key", dataKey,
		"format", w.format)

	_, err = k8s.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: configMapFieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// Close is a no-op; ConfigMapWriter holds no resources.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// readConfigMap returns the document stored in namespace/name and its
// format. The document is the first data key, in sorted order, with a
// .json, .yaml or .yml extension.
func readConfigMap(ctx context.Context, kube client.Provider, namespace, name string) ([]byte, Format, error) {
	readCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
	defer cancel()

	k8s, err := kube()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	cm, err := k8s.CoreV1().ConfigMaps(namespace).Get(readCtx, name, metav1.GetOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}

	keys := make([]string, 0, len(cm.Data))
	for k := range cm.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch {
		case strings.HasSuffix(k, ".json"):
			return []byte(cm.Data[k]), FormatJSON, nil
		case strings.HasSuffix(k, ".yaml"), strings.HasSuffix(k, ".yml"):
			return []byte(cm.Data[k]), FormatYAML, nil
		}
	}
	return nil, "", fmt.Errorf("ConfigMap %s/%s has no JSON or YAML document", namespace, name)
}

// parseConfigMapURI splits cm://namespace/name into its parts.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])

	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	if strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot contain '/'")
	}

	return namespace, name, nil
}
