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

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/langpop/langpop/pkg/defaults"
	apperrors "github.com/langpop/langpop/pkg/errors"
)

const (
	// ArtifactType is the artifact type of a published dataset.
	ArtifactType = "application/vnd.langpop.dataset"

	// MediaTypeDatasetJSON is the layer media type of a JSON dataset file.
	MediaTypeDatasetJSON = "application/vnd.langpop.dataset.v1+json"

	// MediaTypeDatasetYAML is the layer media type of a YAML dataset file.
	MediaTypeDatasetYAML = "application/vnd.langpop.dataset.v1+yaml"

	// MediaTypeDatasetText is the layer media type of any other file.
	MediaTypeDatasetText = "text/plain"
)

// PushOptions configures the OCI push operation.
type PushOptions struct {
	// SourceDir is the directory holding the dataset files.
	SourceDir string
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "langpop/dataset").
	Repository string
	// Tag is the image tag (e.g., "2020Q4", "latest").
	Tag string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// ReproducibleTimestamp sets a fixed created annotation.
	ReproducibleTimestamp string
	// Annotations are added to the manifest.
	Annotations map[string]string
}

// PushResult contains the result of a successful OCI push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// PackageOptions configures writing the artifact to a local OCI image layout.
type PackageOptions struct {
	SourceDir             string
	OutputDir             string
	Registry              string
	Repository            string
	Tag                   string
	ReproducibleTimestamp string
	Annotations           map[string]string
}

// PackageResult contains the result of a local packaging run.
type PackageResult struct {
	Digest    string
	Reference string
	StorePath string
}

// Push packs every regular file in SourceDir as one layer each of an
// OCI 1.1 artifact and copies it to the registry.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	registryHost := stripProtocol(opts.Registry)
	refString, err := validate(registryHost, opts.Repository, opts.Tag, "push")
	if err != nil {
		return nil, err
	}

	fs, err := packDir(ctx, opts.SourceDir, opts.Tag, opts.ReproducibleTimestamp, opts.Annotations)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fs.Close() }()

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", registryHost, opts.Repository))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	pushCtx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	desc, err := oras.Copy(pushCtx, fs, opts.Tag, repo, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to push artifact to registry", err)
	}

	slog.Info("dataset pushed", "reference", refString, "digest", desc.Digest.String())

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// Package writes the artifact Push would publish into an OCI image layout
// under OutputDir, tagged with Tag.
func Package(ctx context.Context, opts PackageOptions) (*PackageResult, error) {
	registryHost := stripProtocol(opts.Registry)
	refString, err := validate(registryHost, opts.Repository, opts.Tag, "packaging")
	if err != nil {
		return nil, err
	}

	storePath, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	store, err := oci.New(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCI layout store: %w", err)
	}

	fs, err := packDir(ctx, opts.SourceDir, opts.Tag, opts.ReproducibleTimestamp, opts.Annotations)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fs.Close() }()

	desc, err := oras.Copy(ctx, fs, opts.Tag, store, opts.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to copy artifact to OCI layout: %w", err)
	}

	return &PackageResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
		StorePath: storePath,
	}, nil
}

func validate(registry, repository, tag, op string) (string, error) {
	if tag == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "tag is required for OCI "+op)
	}
	if registry == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "registry is required for OCI "+op)
	}
	if repository == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "repository is required for OCI "+op)
	}
	refString := fmt.Sprintf("%s/%s:%s", registry, repository, tag)
	if _, err := reference.ParseNormalizedNamed(refString); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid image reference '%s'", refString), err)
	}
	return refString, nil
}

// packDir builds a tagged manifest in a file store rooted at dir.
// The caller closes the returned store.
func packDir(ctx context.Context, dir, tag, timestamp string, annotations map[string]string) (*file.Store, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for source dir: %w", err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"no files to publish", map[string]any{"dir": dir})
	}
	slices.Sort(names)

	fs, err := file.New(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}

	layers := make([]ociv1.Descriptor, 0, len(names))
	for _, name := range names {
		desc, addErr := fs.Add(ctx, name, mediaTypeFor(name), filepath.Join(absDir, name))
		if addErr != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("failed to add %s to store: %w", name, addErr)
		}
		layers = append(layers, desc)
	}

	packOpts := oras.PackManifestOptions{
		Layers:              layers,
		ManifestAnnotations: make(map[string]string, len(annotations)+1),
	}
	for k, v := range annotations {
		packOpts.ManifestAnnotations[k] = v
	}
	if timestamp != "" {
		packOpts.ManifestAnnotations[ociv1.AnnotationCreated] = timestamp
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}
	if err := fs.Tag(ctx, manifestDesc, tag); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("failed to tag manifest in local store: %w", err)
	}
	return fs, nil
}

func mediaTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return MediaTypeDatasetJSON
	case ".yaml", ".yml":
		return MediaTypeDatasetYAML
	default:
		return MediaTypeDatasetText
	}
}

// stripProtocol removes http:// or https:// prefix from a registry URL.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
