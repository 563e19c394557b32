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
	"fmt"
	"log/slog"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/langpop/langpop/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry output (e.g., "oci://ghcr.io/org/repo:tag").
const URIScheme = "oci://"

// DefaultTag is applied when neither the reference nor the version names a tag.
const DefaultTag = "latest"

// Reference represents a parsed output target, which can be either an OCI registry
// reference or a local path.
type Reference struct {
	// IsOCI indicates whether this is an OCI registry reference (true) or local path (false).
	IsOCI bool
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "langpop/dataset").
	Repository string
	// Tag is the image tag. Empty means the caller applies a default.
	Tag string
	// LocalPath is the output path for non-OCI targets.
	LocalPath string
}

// IsOCITarget reports whether target uses the oci:// scheme.
func IsOCITarget(target string) bool {
	return strings.HasPrefix(target, URIScheme)
}

// ParseOutputTarget parses an output target string to detect an OCI URI or a local path.
// If no tag is specified in an OCI URI, Tag will be empty.
func ParseOutputTarget(target string) (*Reference, error) {
	if !IsOCITarget(target) {
		return &Reference{
			IsOCI:     false,
			LocalPath: target,
		}, nil
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	registry := reference.Domain(ref)
	repository := reference.Path(ref)

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	if err := ValidateRegistryReference(registry, repository); err != nil {
		return nil, err
	}

	return &Reference{
		IsOCI:      true,
		Registry:   registry,
		Repository: repository,
		Tag:        tag,
	}, nil
}

// ValidateRegistryReference checks that registry and repository form a valid image name.
func ValidateRegistryReference(registry, repository string) error {
	if registry == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry is required")
	}
	if repository == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "repository is required")
	}
	name := stripProtocol(registry) + "/" + repository
	if _, err := reference.ParseNormalizedNamed(name); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid registry reference '%s'", name), err)
	}
	return nil
}

// String returns the full reference string.
func (r *Reference) String() string {
	if !r.IsOCI {
		return r.LocalPath
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s%s/%s", URIScheme, r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s%s/%s:%s", URIScheme, r.Registry, r.Repository, r.Tag)
}

// ImageReference returns the Docker-style image reference (without oci:// scheme).
// Returns empty string for non-OCI references.
func (r *Reference) ImageReference() string {
	if !r.IsOCI {
		return ""
	}
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with the specified tag.
// For non-OCI references, returns the same reference unchanged.
func (r *Reference) WithTag(tag string) *Reference {
	if !r.IsOCI {
		return r
	}
	return &Reference{
		IsOCI:      true,
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}

// PublishConfig configures Publish.
type PublishConfig struct {
	// SourceDir holds the dataset file(s) to publish.
	SourceDir string
	// Reference is the parsed OCI target.
	Reference *Reference
	// Version is used as the tag when the reference has none, and as the
	// org.opencontainers.image.version annotation.
	Version string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
	// Annotations replace the default manifest annotations when set.
	Annotations map[string]string
}

// Publish pushes a prepared dataset directory to the registry named by
// cfg.Reference, applying a default tag when needed.
func Publish(ctx context.Context, cfg PublishConfig) (*PushResult, error) {
	if cfg.Reference == nil || !cfg.Reference.IsOCI {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference is required for Publish")
	}

	ref := cfg.Reference
	if ref.Tag == "" {
		tag := cfg.Version
		if tag == "" || tag == "dev" {
			tag = DefaultTag
		}
		ref = ref.WithTag(tag)
	}

	annotations := cfg.Annotations
	if annotations == nil {
		annotations = map[string]string{
			"org.opencontainers.image.title":  "langpop dataset",
			"org.opencontainers.image.source": "https://github.com/langpop/langpop",
		}
		if cfg.Version != "" {
			annotations["org.opencontainers.image.version"] = cfg.Version
		}
	}

	slog.Info("publishing dataset as OCI artifact",
		"registry", ref.Registry,
		"repository", ref.Repository,
		"tag", ref.Tag,
	)

	res, err := Push(ctx, PushOptions{
		SourceDir:   cfg.SourceDir,
		Registry:    ref.Registry,
		Repository:  ref.Repository,
		Tag:         ref.Tag,
		PlainHTTP:   cfg.PlainHTTP,
		InsecureTLS: cfg.InsecureTLS,
		Annotations: annotations,
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
