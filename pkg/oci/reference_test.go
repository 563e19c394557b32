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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langpop/langpop/pkg/errors"
)

func TestParseOutputTarget(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantIsOCI bool
		wantReg   string
		wantRepo  string
		wantTag   string
		wantDir   string
		wantErr   bool
	}{
		{
			name:      "local directory relative",
			input:     "./out/dataset.json",
			wantIsOCI: false,
			wantDir:   "./out/dataset.json",
		},
		{
			name:      "local directory absolute",
			input:     "/tmp/dataset.yaml",
			wantIsOCI: false,
			wantDir:   "/tmp/dataset.yaml",
		},
		{
			name:      "local directory current",
			input:     ".",
			wantIsOCI: false,
			wantDir:   ".",
		},
		{
			name:      "OCI with tag",
			input:     "oci://ghcr.io/langpop/dataset:v1.0.0",
			wantIsOCI: true,
			wantReg:   "ghcr.io",
			wantRepo:  "langpop/dataset",
			wantTag:   "v1.0.0",
		},
		{
			name:      "OCI without tag returns empty (caller applies default)",
			input:     "oci://ghcr.io/langpop/dataset",
			wantIsOCI: true,
			wantReg:   "ghcr.io",
			wantRepo:  "langpop/dataset",
			wantTag:   "",
		},
		{
			name:      "OCI with port and tag",
			input:     "oci://localhost:5000/test/dataset:v1",
			wantIsOCI: true,
			wantReg:   "localhost:5000",
			wantRepo:  "test/dataset",
			wantTag:   "v1",
		},
		{
			name:      "OCI with port no tag returns empty (caller applies default)",
			input:     "oci://localhost:5000/test/dataset",
			wantIsOCI: true,
			wantReg:   "localhost:5000",
			wantRepo:  "test/dataset",
			wantTag:   "",
		},
		{
			name:      "OCI deeply nested repository",
			input:     "oci://ghcr.io/org/team/project/dataset:latest",
			wantIsOCI: true,
			wantReg:   "ghcr.io",
			wantRepo:  "org/team/project/dataset",
			wantTag:   "latest",
		},
		{
			name:    "OCI invalid reference",
			input:   "oci://",
			wantErr: true,
		},
		{
			name:    "OCI invalid characters",
			input:   "oci://ghcr.io/INVALID/Dataset:v1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseOutputTarget(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseOutputTarget() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}

			if ref.IsOCI != tt.wantIsOCI {
				t.Errorf("ParseOutputTarget() IsOCI = %v, want %v", ref.IsOCI, tt.wantIsOCI)
			}
			if ref.Registry != tt.wantReg {
				t.Errorf("ParseOutputTarget() Registry = %v, want %v", ref.Registry, tt.wantReg)
			}
			if ref.Repository != tt.wantRepo {
				t.Errorf("ParseOutputTarget() Repository = %v, want %v", ref.Repository, tt.wantRepo)
			}
			if ref.Tag != tt.wantTag {
				t.Errorf("ParseOutputTarget() Tag = %v, want %v", ref.Tag, tt.wantTag)
			}
			if ref.LocalPath != tt.wantDir {
				t.Errorf("ParseOutputTarget() LocalPath = %v, want %v", ref.LocalPath, tt.wantDir)
			}
		})
	}
}

func TestReference_String(t *testing.T) {
	tests := []struct {
		name string
		ref  *Reference
		want string
	}{
		{
			name: "local path",
			ref: &Reference{
				IsOCI:     false,
				LocalPath: "./dataset.json",
			},
			want: "./dataset.json",
		},
		{
			name: "OCI with tag",
			ref: &Reference{
				IsOCI:      true,
				Registry:   "ghcr.io",
				Repository: "langpop/dataset",
				Tag:        "v1.0.0",
			},
			want: "oci://ghcr.io/langpop/dataset:v1.0.0",
		},
		{
			name: "OCI without tag",
			ref: &Reference{
				IsOCI:      true,
				Registry:   "ghcr.io",
				Repository: "langpop/dataset",
				Tag:        "",
			},
			want: "oci://ghcr.io/langpop/dataset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.String(); got != tt.want {
				t.Errorf("Reference.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReference_ImageReference(t *testing.T) {
	tests := []struct {
		name string
		ref  *Reference
		want string
	}{
		{
			name: "local path returns empty",
			ref: &Reference{
				IsOCI:     false,
				LocalPath: "./dataset.json",
			},
			want: "",
		},
		{
			name: "OCI with tag",
			ref: &Reference{
				IsOCI:      true,
				Registry:   "ghcr.io",
				Repository: "langpop/dataset",
				Tag:        "v1.0.0",
			},
			want: "ghcr.io/langpop/dataset:v1.0.0",
		},
		{
			name: "OCI without tag",
			ref: &Reference{
				IsOCI:      true,
				Registry:   "ghcr.io",
				Repository: "langpop/dataset",
				Tag:        "",
			},
			want: "ghcr.io/langpop/dataset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.ImageReference(); got != tt.want {
				t.Errorf("Reference.ImageReference() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReference_WithTag(t *testing.T) {
	tests := []struct {
		name    string
		ref     *Reference
		newTag  string
		wantTag string
	}{
		{
			name: "local path unchanged",
			ref: &Reference{
				IsOCI:     false,
				LocalPath: "./dataset.json",
			},
			newTag:  "v2.0.0",
			wantTag: "",
		},
		{
			name: "OCI reference gets new tag",
			ref: &Reference{
				IsOCI:      true,
				Registry:   "ghcr.io",
				Repository: "langpop/dataset",
				Tag:        "v1.0.0",
			},
			newTag:  "v2.0.0",
			wantTag: "v2.0.0",
		},
		{
			name: "OCI reference without tag gets tag",
			ref: &Reference{
				IsOCI:      true,
				Registry:   "ghcr.io",
				Repository: "langpop/dataset",
				Tag:        "",
			},
			newTag:  "v1.0.0",
			wantTag: "v1.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.ref.WithTag(tt.newTag)
			if result.Tag != tt.wantTag {
				t.Errorf("Reference.WithTag() Tag = %v, want %v", result.Tag, tt.wantTag)
			}
			// Ensure original is not modified for OCI refs
			if tt.ref.IsOCI && result != tt.ref && tt.ref.Tag == tt.wantTag {
				t.Error("Reference.WithTag() modified original reference")
			}
		})
	}
}

func TestValidateRegistryReference(t *testing.T) {
	tests := []struct {
		name       string
		registry   string
		repository string
		wantErr    bool
	}{
		{"valid", "ghcr.io", "langpop/dataset", false},
		{"with port", "localhost:5000", "dataset", false},
		{"with protocol", "https://ghcr.io", "langpop/dataset", false},
		{"empty registry", "", "langpop/dataset", true},
		{"empty repository", "ghcr.io", "", true},
		{"uppercase repository", "ghcr.io", "Langpop/Dataset", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistryReference(tt.registry, tt.repository)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsOCITarget(t *testing.T) {
	assert.True(t, IsOCITarget("oci://ghcr.io/langpop/dataset"))
	assert.False(t, IsOCITarget("cm://default/langpop"))
	assert.False(t, IsOCITarget("dataset.json"))
}

func TestPublish_RequiresOCIReference(t *testing.T) {
	_, err := Publish(context.Background(), PublishConfig{SourceDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	_, err = Publish(context.Background(), PublishConfig{
		SourceDir: t.TempDir(),
		Reference: &Reference{LocalPath: "out.json"},
	})
	require.Error(t, err)
}

func TestPublish_EmptySourceDir(t *testing.T) {
	ref, err := ParseOutputTarget("oci://localhost:5000/langpop/dataset")
	require.NoError(t, err)

	// fails while packing, before any registry traffic
	_, err = Publish(context.Background(), PublishConfig{
		SourceDir: t.TempDir(),
		Reference: ref,
		PlainHTTP: true,
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}
