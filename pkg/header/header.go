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

package header

import (
	"time"

	"github.com/google/uuid"
)

// Kind represents the type of a langpop document.
type Kind string

// Known document kinds.
const (
	KindDataset     Kind = "Dataset"
	KindMergeResult Kind = "MergeResult"
)

// APIVersion is the schema version written into every document header.
const APIVersion = "langpop.dev/v1"

// Metadata keys set by Init.
const (
	MetadataTimestamp = "timestamp"
	MetadataVersion   = "version"
	MetadataRunID     = "runId"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindDataset, KindMergeResult:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion returns an Option that sets the APIVersion.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// GetKind returns the Kind field of the Header.
func (h *Header) GetKind() Kind {
	return h.Kind
}

// GetMetadata returns the Metadata map of the Header.
func (h *Header) GetMetadata() map[string]string {
	return h.Metadata
}

// RunID returns the run identifier recorded by Init, if any.
func (h *Header) RunID() string {
	return h.Metadata[MetadataRunID]
}

// New creates a new Header with the provided options applied.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header carries the kind, schema version and run metadata of a document.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata holds the creation timestamp, tool version and run id.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets the kind and API version and stamps the metadata with the
// current UTC time, the tool version and a fresh run id.
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = make(map[string]string)

	h.Metadata[MetadataTimestamp] = time.Now().UTC().Format(time.RFC3339)
	h.Metadata[MetadataRunID] = uuid.NewString()
	if version != "" {
		h.Metadata[MetadataVersion] = version
	}
}
