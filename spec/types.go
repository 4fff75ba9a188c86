// Copyright (c) 2026, OpenMetaHub (https://www.openmetahub.io).
//
// OpenMetaHub licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package spec

import (
	"time"

	"github.com/openmetahub/artifact-registry-service/models"
)

// ErrorResponse is the error payload shape for all error statuses
type ErrorResponse struct {
	Message string `json:"message"`
}

// CreateArtifactRequest is the body of a create operation.
type CreateArtifactRequest struct {
	Name         string              `json:"name"`
	Version      string              `json:"version"`
	Visibility   string              `json:"visibility,omitempty"`
	Scope        string              `json:"scope,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Properties   map[string]any      `json:"properties,omitempty"`
	Dependencies map[string][]string `json:"dependencies,omitempty"`
}

// PatchOperation is one element of a JSON patch request body.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// PropertyUpdateRequest is the body of a single-property update.
type PropertyUpdateRequest struct {
	Data any `json:"data"`
}

// ArtifactResponse is the client-facing artifact shape. Exactly these
// fields, dependency depth per the operation's show level.
type ArtifactResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	TypeName     string         `json:"type_name"`
	TypeVersion  string         `json:"type_version"`
	Visibility   string         `json:"visibility"`
	State        string         `json:"state"`
	Owner        string         `json:"owner"`
	Scope        string         `json:"scope"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Tags         []string       `json:"tags"`
	Dependencies map[string]any `json:"dependencies"`
	Blobs        map[string]any `json:"blobs"`
	Properties   map[string]any `json:"properties"`
}

// BlobResponse is the client-facing shape of one blob reference.
type BlobResponse struct {
	Size     int64  `json:"size"`
	Checksum string `json:"checksum,omitempty"`
}

// NewArtifactResponse serializes an artifact for the client at the given
// dependency depth. At ShowLevelDirect and deeper, materialized dependency
// artifacts replace their ids; below that only raw ids appear.
func NewArtifactResponse(a *models.Artifact, level models.ShowLevel) *ArtifactResponse {
	resp := &ArtifactResponse{
		ID:           a.ID.String(),
		Name:         a.Name,
		Version:      a.Version,
		TypeName:     a.TypeName,
		TypeVersion:  a.TypeVersion,
		Visibility:   a.Visibility,
		State:        a.State,
		Owner:        a.Owner,
		Scope:        a.Scope,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		Tags:         append([]string{}, a.Tags...),
		Dependencies: map[string]any{},
		Blobs:        map[string]any{},
		Properties:   map[string]any{},
	}
	for name, value := range a.Properties {
		resp.Properties[name] = value
	}
	for name, value := range a.Blobs {
		if value.Ref != nil {
			resp.Blobs[name] = BlobResponse{Size: value.Ref.Size, Checksum: value.Ref.Checksum}
			continue
		}
		list := make([]BlobResponse, 0, len(value.List))
		for _, ref := range value.List {
			list = append(list, BlobResponse{Size: ref.Size, Checksum: ref.Checksum})
		}
		resp.Blobs[name] = list
	}
	for relation, ids := range a.Dependencies {
		if level >= models.ShowLevelDirect {
			if objs, ok := a.DependencyObjects[relation]; ok {
				nested := make([]*ArtifactResponse, 0, len(objs))
				for _, dep := range objs {
					nested = append(nested, NewArtifactResponse(dep, level))
				}
				resp.Dependencies[relation] = nested
				continue
			}
		}
		resp.Dependencies[relation] = ids
	}
	return resp
}

// ArtifactTypeList is the response of the list-artifact-types operation.
type ArtifactTypeList struct {
	ArtifactTypes []ArtifactTypeMetadata `json:"artifact_types"`
}

// ArtifactTypeMetadata describes one registered type and its versions.
type ArtifactTypeMetadata struct {
	TypeName      string                `json:"type_name"`
	DisplayedName string                `json:"displayed_name"`
	Versions      []TypeVersionMetadata `json:"versions"`
}

// TypeVersionMetadata describes one version of a registered type.
type TypeVersionMetadata struct {
	ID          string `json:"id"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
}
