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

package controllers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/openmetahub/artifact-registry-service/spec"
	"github.com/openmetahub/artifact-registry-service/typeregistry"
	"github.com/openmetahub/artifact-registry-service/utils"
)

// TypeController defines the interface for artifact type HTTP handlers
type TypeController interface {
	ListArtifactTypes(w http.ResponseWriter, r *http.Request)
}

type typeController struct {
	typeRegistry   *typeregistry.Registry
	publicEndpoint string
}

// NewTypeController creates a new artifact type controller
func NewTypeController(typeRegistry *typeregistry.Registry, publicEndpoint string) TypeController {
	return &typeController{typeRegistry: typeRegistry, publicEndpoint: publicEndpoint}
}

// ListArtifactTypes handles GET /artifacts
func (c *typeController) ListArtifactTypes(w http.ResponseWriter, r *http.Request) {
	byName := c.typeRegistry.Types()

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	response := spec.ArtifactTypeList{ArtifactTypes: []spec.ArtifactTypeMetadata{}}
	for _, name := range names {
		versions := byName[name]
		meta := spec.ArtifactTypeMetadata{
			TypeName: name,
			Versions: make([]spec.TypeVersionMetadata, 0, len(versions)),
		}
		for _, t := range versions {
			if meta.DisplayedName == "" {
				meta.DisplayedName = t.DisplayName
			}
			meta.Versions = append(meta.Versions, spec.TypeVersionMetadata{
				ID: t.Version,
				Link: fmt.Sprintf("%s%s/%s/v%s",
					c.publicEndpoint, utils.ArtifactsEndpoint, t.Name, t.Version),
				Description: t.Description,
			})
		}
		response.ArtifactTypes = append(response.ArtifactTypes, meta)
	}

	utils.WriteSuccessResponse(w, http.StatusOK, response)
}
