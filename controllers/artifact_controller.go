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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/openmetahub/artifact-registry-service/middleware/jwtassertion"
	"github.com/openmetahub/artifact-registry-service/middleware/logger"
	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/services"
	"github.com/openmetahub/artifact-registry-service/spec"
	"github.com/openmetahub/artifact-registry-service/typeregistry"
	"github.com/openmetahub/artifact-registry-service/utils"
)

// ArtifactController defines the interface for artifact HTTP handlers
type ArtifactController interface {
	CreateArtifact(w http.ResponseWriter, r *http.Request)
	GetArtifact(w http.ResponseWriter, r *http.Request)
	ListArtifacts(w http.ResponseWriter, r *http.Request)
	UpdateArtifact(w http.ResponseWriter, r *http.Request)
	UpdateArtifactProperty(w http.ResponseWriter, r *http.Request)
	UploadBlob(w http.ResponseWriter, r *http.Request)
	DownloadBlob(w http.ResponseWriter, r *http.Request)
	PublishArtifact(w http.ResponseWriter, r *http.Request)
	DeleteArtifact(w http.ResponseWriter, r *http.Request)
}

type artifactController struct {
	artifactService services.ArtifactService
	queryBuilder    services.QueryBuilder
	typeRegistry    *typeregistry.Registry
	publicEndpoint  string
}

// NewArtifactController creates a new artifact controller
func NewArtifactController(
	artifactService services.ArtifactService,
	queryBuilder services.QueryBuilder,
	typeRegistry *typeregistry.Registry,
	publicEndpoint string,
) ArtifactController {
	return &artifactController{
		artifactService: artifactService,
		queryBuilder:    queryBuilder,
		typeRegistry:    typeRegistry,
		publicEndpoint:  publicEndpoint,
	}
}

// resolveType resolves the artifact type named in the request path. The
// version path segment carries a "v" prefix ("v1.0.0") and may be partial.
func (c *artifactController) resolveType(r *http.Request) (*typeregistry.ArtifactType, error) {
	typeName := r.PathValue(utils.PathParamTypeName)
	typeVersion := strings.TrimPrefix(r.PathValue(utils.PathParamTypeVersion), "v")
	artifactType, err := c.typeRegistry.Resolve(typeName, typeVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", utils.ErrUnknownType, err)
	}
	return artifactType, nil
}

// showLevel parses the show_level query parameter, falling back to the
// operation's default.
func showLevel(r *http.Request, fallback models.ShowLevel) (models.ShowLevel, error) {
	raw := r.URL.Query().Get(utils.QueryParamShowLevel)
	if raw == "" {
		return fallback, nil
	}
	level, err := models.ParseShowLevel(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", utils.ErrInvalidInput, err)
	}
	return level, nil
}

// CreateArtifact handles POST /artifacts/{typeName}/{typeVersion}
func (c *artifactController) CreateArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "CreateArtifact", err)
		return
	}

	var req spec.CreateArtifactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	owner := ""
	if claims := jwtassertion.GetTokenClaims(ctx); claims != nil {
		owner = claims.Subject
	}

	artifact, err := c.artifactService.Create(ctx, artifactType, &req, owner)
	if err != nil {
		writeServiceError(w, log, "CreateArtifact", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s%s/%s/v%s/%s",
		c.publicEndpoint, utils.ArtifactsEndpoint, artifactType.Name, artifactType.Version, artifact.ID.String()))
	utils.WriteSuccessResponse(w, http.StatusCreated, spec.NewArtifactResponse(artifact, models.ShowLevelDirect))
}

// GetArtifact handles GET /artifacts/{typeName}/{typeVersion}/{id}
func (c *artifactController) GetArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "GetArtifact", err)
		return
	}
	level, err := showLevel(r, models.ShowLevelTransitive)
	if err != nil {
		writeServiceError(w, log, "GetArtifact", err)
		return
	}

	artifact, err := c.artifactService.Get(ctx, artifactType, r.PathValue(utils.PathParamArtifactID), level)
	if err != nil {
		writeServiceError(w, log, "GetArtifact", err)
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, spec.NewArtifactResponse(artifact, level))
}

// ListArtifacts handles GET /artifacts/{typeName}/{typeVersion}
func (c *artifactController) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "ListArtifacts", err)
		return
	}
	level, err := showLevel(r, models.ShowLevelBasic)
	if err != nil {
		writeServiceError(w, log, "ListArtifacts", err)
		return
	}

	q, err := c.queryBuilder.Build(artifactType, r.URL.Query())
	if err != nil {
		writeServiceError(w, log, "ListArtifacts", err)
		return
	}

	artifacts, err := c.artifactService.List(ctx, artifactType, q, level)
	if err != nil {
		writeServiceError(w, log, "ListArtifacts", err)
		return
	}

	response := make([]*spec.ArtifactResponse, 0, len(artifacts))
	for _, artifact := range artifacts {
		response = append(response, spec.NewArtifactResponse(artifact, level))
	}
	utils.WriteSuccessResponse(w, http.StatusOK, response)
}

// UpdateArtifact handles PATCH /artifacts/{typeName}/{typeVersion}/{id}
func (c *artifactController) UpdateArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "UpdateArtifact", err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	operations, err := spec.ValidatePatchBody(body)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	changes := make([]models.PatchChange, 0, len(operations))
	for _, operation := range operations {
		op, err := models.ParsePatchOp(operation.Op)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		changes = append(changes, models.PatchChange{Op: op, Path: operation.Path, Value: operation.Value})
	}

	artifact, err := c.artifactService.Update(ctx, artifactType, r.PathValue(utils.PathParamArtifactID), changes)
	if err != nil {
		writeServiceError(w, log, "UpdateArtifact", err)
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, spec.NewArtifactResponse(artifact, models.ShowLevelDirect))
}

// UpdateArtifactProperty handles PUT and POST
// /artifacts/{typeName}/{typeVersion}/{id}/{attr}. PUT replaces or creates;
// POST adds, appending for list attributes.
func (c *artifactController) UpdateArtifactProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "UpdateArtifactProperty", err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	value, err := spec.ValidatePropertyUpdateBody(body)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	artifact, err := c.artifactService.UpdateProperty(ctx, artifactType,
		r.PathValue(utils.PathParamArtifactID), r.PathValue(utils.PathParamAttribute),
		value, r.Method == http.MethodPut)
	if err != nil {
		writeServiceError(w, log, "UpdateArtifactProperty", err)
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, spec.NewArtifactResponse(artifact, models.ShowLevelDirect))
}

// UploadBlob handles PUT and POST
// /artifacts/{typeName}/{typeVersion}/{id}/{attr}/data and
// .../{attr}/{index}/data. PUT replaces, POST inserts or appends.
func (c *artifactController) UploadBlob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "UploadBlob", err)
		return
	}
	index, err := optionalIndex(r)
	if err != nil {
		writeServiceError(w, log, "UploadBlob", err)
		return
	}

	artifact, err := c.artifactService.Upload(ctx, artifactType,
		r.PathValue(utils.PathParamArtifactID), r.PathValue(utils.PathParamAttribute),
		index, r.Method == http.MethodPut, r.Body, r.ContentLength)
	if err != nil {
		writeServiceError(w, log, "UploadBlob", err)
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, spec.NewArtifactResponse(artifact, models.ShowLevelDirect))
}

// DownloadBlob handles GET /artifacts/{typeName}/{typeVersion}/{id}/{attr}/data
// and .../{attr}/{index}/data.
func (c *artifactController) DownloadBlob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "DownloadBlob", err)
		return
	}
	index, err := optionalIndex(r)
	if err != nil {
		writeServiceError(w, log, "DownloadBlob", err)
		return
	}

	stream, ref, err := c.artifactService.Download(ctx, artifactType,
		r.PathValue(utils.PathParamArtifactID), r.PathValue(utils.PathParamAttribute), index)
	if err != nil {
		writeServiceError(w, log, "DownloadBlob", err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(ref.Size, 10))
	if ref.Checksum != "" {
		w.Header().Set("Content-MD5", ref.Checksum)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, stream); err != nil {
		log.Error("DownloadBlob: stream copy failed", "error", err)
	}
}

// PublishArtifact handles POST /artifacts/{typeName}/{typeVersion}/{id}/publish
func (c *artifactController) PublishArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "PublishArtifact", err)
		return
	}

	artifact, err := c.artifactService.Publish(ctx, artifactType, r.PathValue(utils.PathParamArtifactID))
	if err != nil {
		writeServiceError(w, log, "PublishArtifact", err)
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, spec.NewArtifactResponse(artifact, models.ShowLevelDirect))
}

// DeleteArtifact handles DELETE /artifacts/{typeName}/{typeVersion}/{id}
func (c *artifactController) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	artifactType, err := c.resolveType(r)
	if err != nil {
		writeServiceError(w, log, "DeleteArtifact", err)
		return
	}

	if err := c.artifactService.Delete(ctx, artifactType, r.PathValue(utils.PathParamArtifactID)); err != nil {
		writeServiceError(w, log, "DeleteArtifact", err)
		return
	}
	utils.WriteSuccessResponse[any](w, http.StatusNoContent, nil)
}

func optionalIndex(r *http.Request) (*int, error) {
	raw := r.PathValue(utils.PathParamIndex)
	if raw == "" {
		return nil, nil
	}
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return nil, fmt.Errorf("%w: %q is not a valid index", utils.ErrInvalidPath, raw)
	}
	return &index, nil
}
