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

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/repositories"
	"github.com/openmetahub/artifact-registry-service/spec"
	"github.com/openmetahub/artifact-registry-service/store"
	"github.com/openmetahub/artifact-registry-service/typeregistry"
	"github.com/openmetahub/artifact-registry-service/utils"
)

// ArtifactService defines the interface for artifact lifecycle operations.
// Every mutating operation re-fetches the artifact at ShowLevelDirect so the
// caller sees the persisted record with its direct dependencies materialized.
type ArtifactService interface {
	Create(ctx context.Context, artifactType *typeregistry.ArtifactType, req *spec.CreateArtifactRequest, owner string) (*models.Artifact, error)
	Get(ctx context.Context, artifactType *typeregistry.ArtifactType, id string, level models.ShowLevel) (*models.Artifact, error)
	List(ctx context.Context, artifactType *typeregistry.ArtifactType, q models.QuerySpec, level models.ShowLevel) ([]*models.Artifact, error)
	Update(ctx context.Context, artifactType *typeregistry.ArtifactType, id string, changes []models.PatchChange) (*models.Artifact, error)
	UpdateProperty(ctx context.Context, artifactType *typeregistry.ArtifactType, id, attribute string, value any, replace bool) (*models.Artifact, error)
	Upload(ctx context.Context, artifactType *typeregistry.ArtifactType, id, attribute string, index *int, replace bool, body io.Reader, size int64) (*models.Artifact, error)
	Download(ctx context.Context, artifactType *typeregistry.ArtifactType, id, attribute string, index *int) (io.ReadCloser, models.BlobRef, error)
	Publish(ctx context.Context, artifactType *typeregistry.ArtifactType, id string) (*models.Artifact, error)
	Delete(ctx context.Context, artifactType *typeregistry.ArtifactType, id string) error
}

type artifactService struct {
	logger             *slog.Logger
	artifactRepo       repositories.ArtifactRepository
	patchEngine        PatchEngine
	blobStore          store.BlobStore
	latestVersionState string
}

// NewArtifactService creates a new artifact service. latestVersionState is
// the state used when resolving a 'latest' version filter.
func NewArtifactService(
	logger *slog.Logger,
	artifactRepo repositories.ArtifactRepository,
	patchEngine PatchEngine,
	blobStore store.BlobStore,
	latestVersionState string,
) ArtifactService {
	return &artifactService{
		logger:             logger,
		artifactRepo:       artifactRepo,
		patchEngine:        patchEngine,
		blobStore:          blobStore,
		latestVersionState: latestVersionState,
	}
}

// Create validates the creation payload against the type schema and persists
// a new artifact in the creating state.
func (s *artifactService) Create(ctx context.Context, artifactType *typeregistry.ArtifactType, req *spec.CreateArtifactRequest, owner string) (*models.Artifact, error) {
	s.logger.Info("Creating artifact", "typeName", artifactType.Name, "name", req.Name, "version", req.Version)

	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	}
	if req.Version == "" {
		return nil, fmt.Errorf("%w: version is required", utils.ErrInvalidInput)
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if visibility != models.VisibilityPrivate && visibility != models.VisibilityPublic {
		return nil, fmt.Errorf("%w: invalid visibility %q", utils.ErrInvalidInput, visibility)
	}

	properties, err := coerceProperties(artifactType, req.Properties)
	if err != nil {
		return nil, err
	}

	dependencies := models.DependencyMap{}
	for relation, ids := range req.Dependencies {
		dependencies[relation] = append([]string(nil), ids...)
	}

	artifact := &models.Artifact{
		ID:           uuid.New(),
		Name:         req.Name,
		Version:      req.Version,
		TypeName:     artifactType.Name,
		TypeVersion:  artifactType.Version,
		Visibility:   visibility,
		State:        models.StateCreating,
		Owner:        owner,
		Scope:        req.Scope,
		Tags:         append(models.StringList(nil), req.Tags...),
		Properties:   properties,
		Blobs:        models.BlobMap{},
		Dependencies: dependencies,
	}

	if err := s.artifactRepo.Add(ctx, artifact); err != nil {
		s.logger.Error("Failed to create artifact", "typeName", artifactType.Name, "name", req.Name, "error", err)
		return nil, err
	}
	return s.refetch(ctx, artifactType, artifact.ID.String())
}

// coerceProperties validates creation properties against the schema. Blob
// attributes are populated through upload, never through properties.
func coerceProperties(artifactType *typeregistry.ArtifactType, raw map[string]any) (models.PropertyMap, error) {
	properties := models.PropertyMap{}
	for name, value := range raw {
		attr, ok := artifactType.AttributeFor(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown attribute %q", utils.ErrInvalidPath, name)
		}
		if attr.Blob {
			return nil, fmt.Errorf("%w: blob attribute %q cannot be set directly", utils.ErrInvalidPath, name)
		}
		switch attr.Kind {
		case typeregistry.KindScalar:
			coerced, err := attr.Coerce(value)
			if err != nil {
				return nil, fmt.Errorf("%w: attribute %q: %s", utils.ErrInvalidPropertyValue, name, err)
			}
			properties[name] = coerced
		case typeregistry.KindList:
			items, ok := value.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: attribute %q requires a list value", utils.ErrInvalidPropertyValue, name)
			}
			list := make([]any, len(items))
			for i, item := range items {
				coerced, err := attr.Coerce(item)
				if err != nil {
					return nil, fmt.Errorf("%w: attribute %q element %d: %s", utils.ErrInvalidPropertyValue, name, i, err)
				}
				list[i] = coerced
			}
			properties[name] = list
		case typeregistry.KindMap:
			entries, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: attribute %q requires a map value", utils.ErrInvalidPropertyValue, name)
			}
			m := make(map[string]any, len(entries))
			for key, item := range entries {
				coerced, err := attr.Coerce(item)
				if err != nil {
					return nil, fmt.Errorf("%w: attribute %q key %q: %s", utils.ErrInvalidPropertyValue, name, key, err)
				}
				m[key] = coerced
			}
			properties[name] = m
		}
	}
	return properties, nil
}

// Get retrieves a single artifact expanded to the requested show level.
func (s *artifactService) Get(ctx context.Context, artifactType *typeregistry.ArtifactType, id string, level models.ShowLevel) (*models.Artifact, error) {
	return s.artifactRepo.Get(ctx, id, artifactType.Name, artifactType.Version, level)
}

// List retrieves artifacts matching the query. A 'latest' version filter is
// resolved here through a nested lookup before the query runs.
func (s *artifactService) List(ctx context.Context, artifactType *typeregistry.ArtifactType, q models.QuerySpec, level models.ShowLevel) ([]*models.Artifact, error) {
	if filter, ok := q.Filters["version"]; ok && filter.Value == "latest" {
		resolved, err := s.resolveLatestVersion(ctx, q)
		if err != nil {
			return nil, err
		}
		q.Filters["version"] = models.Filter{
			Operator:    models.FilterOpEQ,
			Value:       resolved,
			StorageType: filter.StorageType,
		}
	}
	return s.artifactRepo.List(ctx, q, level)
}

// resolveLatestVersion finds the newest in-progress version of the named
// artifact. The nested lookup never materializes dependencies.
func (s *artifactService) resolveLatestVersion(ctx context.Context, q models.QuerySpec) (string, error) {
	nameFilter, ok := q.Filters["name"]
	if !ok {
		return "", fmt.Errorf("%w: filtering by version 'latest' requires a name filter", utils.ErrInvalidInput)
	}
	nested := models.QuerySpec{
		TypeName:    q.TypeName,
		TypeVersion: q.TypeVersion,
		Filters: map[string]models.Filter{
			"name":  nameFilter,
			"state": {Operator: models.FilterOpEQ, Value: s.latestVersionState, StorageType: "string"},
		},
		SortKeys: []models.SortSpec{{Key: "version", Direction: models.SortDesc}},
		Limit:    1,
	}
	candidates, err := s.artifactRepo.List(ctx, nested, models.ShowLevelNone)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no latest version for name %v", utils.ErrArtifactNotFound, nameFilter.Value)
	}
	return candidates[0].Version, nil
}

// Update applies a patch sequence. The sequence is all-or-nothing: the
// stored record changes only when every edit succeeded.
func (s *artifactService) Update(ctx context.Context, artifactType *typeregistry.ArtifactType, id string, changes []models.PatchChange) (*models.Artifact, error) {
	artifact, err := s.artifactRepo.Get(ctx, id, artifactType.Name, artifactType.Version, models.ShowLevelNone)
	if err != nil {
		return nil, err
	}
	patched, err := s.patchEngine.Apply(artifact, artifactType, changes)
	if err != nil {
		return nil, err
	}
	if err := s.artifactRepo.Save(ctx, patched); err != nil {
		s.logger.Error("Failed to save patched artifact", "artifactID", id, "error", err)
		return nil, err
	}
	return s.refetch(ctx, artifactType, id)
}

// UpdateProperty sets one attribute. With replace semantics the value
// overwrites an existing one or creates it; otherwise the edit is an add,
// which appends for list attributes.
func (s *artifactService) UpdateProperty(ctx context.Context, artifactType *typeregistry.ArtifactType, id, attribute string, value any, replace bool) (*models.Artifact, error) {
	artifact, err := s.artifactRepo.Get(ctx, id, artifactType.Name, artifactType.Version, models.ShowLevelNone)
	if err != nil {
		return nil, err
	}
	op := models.PatchOpAdd
	if replace {
		if _, present := artifact.Properties[attribute]; present {
			op = models.PatchOpReplace
		}
	}
	patched, err := s.patchEngine.Apply(artifact, artifactType, []models.PatchChange{{Op: op, Path: attribute, Value: value}})
	if err != nil {
		return nil, err
	}
	if err := s.artifactRepo.Save(ctx, patched); err != nil {
		s.logger.Error("Failed to save artifact property", "artifactID", id, "attribute", attribute, "error", err)
		return nil, err
	}
	return s.refetch(ctx, artifactType, id)
}

// Upload streams a blob into the store and binds the resulting reference to
// the named attribute. If anything fails after the artifact was fetched, the
// state is reverted to creating as a best-effort compensation before the
// original error propagates.
func (s *artifactService) Upload(ctx context.Context, artifactType *typeregistry.ArtifactType, id, attribute string, index *int, replace bool, body io.Reader, size int64) (*models.Artifact, error) {
	attr, ok := artifactType.AttributeFor(attribute)
	if !ok || !attr.Blob {
		return nil, fmt.Errorf("%w: %q is not a blob attribute", utils.ErrInvalidPath, attribute)
	}

	artifact, err := s.artifactRepo.Get(ctx, id, artifactType.Name, artifactType.Version, models.ShowLevelNone)
	if err != nil {
		return nil, err
	}

	slot, replaced, err := blobSlot(artifact, attr, attribute, index, replace)
	if err != nil {
		s.revertToCreating(ctx, artifact)
		return nil, err
	}

	location, err := s.blobStore.Put(ctx, body, size)
	if err != nil {
		s.logger.Error("Blob store write failed", "artifactID", id, "attribute", attribute, "error", err)
		s.revertToCreating(ctx, artifact)
		return nil, err
	}

	ref := models.BlobRef{Location: location.URI, Size: location.Size, Checksum: location.Checksum}
	slot(ref)

	if err := s.artifactRepo.Save(ctx, artifact); err != nil {
		s.logger.Error("Failed to save artifact after upload", "artifactID", id, "attribute", attribute, "error", err)
		if deleteErr := s.blobStore.Delete(ctx, location.URI); deleteErr != nil {
			s.logger.Warn("Failed to clean up orphaned blob", "location", location.URI, "error", deleteErr)
		}
		s.revertToCreating(ctx, artifact)
		return nil, err
	}

	if replaced != nil && replaced.Location != "" && replaced.Location != location.URI {
		if err := s.blobStore.Delete(ctx, replaced.Location); err != nil {
			s.logger.Warn("Failed to delete replaced blob", "location", replaced.Location, "error", err)
		}
	}

	return s.refetch(ctx, artifactType, id)
}

// blobSlot validates the upload position and returns a setter that binds the
// committed reference, plus the reference it displaces, if any.
func blobSlot(artifact *models.Artifact, attr typeregistry.Attribute, attribute string, index *int, replace bool) (func(models.BlobRef), *models.BlobRef, error) {
	if artifact.Blobs == nil {
		artifact.Blobs = models.BlobMap{}
	}
	current := artifact.Blobs[attribute]

	if attr.Kind == typeregistry.KindScalar {
		if index != nil {
			return nil, nil, fmt.Errorf("%w: blob attribute %q does not take an index", utils.ErrInvalidPath, attribute)
		}
		replaced := current.Ref
		return func(ref models.BlobRef) {
			artifact.Blobs[attribute] = models.BlobValue{Ref: &ref}
		}, replaced, nil
	}

	list := current.List
	if index == nil {
		if replace && len(list) > 0 {
			return nil, nil, fmt.Errorf("%w: blob collection %q is not empty, replace requires an index", utils.ErrInvalidPath, attribute)
		}
		return func(ref models.BlobRef) {
			artifact.Blobs[attribute] = models.BlobValue{List: append(list, ref)}
		}, nil, nil
	}

	i := *index
	if i < 0 || i > len(list) {
		return nil, nil, fmt.Errorf("%w: index %d exceeds collection length %d", utils.ErrIndexOutOfRange, i, len(list))
	}
	if i == len(list) {
		return func(ref models.BlobRef) {
			artifact.Blobs[attribute] = models.BlobValue{List: append(list, ref)}
		}, nil, nil
	}
	if replace {
		replaced := list[i]
		return func(ref models.BlobRef) {
			list[i] = ref
			artifact.Blobs[attribute] = models.BlobValue{List: list}
		}, &replaced, nil
	}
	return func(ref models.BlobRef) {
		inserted := make([]models.BlobRef, 0, len(list)+1)
		inserted = append(inserted, list[:i]...)
		inserted = append(inserted, ref)
		inserted = append(inserted, list[i:]...)
		artifact.Blobs[attribute] = models.BlobValue{List: inserted}
	}, nil, nil
}

// revertToCreating is the upload compensation write. Its own failure is
// logged and swallowed so it never masks the original error.
func (s *artifactService) revertToCreating(ctx context.Context, artifact *models.Artifact) {
	// run even when the surrounding request was cancelled
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	artifact.State = models.StateCreating
	if err := s.artifactRepo.Save(ctx, artifact); err != nil {
		s.logger.Warn("Failed to revert artifact state after upload failure",
			"artifactID", artifact.ID.String(), "error", err)
	}
}

// Download returns the byte stream and reference of one stored blob.
func (s *artifactService) Download(ctx context.Context, artifactType *typeregistry.ArtifactType, id, attribute string, index *int) (io.ReadCloser, models.BlobRef, error) {
	attr, ok := artifactType.AttributeFor(attribute)
	if !ok || !attr.Blob {
		return nil, models.BlobRef{}, fmt.Errorf("%w: %q is not a blob attribute", utils.ErrInvalidPath, attribute)
	}
	artifact, err := s.artifactRepo.Get(ctx, id, artifactType.Name, artifactType.Version, models.ShowLevelNone)
	if err != nil {
		return nil, models.BlobRef{}, err
	}
	value := artifact.Blobs[attribute]

	var ref models.BlobRef
	if attr.Kind == typeregistry.KindScalar {
		if index != nil {
			return nil, models.BlobRef{}, fmt.Errorf("%w: blob attribute %q does not take an index", utils.ErrInvalidPath, attribute)
		}
		if value.Ref == nil {
			return nil, models.BlobRef{}, fmt.Errorf("%w: blob attribute %q is empty", utils.ErrPropertyNotFound, attribute)
		}
		ref = *value.Ref
	} else {
		if index == nil {
			return nil, models.BlobRef{}, fmt.Errorf("%w: blob collection %q requires an index", utils.ErrInvalidPath, attribute)
		}
		if *index < 0 || *index >= len(value.List) {
			return nil, models.BlobRef{}, fmt.Errorf("%w: index %d exceeds collection length %d", utils.ErrIndexOutOfRange, *index, len(value.List))
		}
		ref = value.List[*index]
	}

	stream, err := s.blobStore.Get(ctx, ref.Location)
	if err != nil {
		s.logger.Error("Blob store read failed", "artifactID", id, "location", ref.Location, "error", err)
		return nil, models.BlobRef{}, err
	}
	return stream, ref, nil
}

// Publish transitions the artifact from creating to active.
func (s *artifactService) Publish(ctx context.Context, artifactType *typeregistry.ArtifactType, id string) (*models.Artifact, error) {
	artifact, err := s.artifactRepo.Get(ctx, id, artifactType.Name, artifactType.Version, models.ShowLevelNone)
	if err != nil {
		return nil, err
	}
	if artifact.State != models.StateCreating {
		return nil, fmt.Errorf("%w: cannot publish artifact in state %q", utils.ErrBadStateTransition, artifact.State)
	}
	if err := s.artifactRepo.Publish(ctx, artifact); err != nil {
		s.logger.Error("Failed to publish artifact", "artifactID", id, "error", err)
		return nil, err
	}
	s.logger.Info("Published artifact", "artifactID", id, "typeName", artifactType.Name)
	return s.refetch(ctx, artifactType, id)
}

// Delete removes the artifact. Blobs still referenced elsewhere block the
// deletion; unreferenced blobs are cleaned up best-effort afterwards.
func (s *artifactService) Delete(ctx context.Context, artifactType *typeregistry.ArtifactType, id string) error {
	artifact, err := s.artifactRepo.Get(ctx, id, artifactType.Name, artifactType.Version, models.ShowLevelNone)
	if err != nil {
		return err
	}

	locations := blobLocations(artifact)
	for _, location := range locations {
		inUse, err := s.blobStore.InUse(ctx, location)
		if err != nil {
			s.logger.Error("Blob in-use check failed", "artifactID", id, "location", location, "error", err)
			return err
		}
		if inUse {
			return fmt.Errorf("%w: blob %s is still referenced", utils.ErrBlobInUse, location)
		}
	}

	if err := s.artifactRepo.Remove(ctx, artifact); err != nil {
		s.logger.Error("Failed to delete artifact", "artifactID", id, "error", err)
		return err
	}

	for _, location := range locations {
		if err := s.blobStore.Delete(ctx, location); err != nil {
			s.logger.Warn("Failed to delete blob of removed artifact", "location", location, "error", err)
		}
	}
	s.logger.Info("Deleted artifact", "artifactID", id, "typeName", artifactType.Name)
	return nil
}

func blobLocations(artifact *models.Artifact) []string {
	var locations []string
	for _, value := range artifact.Blobs {
		if value.Ref != nil && value.Ref.Location != "" {
			locations = append(locations, value.Ref.Location)
		}
		for _, ref := range value.List {
			if ref.Location != "" {
				locations = append(locations, ref.Location)
			}
		}
	}
	return locations
}

func (s *artifactService) refetch(ctx context.Context, artifactType *typeregistry.ArtifactType, id string) (*models.Artifact, error) {
	artifact, err := s.artifactRepo.Get(ctx, id, artifactType.Name, artifactType.Version, models.ShowLevelDirect)
	if err != nil {
		if errors.Is(err, utils.ErrArtifactNotFound) {
			return nil, fmt.Errorf("artifact vanished after write: %w", err)
		}
		return nil, err
	}
	return artifact, nil
}
