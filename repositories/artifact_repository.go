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

package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gorm.io/gorm"

	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/utils"
)

// ArtifactRepository defines the interface for artifact data access.
// Get and List materialize dependency objects to the requested show level.
type ArtifactRepository interface {
	Get(ctx context.Context, id, typeName, typeVersion string, level models.ShowLevel) (*models.Artifact, error)
	List(ctx context.Context, q models.QuerySpec, level models.ShowLevel) ([]*models.Artifact, error)
	Add(ctx context.Context, artifact *models.Artifact) error
	Save(ctx context.Context, artifact *models.Artifact) error
	Publish(ctx context.Context, artifact *models.Artifact) error
	Remove(ctx context.Context, artifact *models.Artifact) error
}

// ArtifactRepo implements ArtifactRepository using GORM
type ArtifactRepo struct {
	db *gorm.DB
}

// NewArtifactRepo creates a new artifact repository
func NewArtifactRepo(db *gorm.DB) ArtifactRepository {
	return &ArtifactRepo{db: db}
}

// Get retrieves an artifact by id, optionally pinned to a type, and expands
// its dependency graph to the requested show level.
func (r *ArtifactRepo) Get(ctx context.Context, id, typeName, typeVersion string, level models.ShowLevel) (*models.Artifact, error) {
	artifact, err := r.fetch(ctx, id, typeName, typeVersion)
	if err != nil {
		return nil, err
	}
	visited := map[string]struct{}{artifact.ID.String(): {}}
	if err := r.expand(ctx, artifact, level, visited); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (r *ArtifactRepo) fetch(ctx context.Context, id, typeName, typeVersion string) (*models.Artifact, error) {
	tx := r.db.WithContext(ctx).Where("id = ?", id)
	if typeName != "" {
		tx = tx.Where("type_name = ?", typeName)
	}
	if typeVersion != "" {
		tx = tx.Where("type_version = ?", typeVersion)
	}
	var artifact models.Artifact
	if err := tx.First(&artifact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrArtifactNotFound
		}
		return nil, err
	}
	return &artifact, nil
}

// expand materializes dependency objects. At ShowLevelDirect each direct
// dependency is loaded with ids only; at ShowLevelTransitive the walk
// continues until no new ids appear. An id already on the expansion path is
// never re-expanded, so cyclic graphs terminate.
func (r *ArtifactRepo) expand(ctx context.Context, artifact *models.Artifact, level models.ShowLevel, visited map[string]struct{}) error {
	if level < models.ShowLevelDirect || len(artifact.Dependencies) == 0 {
		return nil
	}
	artifact.DependencyObjects = map[string][]*models.Artifact{}
	for relation, ids := range artifact.Dependencies {
		for _, depID := range ids {
			if _, seen := visited[depID]; seen {
				continue
			}
			dep, err := r.fetch(ctx, depID, "", "")
			if err != nil {
				if errors.Is(err, utils.ErrArtifactNotFound) {
					// dangling reference, leave the raw id in place
					continue
				}
				return err
			}
			visited[depID] = struct{}{}
			if level == models.ShowLevelTransitive {
				if err := r.expand(ctx, dep, models.ShowLevelTransitive, visited); err != nil {
					return err
				}
			}
			artifact.DependencyObjects[relation] = append(artifact.DependencyObjects[relation], dep)
		}
	}
	return nil
}

// List retrieves artifacts matching the query specification. Type and state
// are narrowed in SQL; attribute filters, tag membership, multi-key sorting
// and marker pagination are applied over the scanned rows, since property
// values live in JSON columns.
func (r *ArtifactRepo) List(ctx context.Context, q models.QuerySpec, level models.ShowLevel) ([]*models.Artifact, error) {
	tx := r.db.WithContext(ctx).Where("type_name = ?", q.TypeName)
	if q.TypeVersion != "" {
		tx = tx.Where("type_version = ?", q.TypeVersion)
	}
	var rows []*models.Artifact
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	filtered := rows[:0]
	for _, artifact := range rows {
		ok, err := matchesFilters(artifact, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok && matchesTags(artifact, q.Tags) {
			filtered = append(filtered, artifact)
		}
	}

	sortArtifacts(filtered, q.SortKeys)

	if q.Marker != "" {
		after := -1
		for i, artifact := range filtered {
			if artifact.ID.String() == q.Marker {
				after = i
				break
			}
		}
		if after == -1 {
			return nil, fmt.Errorf("%w: marker %q does not match any result", utils.ErrInvalidInput, q.Marker)
		}
		filtered = filtered[after+1:]
	}

	if q.Limit >= 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}

	for _, artifact := range filtered {
		visited := map[string]struct{}{artifact.ID.String(): {}}
		if err := r.expand(ctx, artifact, level, visited); err != nil {
			return nil, err
		}
	}
	return filtered, nil
}

// Add inserts a new artifact
func (r *ArtifactRepo) Add(ctx context.Context, artifact *models.Artifact) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Artifact{}).
		Where("type_name = ? AND name = ? AND version = ?", artifact.TypeName, artifact.Name, artifact.Version).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.ErrDuplicateArtifact
	}
	now := time.Now().UTC()
	artifact.CreatedAt = now
	artifact.UpdatedAt = now
	return r.db.WithContext(ctx).Create(artifact).Error
}

// Save persists all mutable fields of an existing artifact
func (r *ArtifactRepo) Save(ctx context.Context, artifact *models.Artifact) error {
	artifact.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.Artifact{}).
		Where("id = ?", artifact.ID).
		Updates(map[string]interface{}{
			"name":         artifact.Name,
			"version":      artifact.Version,
			"visibility":   artifact.Visibility,
			"state":        artifact.State,
			"owner":        artifact.Owner,
			"scope":        artifact.Scope,
			"tags":         artifact.Tags,
			"properties":   artifact.Properties,
			"blobs":        artifact.Blobs,
			"dependencies": artifact.Dependencies,
			"updated_at":   artifact.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrArtifactNotFound
	}
	return nil
}

// Publish transitions the artifact to the active state. The caller is
// responsible for validating the transition beforehand.
func (r *ArtifactRepo) Publish(ctx context.Context, artifact *models.Artifact) error {
	artifact.State = models.StateActive
	artifact.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.Artifact{}).
		Where("id = ?", artifact.ID).
		Updates(map[string]interface{}{
			"state":      artifact.State,
			"updated_at": artifact.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrArtifactNotFound
	}
	return nil
}

// Remove marks the artifact deleted and drops the row
func (r *ArtifactRepo) Remove(ctx context.Context, artifact *models.Artifact) error {
	artifact.State = models.StateDeleted
	result := r.db.WithContext(ctx).Where("id = ?", artifact.ID).Delete(&models.Artifact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrArtifactNotFound
	}
	return nil
}

func matchesFilters(artifact *models.Artifact, filters map[string]models.Filter) (bool, error) {
	for name, filter := range filters {
		if name == "name" && filter.Operator == models.FilterOpEQ {
			if !matchesNameFilter(artifact, filter.Value) {
				return false, nil
			}
			continue
		}
		value, present := fieldValue(artifact, name)
		switch filter.Operator {
		case models.FilterOpEQ:
			if !present || !equalValues(value, filter.Value) {
				return false, nil
			}
		case models.FilterOpNEQ:
			if present && equalValues(value, filter.Value) {
				return false, nil
			}
		case models.FilterOpIN:
			if !present || !containsValue(value, filter.Value) {
				return false, nil
			}
		case models.FilterOpLT, models.FilterOpLE, models.FilterOpGT, models.FilterOpGE:
			if !present {
				return false, nil
			}
			cmp, ok := compareValues(value, filter.Value)
			if !ok {
				return false, fmt.Errorf("%w: cannot compare values for filter %q", utils.ErrInvalidInput, name)
			}
			if !orderMatches(filter.Operator, cmp) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("%w: unsupported filter operator %q", utils.ErrInvalidInput, filter.Operator)
		}
	}
	return true, nil
}

func orderMatches(op models.FilterOp, cmp int) bool {
	switch op {
	case models.FilterOpLT:
		return cmp < 0
	case models.FilterOpLE:
		return cmp <= 0
	case models.FilterOpGT:
		return cmp > 0
	case models.FilterOpGE:
		return cmp >= 0
	default:
		return false
	}
}

// matchesNameFilter handles both forms a name filter can take: a plain
// value compares against the artifact name, while the structural form a
// map-attribute filter is rewritten into ("attr.key") matches artifacts
// whose map attribute contains that key.
func matchesNameFilter(artifact *models.Artifact, value any) bool {
	raw, ok := value.(string)
	if !ok {
		return equalValues(artifact.Name, value)
	}
	if artifact.Name == raw {
		return true
	}
	attr, key, found := strings.Cut(raw, ".")
	if !found {
		return false
	}
	entries, ok := artifact.Properties[attr].(map[string]any)
	if !ok {
		return false
	}
	_, ok = entries[key]
	return ok
}

func matchesTags(artifact *models.Artifact, tags []string) bool {
	for _, tag := range tags {
		if !artifact.HasTag(tag) {
			return false
		}
	}
	return true
}

// fieldValue resolves a filter or sort key against the artifact: its own
// scalar columns first, then the property map.
func fieldValue(artifact *models.Artifact, name string) (any, bool) {
	switch name {
	case "id":
		return artifact.ID.String(), true
	case "name":
		return artifact.Name, true
	case "version":
		return artifact.Version, true
	case "type_name":
		return artifact.TypeName, true
	case "type_version":
		return artifact.TypeVersion, true
	case "visibility":
		return artifact.Visibility, true
	case "state", "status":
		return artifact.State, true
	case "owner":
		return artifact.Owner, true
	case "scope":
		return artifact.Scope, true
	case "created_at":
		return artifact.CreatedAt, true
	case "updated_at":
		return artifact.UpdatedAt, true
	default:
		value, ok := artifact.Properties[name]
		return value, ok
	}
}

func equalValues(a, b any) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return false
}

// containsValue implements IN: membership when the field is a list, plain
// equality otherwise.
func containsValue(field, needle any) bool {
	if list, ok := field.([]any); ok {
		for _, item := range list {
			if equalValues(item, needle) {
				return true
			}
		}
		return false
	}
	return equalValues(field, needle)
}

// compareValues compares two values of the same declared storage type.
// Numeric values are widened so an int64 loaded from JSON compares with a
// float64 filter value.
func compareValues(a, b any) (int, bool) {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	switch ta := a.(type) {
	case string:
		tb, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case ta < tb:
			return -1, true
		case ta > tb:
			return 1, true
		default:
			return 0, true
		}
	case bool:
		tb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ta == tb:
			return 0, true
		case !ta:
			return -1, true
		default:
			return 1, true
		}
	case time.Time:
		tb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case ta.Before(tb):
			return -1, true
		case ta.After(tb):
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// sortArtifacts orders rows by the sort key sequence. The version key is
// compared as a semantic version so "1.10.0" sorts above "1.9.0".
func sortArtifacts(rows []*models.Artifact, keys []models.SortSpec) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range keys {
			_, okA := fieldValue(rows[i], key.Key)
			_, okB := fieldValue(rows[j], key.Key)
			if okA != okB {
				// absent values sort last regardless of direction
				return okA
			}
			if !okA {
				continue
			}
			cmp := compareByKey(rows[i], rows[j], key.Key)
			if cmp == 0 {
				continue
			}
			if key.Direction == models.SortDesc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareByKey(a, b *models.Artifact, key string) int {
	if key == "version" {
		va, errA := semver.NewVersion(a.Version)
		vb, errB := semver.NewVersion(b.Version)
		if errA == nil && errB == nil {
			return va.Compare(vb)
		}
	}
	valueA, _ := fieldValue(a, key)
	valueB, _ := fieldValue(b, key)
	if cmp, ok := compareValues(valueA, valueB); ok {
		return cmp
	}
	return 0
}
