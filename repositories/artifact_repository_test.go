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
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/utils"
)

func newTestRepo(t *testing.T) ArtifactRepository {
	t.Helper()
	handle, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, handle.AutoMigrate(&models.Artifact{}))
	return NewArtifactRepo(handle)
}

func seedArtifact(t *testing.T, repo ArtifactRepository, name, version string, mutate func(*models.Artifact)) *models.Artifact {
	t.Helper()
	artifact := &models.Artifact{
		ID:           uuid.New(),
		Name:         name,
		Version:      version,
		TypeName:     "sample",
		TypeVersion:  "1.0.0",
		Visibility:   models.VisibilityPrivate,
		State:        models.StateCreating,
		Tags:         models.StringList{},
		Properties:   models.PropertyMap{},
		Blobs:        models.BlobMap{},
		Dependencies: models.DependencyMap{},
	}
	if mutate != nil {
		mutate(artifact)
	}
	require.NoError(t, repo.Add(context.Background(), artifact))
	return artifact
}

func TestArtifactRepoCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	artifact := seedArtifact(t, repo, "demo", "1.0.0", func(a *models.Artifact) {
		a.Properties = models.PropertyMap{"size": int64(5)}
		a.Tags = models.StringList{"stable"}
	})

	t.Run("get round-trips JSON columns", func(t *testing.T) {
		got, err := repo.Get(ctx, artifact.ID.String(), "sample", "1.0.0", models.ShowLevelBasic)
		require.NoError(t, err)
		assert.Equal(t, "demo", got.Name)
		assert.Equal(t, models.StringList{"stable"}, got.Tags)
		// sqlite JSON round-trip turns int64 into float64
		assert.EqualValues(t, 5, got.Properties["size"])
	})

	t.Run("get with wrong type is not found", func(t *testing.T) {
		_, err := repo.Get(ctx, artifact.ID.String(), "other", "", models.ShowLevelBasic)
		assert.ErrorIs(t, err, utils.ErrArtifactNotFound)
	})

	t.Run("duplicate name and version conflicts", func(t *testing.T) {
		dup := &models.Artifact{ID: uuid.New(), Name: "demo", Version: "1.0.0", TypeName: "sample", TypeVersion: "1.0.0"}
		assert.ErrorIs(t, repo.Add(ctx, dup), utils.ErrDuplicateArtifact)
	})

	t.Run("save persists mutations", func(t *testing.T) {
		got, err := repo.Get(ctx, artifact.ID.String(), "", "", models.ShowLevelNone)
		require.NoError(t, err)
		got.Properties["size"] = int64(9)
		got.State = models.StateActive
		require.NoError(t, repo.Save(ctx, got))

		reloaded, err := repo.Get(ctx, artifact.ID.String(), "", "", models.ShowLevelNone)
		require.NoError(t, err)
		assert.EqualValues(t, 9, reloaded.Properties["size"])
		assert.Equal(t, models.StateActive, reloaded.State)
	})

	t.Run("publish flips the state", func(t *testing.T) {
		other := seedArtifact(t, repo, "pub", "1.0.0", nil)
		require.NoError(t, repo.Publish(ctx, other))
		got, err := repo.Get(ctx, other.ID.String(), "", "", models.ShowLevelNone)
		require.NoError(t, err)
		assert.Equal(t, models.StateActive, got.State)
	})

	t.Run("remove drops the row", func(t *testing.T) {
		victim := seedArtifact(t, repo, "victim", "1.0.0", nil)
		require.NoError(t, repo.Remove(ctx, victim))
		assert.Equal(t, models.StateDeleted, victim.State)
		_, err := repo.Get(ctx, victim.ID.String(), "", "", models.ShowLevelNone)
		assert.ErrorIs(t, err, utils.ErrArtifactNotFound)
	})

	t.Run("save of a missing row is not found", func(t *testing.T) {
		ghost := &models.Artifact{ID: uuid.New()}
		assert.ErrorIs(t, repo.Save(ctx, ghost), utils.ErrArtifactNotFound)
	})
}

func TestArtifactRepoList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		i := i
		seedArtifact(t, repo, fmt.Sprintf("item-%d", i), fmt.Sprintf("1.%d.0", i), func(a *models.Artifact) {
			a.Properties = models.PropertyMap{"size": int64(i * 10)}
			if i%2 == 0 {
				a.Tags = models.StringList{"even"}
			}
		})
	}

	baseQuery := func() models.QuerySpec {
		return models.QuerySpec{
			TypeName: "sample",
			Filters:  map[string]models.Filter{},
			SortKeys: []models.SortSpec{{Key: "name", Direction: models.SortAsc}},
			Limit:    1000,
		}
	}

	t.Run("EQ filter on a property", func(t *testing.T) {
		q := baseQuery()
		q.Filters["size"] = models.Filter{Operator: models.FilterOpEQ, Value: int64(30), StorageType: "int"}
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "item-3", got[0].Name)
	})

	t.Run("range filters compare numerically", func(t *testing.T) {
		q := baseQuery()
		q.Filters["size"] = models.Filter{Operator: models.FilterOpGE, Value: int64(40), StorageType: "int"}
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "item-4", got[0].Name)
		assert.Equal(t, "item-5", got[1].Name)
	})

	t.Run("tag filter requires membership", func(t *testing.T) {
		q := baseQuery()
		q.Tags = []string{"even"}
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("tag and attribute filters are additive", func(t *testing.T) {
		q := baseQuery()
		q.Tags = []string{"even"}
		q.Filters["size"] = models.Filter{Operator: models.FilterOpGT, Value: int64(30), StorageType: "int"}
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "item-4", got[0].Name)
	})

	t.Run("version sorts semantically", func(t *testing.T) {
		q := baseQuery()
		q.SortKeys = []models.SortSpec{{Key: "version", Direction: models.SortDesc}}
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		assert.Equal(t, "1.5.0", got[0].Version)
		assert.Equal(t, "1.1.0", got[len(got)-1].Version)
	})

	t.Run("limit truncates and marker resumes", func(t *testing.T) {
		q := baseQuery()
		q.Limit = 2
		first, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		require.Len(t, first, 2)

		q.Marker = first[1].ID.String()
		second, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		require.Len(t, second, 2)
		assert.Equal(t, "item-3", second[0].Name)
	})

	t.Run("limit zero yields no rows without error", func(t *testing.T) {
		q := baseQuery()
		q.Limit = 0
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown marker is invalid input", func(t *testing.T) {
		q := baseQuery()
		q.Marker = uuid.NewString()
		_, err := repo.List(ctx, q, models.ShowLevelBasic)
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("map attribute filter matches by key", func(t *testing.T) {
		seedArtifact(t, repo, "labeled", "2.0.0", func(a *models.Artifact) {
			a.Properties = models.PropertyMap{"labels": map[string]any{"env": "prod"}}
		})

		q := baseQuery()
		q.Filters["name"] = models.Filter{Operator: models.FilterOpEQ, Value: "labels.env", StorageType: "string"}
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "labeled", got[0].Name)

		q.Filters["name"] = models.Filter{Operator: models.FilterOpEQ, Value: "labels.region", StorageType: "string"}
		got, err = repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("plain name filter still matches exactly", func(t *testing.T) {
		q := baseQuery()
		q.Filters["name"] = models.Filter{Operator: models.FilterOpEQ, Value: "item-3", StorageType: "string"}
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "item-3", got[0].Name)
	})

	t.Run("rows without the sort property order last in both directions", func(t *testing.T) {
		seedArtifact(t, repo, "unsized", "3.0.0", nil)

		// "labeled" and "unsized" carry no size property
		tail := func(got []*models.Artifact) []string {
			require.GreaterOrEqual(t, len(got), 2)
			return []string{got[len(got)-2].Name, got[len(got)-1].Name}
		}

		q := baseQuery()
		q.SortKeys = []models.SortSpec{{Key: "size", Direction: models.SortAsc}}
		got, err := repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		assert.Equal(t, "item-1", got[0].Name)
		assert.ElementsMatch(t, []string{"labeled", "unsized"}, tail(got))

		q.SortKeys = []models.SortSpec{{Key: "size", Direction: models.SortDesc}}
		got, err = repo.List(ctx, q, models.ShowLevelBasic)
		require.NoError(t, err)
		assert.Equal(t, "item-5", got[0].Name)
		assert.ElementsMatch(t, []string{"labeled", "unsized"}, tail(got))
	})
}

func TestArtifactRepoShowLevels(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	leaf := seedArtifact(t, repo, "leaf", "1.0.0", nil)
	mid := seedArtifact(t, repo, "mid", "1.0.0", func(a *models.Artifact) {
		a.Dependencies = models.DependencyMap{"requires": {leaf.ID.String()}}
	})
	root := seedArtifact(t, repo, "root", "1.0.0", func(a *models.Artifact) {
		a.Dependencies = models.DependencyMap{"requires": {mid.ID.String()}}
	})

	t.Run("basic keeps raw ids", func(t *testing.T) {
		got, err := repo.Get(ctx, root.ID.String(), "", "", models.ShowLevelBasic)
		require.NoError(t, err)
		assert.Nil(t, got.DependencyObjects)
	})

	t.Run("direct expands one level only", func(t *testing.T) {
		got, err := repo.Get(ctx, root.ID.String(), "", "", models.ShowLevelDirect)
		require.NoError(t, err)
		require.Len(t, got.DependencyObjects["requires"], 1)
		child := got.DependencyObjects["requires"][0]
		assert.Equal(t, "mid", child.Name)
		assert.Nil(t, child.DependencyObjects)
	})

	t.Run("transitive expands to the leaves", func(t *testing.T) {
		got, err := repo.Get(ctx, root.ID.String(), "", "", models.ShowLevelTransitive)
		require.NoError(t, err)
		child := got.DependencyObjects["requires"][0]
		require.Len(t, child.DependencyObjects["requires"], 1)
		assert.Equal(t, "leaf", child.DependencyObjects["requires"][0].Name)
	})

	t.Run("cyclic graphs terminate", func(t *testing.T) {
		a := seedArtifact(t, repo, "cycle-a", "1.0.0", nil)
		b := seedArtifact(t, repo, "cycle-b", "1.0.0", func(art *models.Artifact) {
			art.Dependencies = models.DependencyMap{"requires": {a.ID.String()}}
		})
		a.Dependencies = models.DependencyMap{"requires": {b.ID.String()}}
		require.NoError(t, repo.Save(ctx, a))

		got, err := repo.Get(ctx, a.ID.String(), "", "", models.ShowLevelTransitive)
		require.NoError(t, err)
		require.Len(t, got.DependencyObjects["requires"], 1)
		child := got.DependencyObjects["requires"][0]
		assert.Equal(t, "cycle-b", child.Name)
		// the id already on the path is not re-expanded
		assert.Empty(t, child.DependencyObjects["requires"])
	})

	t.Run("dangling references are skipped", func(t *testing.T) {
		orphan := seedArtifact(t, repo, "orphan", "1.0.0", func(a *models.Artifact) {
			a.Dependencies = models.DependencyMap{"requires": {uuid.NewString()}}
		})
		got, err := repo.Get(ctx, orphan.ID.String(), "", "", models.ShowLevelTransitive)
		require.NoError(t, err)
		assert.Empty(t, got.DependencyObjects["requires"])
	})
}
