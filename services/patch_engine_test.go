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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/typeregistry"
	"github.com/openmetahub/artifact-registry-service/utils"
)

func sampleArtifact() *models.Artifact {
	return &models.Artifact{
		ID:          uuid.New(),
		Name:        "demo",
		Version:     "1.0.0",
		TypeName:    "sample",
		TypeVersion: "1.0.0",
		Visibility:  models.VisibilityPrivate,
		State:       models.StateCreating,
		Properties: models.PropertyMap{
			"size":    int64(42),
			"mirrors": []any{"https://a.example", "https://b.example"},
			"labels":  map[string]any{"region": "eu"},
		},
		Tags:         models.StringList{"stable"},
		Blobs:        models.BlobMap{},
		Dependencies: models.DependencyMap{"requires": {"dep-1"}},
	}
}

func TestPatchEngineScalar(t *testing.T) {
	engine := NewPatchEngine()
	artifactType := typeregistry.SampleType()

	t.Run("add sets an absent scalar", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "description", Value: "hello"},
		})
		require.NoError(t, err)
		assert.Equal(t, "hello", patched.Properties["description"])
	})

	t.Run("add on an occupied scalar conflicts", func(t *testing.T) {
		artifact := sampleArtifact()
		_, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "size", Value: int64(7)},
		})
		assert.ErrorIs(t, err, utils.ErrDuplicateProperty)
	})

	t.Run("replace overwrites an existing scalar", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "size", Value: int64(7)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), patched.Properties["size"])
	})

	t.Run("replace on an absent scalar fails", func(t *testing.T) {
		artifact := sampleArtifact()
		_, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "description", Value: "hello"},
		})
		assert.ErrorIs(t, err, utils.ErrPropertyNotFound)
	})

	t.Run("remove clears a scalar", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpRemove, Path: "size"},
		})
		require.NoError(t, err)
		_, present := patched.Properties["size"]
		assert.False(t, present)
	})

	t.Run("value must coerce to the declared type", func(t *testing.T) {
		artifact := sampleArtifact()
		_, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "size", Value: "x"},
		})
		assert.ErrorIs(t, err, utils.ErrInvalidPropertyValue)
	})

	t.Run("integral float coerces to int", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "size", Value: float64(9)},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(9), patched.Properties["size"])
	})
}

func TestPatchEngineList(t *testing.T) {
	engine := NewPatchEngine()
	artifactType := typeregistry.SampleType()

	t.Run("add without index appends", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "mirrors", Value: "https://c.example"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{"https://a.example", "https://b.example", "https://c.example"}, patched.Properties["mirrors"])
	})

	t.Run("add with index inserts before it", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "mirrors/0", Value: "https://c.example"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{"https://c.example", "https://a.example", "https://b.example"}, patched.Properties["mirrors"])
	})

	t.Run("add with index equal to length appends", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "mirrors/2", Value: "https://c.example"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{"https://a.example", "https://b.example", "https://c.example"}, patched.Properties["mirrors"])
	})

	t.Run("add past the length is out of range", func(t *testing.T) {
		artifact := sampleArtifact()
		_, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "mirrors/3", Value: "https://c.example"},
		})
		assert.ErrorIs(t, err, utils.ErrIndexOutOfRange)
	})

	t.Run("replace at index overwrites in place", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "mirrors/1", Value: "https://c.example"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{"https://a.example", "https://c.example"}, patched.Properties["mirrors"])
	})

	t.Run("replace at the length is out of range", func(t *testing.T) {
		artifact := sampleArtifact()
		_, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "mirrors/2", Value: "https://c.example"},
		})
		assert.ErrorIs(t, err, utils.ErrIndexOutOfRange)
	})

	t.Run("remove at index shifts the tail down", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpRemove, Path: "mirrors/0"},
		})
		require.NoError(t, err)
		assert.Equal(t, []any{"https://b.example"}, patched.Properties["mirrors"])
	})

	t.Run("non-numeric index is an invalid path", func(t *testing.T) {
		artifact := sampleArtifact()
		_, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpRemove, Path: "mirrors/first"},
		})
		assert.ErrorIs(t, err, utils.ErrInvalidPath)
	})
}

func TestPatchEngineMap(t *testing.T) {
	engine := NewPatchEngine()
	artifactType := typeregistry.SampleType()

	t.Run("add a new key", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "labels/tier", Value: "gold"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"region": "eu", "tier": "gold"}, patched.Properties["labels"])
	})

	t.Run("add on an occupied key conflicts", func(t *testing.T) {
		artifact := sampleArtifact()
		_, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "labels/region", Value: "us"},
		})
		assert.ErrorIs(t, err, utils.ErrDuplicateProperty)
	})

	t.Run("replace an existing key", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "labels/region", Value: "us"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"region": "us"}, patched.Properties["labels"])
	})

	t.Run("removing the last key clears the attribute", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpRemove, Path: "labels/region"},
		})
		require.NoError(t, err)
		_, present := patched.Properties["labels"]
		assert.False(t, present)
	})

	t.Run("bare path replaces the whole map", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "labels", Value: map[string]any{"tier": "gold"}},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"tier": "gold"}, patched.Properties["labels"])
	})
}

func TestPatchEngineSequence(t *testing.T) {
	engine := NewPatchEngine()
	artifactType := typeregistry.SampleType()

	t.Run("a failing edit aborts the whole sequence", func(t *testing.T) {
		artifact := sampleArtifact()
		_, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "size", Value: int64(7)},
			{Op: models.PatchOpReplace, Path: "nope", Value: "x"},
		})
		require.Error(t, err)
		// original untouched
		assert.Equal(t, int64(42), artifact.Properties["size"])
	})

	t.Run("sequenced edits equal their composed result", func(t *testing.T) {
		artifact := sampleArtifact()
		patched, err := engine.Apply(artifact, artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "description", Value: "v1"},
			{Op: models.PatchOpReplace, Path: "description", Value: "v2"},
			{Op: models.PatchOpAdd, Path: "mirrors/0", Value: "https://c.example"},
			{Op: models.PatchOpRemove, Path: "mirrors/1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "v2", patched.Properties["description"])
		assert.Equal(t, []any{"https://c.example", "https://b.example"}, patched.Properties["mirrors"])
	})
}

func TestPatchEnginePaths(t *testing.T) {
	engine := NewPatchEngine()
	artifactType := typeregistry.SampleType()

	cases := []struct {
		name     string
		change   models.PatchChange
		sentinel error
	}{
		{"unknown attribute", models.PatchChange{Op: models.PatchOpAdd, Path: "bogus", Value: "x"}, utils.ErrInvalidPath},
		{"blob attribute rejected", models.PatchChange{Op: models.PatchOpReplace, Path: "image", Value: "x"}, utils.ErrInvalidPath},
		{"empty path", models.PatchChange{Op: models.PatchOpAdd, Path: "", Value: "x"}, utils.ErrInvalidPath},
		{"too deep", models.PatchChange{Op: models.PatchOpAdd, Path: "labels/a/b", Value: "x"}, utils.ErrInvalidPath},
		{"state is immutable", models.PatchChange{Op: models.PatchOpReplace, Path: "state", Value: "active"}, utils.ErrInvalidPath},
		{"scalar has no sub-path", models.PatchChange{Op: models.PatchOpReplace, Path: "size/0", Value: int64(1)}, utils.ErrInvalidPath},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Apply(sampleArtifact(), artifactType, []models.PatchChange{tc.change})
			assert.ErrorIs(t, err, tc.sentinel)
		})
	}
}

func TestPatchEngineTagsAndDependencies(t *testing.T) {
	engine := NewPatchEngine()
	artifactType := typeregistry.SampleType()

	t.Run("replace tags wholesale", func(t *testing.T) {
		patched, err := engine.Apply(sampleArtifact(), artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "tags", Value: []any{"beta", "edge"}},
		})
		require.NoError(t, err)
		assert.Equal(t, models.StringList{"beta", "edge"}, patched.Tags)
	})

	t.Run("add a dependency relation", func(t *testing.T) {
		patched, err := engine.Apply(sampleArtifact(), artifactType, []models.PatchChange{
			{Op: models.PatchOpAdd, Path: "dependencies/extends", Value: []any{"dep-2"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"dep-2"}, patched.Dependencies["extends"])
	})

	t.Run("replace an absent relation fails", func(t *testing.T) {
		_, err := engine.Apply(sampleArtifact(), artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "dependencies/extends", Value: []any{"dep-2"}},
		})
		assert.ErrorIs(t, err, utils.ErrDependencyNotFound)
	})

	t.Run("remove a relation", func(t *testing.T) {
		patched, err := engine.Apply(sampleArtifact(), artifactType, []models.PatchChange{
			{Op: models.PatchOpRemove, Path: "dependencies/requires"},
		})
		require.NoError(t, err)
		_, present := patched.Dependencies["requires"]
		assert.False(t, present)
	})

	t.Run("rename header attributes", func(t *testing.T) {
		patched, err := engine.Apply(sampleArtifact(), artifactType, []models.PatchChange{
			{Op: models.PatchOpReplace, Path: "name", Value: "renamed"},
			{Op: models.PatchOpReplace, Path: "visibility", Value: models.VisibilityPublic},
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", patched.Name)
		assert.Equal(t, models.VisibilityPublic, patched.Visibility)
	})
}
