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
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/typeregistry"
	"github.com/openmetahub/artifact-registry-service/utils"
)

func newTestQueryBuilder() QueryBuilder {
	return NewQueryBuilder(utils.MaxListLimit, models.SortDesc)
}

func TestQueryBuilderLimit(t *testing.T) {
	builder := newTestQueryBuilder()
	artifactType := typeregistry.SampleType()

	t.Run("omitted limit yields the maximum", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{})
		require.NoError(t, err)
		assert.Equal(t, 1000, q.Limit)
	})

	t.Run("zero is accepted", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"limit": {"0"}})
		require.NoError(t, err)
		assert.Equal(t, 0, q.Limit)
	})

	t.Run("negative is rejected", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"limit": {"-1"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("above the maximum is rejected", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"limit": {"1001"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("non-numeric is rejected", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"limit": {"many"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})
}

func TestQueryBuilderSort(t *testing.T) {
	builder := newTestQueryBuilder()
	artifactType := typeregistry.SampleType()

	t.Run("default sort is created_at descending", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{})
		require.NoError(t, err)
		assert.Equal(t, []models.SortSpec{{Key: "created_at", Direction: models.SortDesc}}, q.SortKeys)
	})

	t.Run("multi-key sort with mixed directions", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"sort": {"name:asc,size"}})
		require.NoError(t, err)
		assert.Equal(t, []models.SortSpec{
			{Key: "name", Direction: models.SortAsc},
			{Key: "size", Direction: models.SortDesc},
		}, q.SortKeys)
	})

	t.Run("base keys are always accepted", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"sort": {"status:asc"}})
		require.NoError(t, err)
		assert.Equal(t, "status", q.SortKeys[0].Key)
	})

	t.Run("fixed base keys need no schema backing", func(t *testing.T) {
		bare := &typeregistry.ArtifactType{Name: "bare", Version: "1.0.0"}
		for _, key := range []string{"size", "container_format", "disk_format", "status"} {
			q, err := builder.Build(bare, url.Values{"sort": {key}})
			require.NoError(t, err, "key %q", key)
			assert.Equal(t, key, q.SortKeys[0].Key)
		}
	})

	t.Run("non-sortable schema attribute is rejected", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"sort": {"description"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("list attribute is rejected as sort key", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"sort": {"mirrors"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("bad direction is rejected", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"sort": {"name:sideways"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})
}

func TestQueryBuilderFilters(t *testing.T) {
	builder := newTestQueryBuilder()
	artifactType := typeregistry.SampleType()

	t.Run("bare value defaults to EQ with coercion", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"size": {"42"}})
		require.NoError(t, err)
		assert.Equal(t, models.Filter{Operator: models.FilterOpEQ, Value: int64(42), StorageType: "int"}, q.Filters["size"])
	})

	t.Run("explicit operator prefix", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"size": {"gt:10"}})
		require.NoError(t, err)
		assert.Equal(t, models.FilterOpGT, q.Filters["size"].Operator)
		assert.Equal(t, int64(10), q.Filters["size"].Value)
	})

	t.Run("list attribute defaults to IN", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"mirrors": {"https://a.example"}})
		require.NoError(t, err)
		assert.Equal(t, models.FilterOpIN, q.Filters["mirrors"].Operator)
		assert.Equal(t, "https://a.example", q.Filters["mirrors"].Value)
	})

	t.Run("status alias resolves as a base filter", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"status": {"active"}})
		require.NoError(t, err)
		assert.Equal(t, models.Filter{Operator: models.FilterOpEQ, Value: "active", StorageType: "string"}, q.Filters["status"])
	})

	t.Run("map attribute becomes a structural name filter", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"labels": {"region"}})
		require.NoError(t, err)
		assert.Equal(t, models.Filter{Operator: models.FilterOpEQ, Value: "labels.region", StorageType: "string"}, q.Filters["name"])
	})

	t.Run("coercion failure is a validation error", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"size": {"very-big"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("coercion is idempotent for string attributes", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"name": {"demo"}})
		require.NoError(t, err)
		assert.Equal(t, "demo", q.Filters["name"].Value)
	})

	t.Run("unknown attribute is rejected", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"bogus": {"1"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("unrecognized operator prefix stays part of the value", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"name": {"like:demo"}})
		require.NoError(t, err)
		assert.Equal(t, models.Filter{Operator: models.FilterOpEQ, Value: "like:demo", StorageType: "string"}, q.Filters["name"])
	})

	t.Run("colon values coerce whole for typed attributes", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"size": {"big:42"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})
}

func TestQueryBuilderTags(t *testing.T) {
	builder := newTestQueryBuilder()
	artifactType := typeregistry.SampleType()

	t.Run("tags merge additively with attribute filters", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{
			"tag":  {"stable", "signed"},
			"size": {"42"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"stable", "signed"}, q.Tags)
		assert.Contains(t, q.Filters, "size")
	})
}

func TestQueryBuilderLatestVersion(t *testing.T) {
	builder := newTestQueryBuilder()
	artifactType := typeregistry.SampleType()

	t.Run("latest without a name filter is rejected", func(t *testing.T) {
		_, err := builder.Build(artifactType, url.Values{"version": {"latest"}})
		assert.ErrorIs(t, err, utils.ErrInvalidInput)
	})

	t.Run("latest with a name filter passes through uncoerced", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"version": {"latest"}, "name": {"demo"}})
		require.NoError(t, err)
		assert.Equal(t, "latest", q.Filters["version"].Value)
	})

	t.Run("marker passes through unmodified", func(t *testing.T) {
		q, err := builder.Build(artifactType, url.Values{"marker": {"opaque-cursor"}})
		require.NoError(t, err)
		assert.Equal(t, "opaque-cursor", q.Marker)
	})
}
