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
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/typeregistry"
	"github.com/openmetahub/artifact-registry-service/utils"
)

// reserved list parameters that never name an attribute filter.
var reservedListParams = map[string]bool{
	utils.QueryParamShowLevel: true,
	utils.QueryParamLimit:     true,
	utils.QueryParamMarker:    true,
	utils.QueryParamSort:      true,
	utils.QueryParamTag:       true,
}

// baseSortKeys are always accepted as sort keys, even when no type schema
// declares them. Keys without a backing column or property sort last.
var baseSortKeys = map[string]bool{
	"id":               true,
	"name":             true,
	"version":          true,
	"state":            true,
	"status":           true,
	"size":             true,
	"container_format": true,
	"disk_format":      true,
	"created_at":       true,
	"updated_at":       true,
}

// QueryBuilder turns raw list parameters into a validated, typed query
// specification against a resolved artifact type's schema.
type QueryBuilder interface {
	Build(artifactType *typeregistry.ArtifactType, params url.Values) (models.QuerySpec, error)
}

type queryBuilder struct {
	maxLimit         int
	defaultDirection string
}

// NewQueryBuilder creates a new query builder. maxLimit caps (and defaults)
// the list page size; defaultDirection applies when a sort entry omits one.
func NewQueryBuilder(maxLimit int, defaultDirection string) QueryBuilder {
	return &queryBuilder{maxLimit: maxLimit, defaultDirection: defaultDirection}
}

func (b *queryBuilder) Build(artifactType *typeregistry.ArtifactType, params url.Values) (models.QuerySpec, error) {
	q := models.QuerySpec{
		TypeName:    artifactType.Name,
		TypeVersion: artifactType.Version,
		Filters:     map[string]models.Filter{},
		Limit:       b.maxLimit,
	}

	limit, err := b.parseLimit(params.Get(utils.QueryParamLimit))
	if err != nil {
		return models.QuerySpec{}, err
	}
	q.Limit = limit
	q.Marker = params.Get(utils.QueryParamMarker)

	sortKeys, err := b.parseSort(artifactType, params.Get(utils.QueryParamSort))
	if err != nil {
		return models.QuerySpec{}, err
	}
	q.SortKeys = sortKeys

	// tag filters merge additively with attribute filters
	for _, tag := range params[utils.QueryParamTag] {
		q.Tags = append(q.Tags, strings.TrimSpace(tag))
	}

	for name, values := range params {
		if reservedListParams[name] || len(values) == 0 {
			continue
		}
		if err := b.parseFilter(artifactType, q.Filters, name, strings.TrimSpace(values[0])); err != nil {
			return models.QuerySpec{}, err
		}
	}

	if version, ok := q.Filters["version"]; ok && version.Value == "latest" {
		if _, ok := q.Filters["name"]; !ok {
			return models.QuerySpec{}, fmt.Errorf("%w: filtering by version 'latest' requires a name filter", utils.ErrInvalidInput)
		}
	}

	return q, nil
}

func (b *queryBuilder) parseLimit(raw string) (int, error) {
	if raw == "" {
		return b.maxLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", utils.ErrInvalidInput)
	}
	if limit > b.maxLimit {
		return 0, fmt.Errorf("%w: limit must not exceed %d", utils.ErrInvalidInput, b.maxLimit)
	}
	return limit, nil
}

func (b *queryBuilder) parseSort(artifactType *typeregistry.ArtifactType, raw string) ([]models.SortSpec, error) {
	if strings.TrimSpace(raw) == "" {
		return []models.SortSpec{{Key: "created_at", Direction: b.defaultDirection}}, nil
	}
	var keys []models.SortSpec
	for _, entry := range strings.Split(strings.TrimSpace(raw), ",") {
		key, direction, hasDirection := strings.Cut(entry, ":")
		key = strings.TrimSpace(key)
		if !hasDirection || strings.TrimSpace(direction) == "" {
			direction = b.defaultDirection
		}
		direction = strings.TrimSpace(direction)
		if direction != models.SortAsc && direction != models.SortDesc {
			return nil, fmt.Errorf("%w: invalid sort direction %q", utils.ErrInvalidInput, direction)
		}
		if err := validateSortKey(artifactType, key); err != nil {
			return nil, err
		}
		keys = append(keys, models.SortSpec{Key: key, Direction: direction})
	}
	return keys, nil
}

func validateSortKey(artifactType *typeregistry.ArtifactType, key string) error {
	if baseSortKeys[key] {
		return nil
	}
	attr, ok := artifactType.AttributeFor(key)
	if !ok {
		return fmt.Errorf("%w: invalid sort key %q", utils.ErrInvalidInput, key)
	}
	if !attr.Sortable || attr.Kind != typeregistry.KindScalar || !attr.Storage.Comparable() {
		return fmt.Errorf("%w: cannot sort by %q", utils.ErrInvalidInput, key)
	}
	return nil
}

// parseFilter validates one attribute filter and adds it to the filter map.
// Map-kind attributes become a structural name filter ("attr.value") instead
// of a typed comparison.
func (b *queryBuilder) parseFilter(artifactType *typeregistry.ArtifactType, filters map[string]models.Filter, name, raw string) error {
	attr, ok := artifactType.AttributeFor(name)
	if !ok {
		return fmt.Errorf("%w: unknown filter attribute %q", utils.ErrInvalidInput, name)
	}
	if !attr.Filterable {
		return fmt.Errorf("%w: filtering by %q is not supported", utils.ErrInvalidInput, name)
	}

	element := attr
	defaultOp := models.FilterOpEQ
	switch attr.Kind {
	case typeregistry.KindList:
		if attr.Element != nil && attr.Element.Kind != typeregistry.KindScalar {
			return fmt.Errorf("%w: filtering by tuple-like fields is not supported", utils.ErrInvalidInput)
		}
		defaultOp = models.FilterOpIN
	case typeregistry.KindMap:
		filters["name"] = models.Filter{
			Operator:    models.FilterOpEQ,
			Value:       name + "." + raw,
			StorageType: string(typeregistry.StorageString),
		}
		return nil
	}

	// Split "op:value"; when the left part is not a recognized operator the
	// colon belongs to the value (URLs, timestamps) and the default applies.
	opToken, value, hasOp := strings.Cut(raw, ":")
	op := defaultOp
	if hasOp {
		if parsed, err := models.ParseFilterOp(opToken); err == nil {
			op = parsed
		} else {
			value = raw
		}
	} else {
		value = raw
	}

	// version 'latest' is resolved later against the repository
	coerced := any(value)
	if !(name == "version" && value == "latest") {
		var err error
		coerced, err = element.CoerceString(value)
		if err != nil {
			return fmt.Errorf("%w: filter %q: %s", utils.ErrInvalidInput, name, err)
		}
	}

	filters[name] = models.Filter{
		Operator:    op,
		Value:       coerced,
		StorageType: string(element.Storage),
	}
	return nil
}
