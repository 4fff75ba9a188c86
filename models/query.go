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

package models

import (
	"fmt"
	"strings"
)

// FilterOp is a comparison operator in a typed filter.
type FilterOp string

const (
	FilterOpEQ  FilterOp = "EQ"
	FilterOpNEQ FilterOp = "NEQ"
	FilterOpIN  FilterOp = "IN"
	FilterOpLT  FilterOp = "LT"
	FilterOpLE  FilterOp = "LE"
	FilterOpGT  FilterOp = "GT"
	FilterOpGE  FilterOp = "GE"
)

// ParseFilterOp parses a case-insensitive operator name.
func ParseFilterOp(s string) (FilterOp, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EQ":
		return FilterOpEQ, nil
	case "NEQ":
		return FilterOpNEQ, nil
	case "IN":
		return FilterOpIN, nil
	case "LT":
		return FilterOpLT, nil
	case "LE":
		return FilterOpLE, nil
	case "GT":
		return FilterOpGT, nil
	case "GE":
		return FilterOpGE, nil
	default:
		return "", fmt.Errorf("unsupported filter operator %q", s)
	}
}

// Filter is one validated, type-coerced comparison against an attribute.
// StorageType records the attribute's declared storage type so the
// repository can compare without re-inspecting the schema.
type Filter struct {
	Operator    FilterOp
	Value       any
	StorageType string
}

// SortSpec is one (key, direction) pair; the first entry of a sort sequence
// is the primary key.
type SortSpec struct {
	Key       string
	Direction string
}

// Sort direction constants
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// QuerySpec is the validated result of parsing raw list parameters. Tag
// membership filters are carried separately from attribute filters so that
// both survive in the same query.
type QuerySpec struct {
	TypeName    string
	TypeVersion string
	Filters     map[string]Filter
	Tags        []string
	SortKeys    []SortSpec
	Limit       int
	Marker      string
}

// DefaultQuerySpec returns a query with the default sort ordering applied.
func DefaultQuerySpec(typeName string, maxLimit int) QuerySpec {
	return QuerySpec{
		TypeName: typeName,
		Filters:  map[string]Filter{},
		SortKeys: []SortSpec{{Key: "created_at", Direction: SortDesc}},
		Limit:    maxLimit,
	}
}
