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
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Artifact is a typed, versioned metadata record. Scalar, list and map
// properties are described by the artifact type's attribute schema; blobs
// hold references into the external blob store; dependencies link to other
// artifact ids by relation name.
type Artifact struct {
	ID          uuid.UUID `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name" json:"name"`
	Version     string    `gorm:"column:version" json:"version"`
	TypeName    string    `gorm:"column:type_name" json:"type_name"`
	TypeVersion string    `gorm:"column:type_version" json:"type_version"`
	Visibility  string    `gorm:"column:visibility" json:"visibility"`
	State       string    `gorm:"column:state" json:"state"`
	Owner       string    `gorm:"column:owner" json:"owner"`
	Scope       string    `gorm:"column:scope" json:"scope"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`

	Tags         StringList    `gorm:"column:tags;type:text" json:"tags"`
	Properties   PropertyMap   `gorm:"column:properties;type:text" json:"properties"`
	Blobs        BlobMap       `gorm:"column:blobs;type:text" json:"blobs"`
	Dependencies DependencyMap `gorm:"column:dependencies;type:text" json:"dependencies"`

	// DependencyObjects holds materialized dependency artifacts when the
	// repository expands the record at ShowLevelDirect or deeper. Never
	// persisted.
	DependencyObjects map[string][]*Artifact `gorm:"-" json:"-"`
}

// TableName returns the table name for the Artifact model
func (Artifact) TableName() string {
	return "artifacts"
}

// Artifact state constants
const (
	StateCreating    = "creating"
	StateActive      = "active"
	StateDeactivated = "deactivated"
	StateDeleted     = "deleted"
)

// Artifact visibility constants
const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Clone returns a deep copy of the artifact. Patch application mutates the
// copy so that a failing edit sequence leaves the original untouched.
func (a *Artifact) Clone() *Artifact {
	c := *a
	c.Tags = append(StringList(nil), a.Tags...)
	c.Properties = make(PropertyMap, len(a.Properties))
	for k, v := range a.Properties {
		c.Properties[k] = clonePropertyValue(v)
	}
	c.Blobs = make(BlobMap, len(a.Blobs))
	for k, v := range a.Blobs {
		c.Blobs[k] = v.clone()
	}
	c.Dependencies = make(DependencyMap, len(a.Dependencies))
	for k, v := range a.Dependencies {
		c.Dependencies[k] = append([]string(nil), v...)
	}
	c.DependencyObjects = nil
	return &c
}

func clonePropertyValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = clonePropertyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = clonePropertyValue(e)
		}
		return out
	default:
		return v
	}
}

// BlobRef is a reference to one stored binary attachment. Location and
// Checksum are assigned by the blob store after the bytes are committed.
type BlobRef struct {
	Location string `json:"location,omitempty"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum,omitempty"`
}

// BlobValue is the value of one blob-kind attribute: either a single
// reference (scalar attribute) or an ordered collection (list attribute).
// The attribute schema decides which form is in use; the zero value means
// the attribute is absent.
type BlobValue struct {
	Ref  *BlobRef  `json:"ref,omitempty"`
	List []BlobRef `json:"list,omitempty"`
}

func (v BlobValue) clone() BlobValue {
	c := BlobValue{}
	if v.Ref != nil {
		ref := *v.Ref
		c.Ref = &ref
	}
	if v.List != nil {
		c.List = append([]BlobRef(nil), v.List...)
	}
	return c
}

// StringList is a string slice stored as a JSON text column.
type StringList []string

// PropertyMap maps attribute name to its typed value, stored as a JSON text
// column. Values are schema-coerced before they enter the map.
type PropertyMap map[string]any

// BlobMap maps blob attribute name to its value, stored as a JSON text column.
type BlobMap map[string]BlobValue

// DependencyMap maps relation name to an ordered sequence of artifact ids,
// stored as a JSON text column.
type DependencyMap map[string][]string

func (l StringList) Value() (driver.Value, error)    { return jsonColumnValue(l) }
func (l *StringList) Scan(src any) error             { return jsonColumnScan(src, l) }
func (m PropertyMap) Value() (driver.Value, error)   { return jsonColumnValue(m) }
func (m *PropertyMap) Scan(src any) error            { return jsonColumnScan(src, m) }
func (m BlobMap) Value() (driver.Value, error)       { return jsonColumnValue(m) }
func (m *BlobMap) Scan(src any) error                { return jsonColumnScan(src, m) }
func (m DependencyMap) Value() (driver.Value, error) { return jsonColumnValue(m) }
func (m *DependencyMap) Scan(src any) error          { return jsonColumnScan(src, m) }

func jsonColumnValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON column: %w", err)
	}
	return string(data), nil
}

func jsonColumnScan(src any, dst any) error {
	if src == nil {
		return nil
	}
	var data []byte
	switch t := src.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return fmt.Errorf("unsupported JSON column source type %T", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// HasTag reports whether the artifact carries the given tag.
func (a *Artifact) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
