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
	"strconv"
	"strings"

	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/typeregistry"
	"github.com/openmetahub/artifact-registry-service/utils"
)

// PatchEngine applies slash-separated path edits to an artifact's mutable
// attributes. Application is transactional: the engine works on a deep copy
// and hands it back only when every change in the sequence succeeded.
type PatchEngine interface {
	Apply(artifact *models.Artifact, artifactType *typeregistry.ArtifactType, changes []models.PatchChange) (*models.Artifact, error)
}

type patchEngine struct{}

// NewPatchEngine creates a new patch engine
func NewPatchEngine() PatchEngine {
	return &patchEngine{}
}

// Apply runs the change sequence against a clone of the artifact. The clone
// is returned on success; on any failure the error is returned and the
// original artifact is untouched.
func (e *patchEngine) Apply(artifact *models.Artifact, artifactType *typeregistry.ArtifactType, changes []models.PatchChange) (*models.Artifact, error) {
	patched := artifact.Clone()
	for _, change := range changes {
		if err := e.applyOne(patched, artifactType, change); err != nil {
			return nil, err
		}
	}
	return patched, nil
}

func (e *patchEngine) applyOne(artifact *models.Artifact, artifactType *typeregistry.ArtifactType, change models.PatchChange) error {
	attr, sub, err := splitPath(change.Path)
	if err != nil {
		return err
	}

	if attr == "tags" {
		return e.applyTags(artifact, change, sub)
	}
	if attr == "dependencies" {
		return e.applyDependency(artifact, change, sub)
	}

	schema, ok := artifactType.AttributeFor(attr)
	if !ok {
		return fmt.Errorf("%w: unknown attribute %q", utils.ErrInvalidPath, attr)
	}
	if schema.Blob {
		return fmt.Errorf("%w: blob attribute %q cannot be patched", utils.ErrInvalidPath, attr)
	}

	switch attr {
	case "name", "version", "visibility", "owner", "scope":
		if sub != "" {
			return fmt.Errorf("%w: attribute %q has no sub-path", utils.ErrInvalidPath, attr)
		}
		return e.applyHeader(artifact, attr, change)
	case "state", "type_name", "type_version":
		return fmt.Errorf("%w: attribute %q is immutable", utils.ErrInvalidPath, attr)
	}

	switch schema.Kind {
	case typeregistry.KindScalar:
		if sub != "" {
			return fmt.Errorf("%w: scalar attribute %q has no sub-path", utils.ErrInvalidPath, attr)
		}
		return e.applyScalar(artifact, attr, schema, change)
	case typeregistry.KindList:
		return e.applyList(artifact, attr, schema, change, sub)
	case typeregistry.KindMap:
		return e.applyMap(artifact, attr, schema, change, sub)
	default:
		return fmt.Errorf("%w: attribute %q has unsupported kind", utils.ErrInvalidPath, attr)
	}
}

// splitPath splits "attr" or "attr/sub" into its two segments. A leading
// slash is tolerated; deeper nesting is not.
func splitPath(path string) (attr, sub string, err error) {
	p := strings.TrimPrefix(path, "/")
	if p == "" {
		return "", "", fmt.Errorf("%w: empty path", utils.ErrInvalidPath)
	}
	parts := strings.SplitN(p, "/", 3)
	if len(parts) == 3 {
		return "", "", fmt.Errorf("%w: path %q nests too deep", utils.ErrInvalidPath, path)
	}
	attr = parts[0]
	if len(parts) == 2 {
		sub = parts[1]
		if sub == "" {
			return "", "", fmt.Errorf("%w: path %q has an empty segment", utils.ErrInvalidPath, path)
		}
	}
	return attr, sub, nil
}

func (e *patchEngine) applyHeader(artifact *models.Artifact, attr string, change models.PatchChange) error {
	if change.Op == models.PatchOpRemove {
		return fmt.Errorf("%w: attribute %q cannot be removed", utils.ErrInvalidPath, attr)
	}
	value, ok := change.Value.(string)
	if !ok {
		return fmt.Errorf("%w: attribute %q requires a string value", utils.ErrInvalidPropertyValue, attr)
	}
	switch attr {
	case "name":
		artifact.Name = value
	case "version":
		artifact.Version = value
	case "visibility":
		if value != models.VisibilityPrivate && value != models.VisibilityPublic {
			return fmt.Errorf("%w: invalid visibility %q", utils.ErrInvalidPropertyValue, value)
		}
		artifact.Visibility = value
	case "owner":
		artifact.Owner = value
	case "scope":
		artifact.Scope = value
	}
	return nil
}

func (e *patchEngine) applyScalar(artifact *models.Artifact, attr string, schema typeregistry.Attribute, change models.PatchChange) error {
	_, present := artifact.Properties[attr]
	switch change.Op {
	case models.PatchOpAdd:
		if present {
			return fmt.Errorf("%w: attribute %q already has a value", utils.ErrDuplicateProperty, attr)
		}
	case models.PatchOpReplace:
		if !present {
			return fmt.Errorf("%w: attribute %q has no value to replace", utils.ErrPropertyNotFound, attr)
		}
	case models.PatchOpRemove:
		if !present {
			return fmt.Errorf("%w: attribute %q has no value to remove", utils.ErrPropertyNotFound, attr)
		}
		delete(artifact.Properties, attr)
		return nil
	}
	value, err := schema.Coerce(change.Value)
	if err != nil {
		return fmt.Errorf("%w: attribute %q: %s", utils.ErrInvalidPropertyValue, attr, err)
	}
	artifact.Properties[attr] = value
	return nil
}

func (e *patchEngine) applyList(artifact *models.Artifact, attr string, schema typeregistry.Attribute, change models.PatchChange, sub string) error {
	current, _ := artifact.Properties[attr].([]any)

	// bare path: add appends one element, replace overwrites the whole
	// list, remove clears the attribute
	if sub == "" {
		switch change.Op {
		case models.PatchOpAdd:
			value, err := schema.Coerce(change.Value)
			if err != nil {
				return fmt.Errorf("%w: attribute %q: %s", utils.ErrInvalidPropertyValue, attr, err)
			}
			artifact.Properties[attr] = append(current, value)
			return nil
		case models.PatchOpReplace:
			if _, present := artifact.Properties[attr]; !present {
				return fmt.Errorf("%w: attribute %q has no value to replace", utils.ErrPropertyNotFound, attr)
			}
			raw, ok := change.Value.([]any)
			if !ok {
				return fmt.Errorf("%w: attribute %q requires a list value", utils.ErrInvalidPropertyValue, attr)
			}
			list := make([]any, len(raw))
			for i, item := range raw {
				value, err := schema.Coerce(item)
				if err != nil {
					return fmt.Errorf("%w: attribute %q element %d: %s", utils.ErrInvalidPropertyValue, attr, i, err)
				}
				list[i] = value
			}
			artifact.Properties[attr] = list
			return nil
		case models.PatchOpRemove:
			if _, present := artifact.Properties[attr]; !present {
				return fmt.Errorf("%w: attribute %q has no value to remove", utils.ErrPropertyNotFound, attr)
			}
			delete(artifact.Properties, attr)
			return nil
		}
	}

	index, err := strconv.Atoi(sub)
	if err != nil || index < 0 {
		return fmt.Errorf("%w: %q is not a valid list index", utils.ErrInvalidPath, sub)
	}

	switch change.Op {
	case models.PatchOpAdd:
		// insert shifts the tail; index == len appends
		if index > len(current) {
			return fmt.Errorf("%w: index %d exceeds list length %d", utils.ErrIndexOutOfRange, index, len(current))
		}
		value, err := schema.Coerce(change.Value)
		if err != nil {
			return fmt.Errorf("%w: attribute %q: %s", utils.ErrInvalidPropertyValue, attr, err)
		}
		list := make([]any, 0, len(current)+1)
		list = append(list, current[:index]...)
		list = append(list, value)
		list = append(list, current[index:]...)
		artifact.Properties[attr] = list
		return nil
	case models.PatchOpReplace:
		if index >= len(current) {
			return fmt.Errorf("%w: index %d exceeds list length %d", utils.ErrIndexOutOfRange, index, len(current))
		}
		value, err := schema.Coerce(change.Value)
		if err != nil {
			return fmt.Errorf("%w: attribute %q: %s", utils.ErrInvalidPropertyValue, attr, err)
		}
		current[index] = value
		return nil
	case models.PatchOpRemove:
		if index >= len(current) {
			return fmt.Errorf("%w: index %d exceeds list length %d", utils.ErrIndexOutOfRange, index, len(current))
		}
		artifact.Properties[attr] = append(current[:index], current[index+1:]...)
		return nil
	default:
		return fmt.Errorf("%w: unsupported operation", utils.ErrInvalidInput)
	}
}

func (e *patchEngine) applyMap(artifact *models.Artifact, attr string, schema typeregistry.Attribute, change models.PatchChange, sub string) error {
	// bare path: the value is a whole map
	if sub == "" {
		switch change.Op {
		case models.PatchOpAdd, models.PatchOpReplace:
			if _, present := artifact.Properties[attr]; change.Op == models.PatchOpReplace && !present {
				return fmt.Errorf("%w: attribute %q has no value to replace", utils.ErrPropertyNotFound, attr)
			}
			raw, ok := change.Value.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: attribute %q requires a map value", utils.ErrInvalidPropertyValue, attr)
			}
			m := make(map[string]any, len(raw))
			for key, item := range raw {
				value, err := schema.Coerce(item)
				if err != nil {
					return fmt.Errorf("%w: attribute %q key %q: %s", utils.ErrInvalidPropertyValue, attr, key, err)
				}
				m[key] = value
			}
			artifact.Properties[attr] = m
			return nil
		case models.PatchOpRemove:
			if _, present := artifact.Properties[attr]; !present {
				return fmt.Errorf("%w: attribute %q has no value to remove", utils.ErrPropertyNotFound, attr)
			}
			delete(artifact.Properties, attr)
			return nil
		}
	}

	current, _ := artifact.Properties[attr].(map[string]any)
	_, present := current[sub]
	switch change.Op {
	case models.PatchOpAdd:
		if present {
			return fmt.Errorf("%w: attribute %q key %q already has a value", utils.ErrDuplicateProperty, attr, sub)
		}
	case models.PatchOpReplace:
		if !present {
			return fmt.Errorf("%w: attribute %q key %q has no value to replace", utils.ErrPropertyNotFound, attr, sub)
		}
	case models.PatchOpRemove:
		if !present {
			return fmt.Errorf("%w: attribute %q key %q has no value to remove", utils.ErrPropertyNotFound, attr, sub)
		}
		delete(current, sub)
		if len(current) == 0 {
			delete(artifact.Properties, attr)
		}
		return nil
	}
	value, err := schema.Coerce(change.Value)
	if err != nil {
		return fmt.Errorf("%w: attribute %q key %q: %s", utils.ErrInvalidPropertyValue, attr, sub, err)
	}
	if current == nil {
		current = map[string]any{}
		artifact.Properties[attr] = current
	}
	current[sub] = value
	return nil
}

func (e *patchEngine) applyTags(artifact *models.Artifact, change models.PatchChange, sub string) error {
	if sub != "" {
		return fmt.Errorf("%w: tags has no sub-path", utils.ErrInvalidPath)
	}
	switch change.Op {
	case models.PatchOpAdd, models.PatchOpReplace:
		raw, ok := change.Value.([]any)
		if !ok {
			return fmt.Errorf("%w: tags requires a list of strings", utils.ErrInvalidPropertyValue)
		}
		tags := make(models.StringList, 0, len(raw))
		for _, item := range raw {
			tag, ok := item.(string)
			if !ok {
				return fmt.Errorf("%w: tags requires a list of strings", utils.ErrInvalidPropertyValue)
			}
			tags = append(tags, tag)
		}
		artifact.Tags = tags
		return nil
	case models.PatchOpRemove:
		artifact.Tags = models.StringList{}
		return nil
	default:
		return fmt.Errorf("%w: unsupported operation", utils.ErrInvalidInput)
	}
}

// applyDependency edits the relation named by the sub-path. Values are lists
// of artifact ids; referential checks happen later, at save time, against
// the repository.
func (e *patchEngine) applyDependency(artifact *models.Artifact, change models.PatchChange, sub string) error {
	if sub == "" {
		return fmt.Errorf("%w: dependencies requires a relation name", utils.ErrInvalidPath)
	}
	_, present := artifact.Dependencies[sub]
	switch change.Op {
	case models.PatchOpAdd:
		if present {
			return fmt.Errorf("%w: dependency relation %q already exists", utils.ErrDuplicateProperty, sub)
		}
	case models.PatchOpReplace:
		if !present {
			return fmt.Errorf("%w: dependency relation %q does not exist", utils.ErrDependencyNotFound, sub)
		}
	case models.PatchOpRemove:
		if !present {
			return fmt.Errorf("%w: dependency relation %q does not exist", utils.ErrDependencyNotFound, sub)
		}
		delete(artifact.Dependencies, sub)
		return nil
	}
	raw, ok := change.Value.([]any)
	if !ok {
		return fmt.Errorf("%w: dependency relation %q requires a list of artifact ids", utils.ErrInvalidPropertyValue, sub)
	}
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		id, ok := item.(string)
		if !ok {
			return fmt.Errorf("%w: dependency relation %q requires a list of artifact ids", utils.ErrInvalidPropertyValue, sub)
		}
		ids = append(ids, id)
	}
	if artifact.Dependencies == nil {
		artifact.Dependencies = models.DependencyMap{}
	}
	artifact.Dependencies[sub] = ids
	return nil
}
