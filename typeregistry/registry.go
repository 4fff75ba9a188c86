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

package typeregistry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// ArtifactType describes one registered artifact type at one version:
// display metadata plus the attribute schema every request validates
// against.
type ArtifactType struct {
	Name        string
	Version     string
	DisplayName string
	Endpoint    string
	Description string
	Attributes  map[string]Attribute
}

// baseAttributes are present on every artifact type. They mirror the
// artifact's own scalar columns and are always filterable.
var baseAttributes = map[string]Attribute{
	"name":         {Kind: KindScalar, Storage: StorageString, Filterable: true, Sortable: true},
	"version":      {Kind: KindScalar, Storage: StorageString, Filterable: true, Sortable: true},
	"state":        {Kind: KindScalar, Storage: StorageString, Filterable: true},
	"status":       {Kind: KindScalar, Storage: StorageString, Filterable: true},
	"visibility":   {Kind: KindScalar, Storage: StorageString, Filterable: true},
	"owner":        {Kind: KindScalar, Storage: StorageString, Filterable: true},
	"scope":        {Kind: KindScalar, Storage: StorageString, Filterable: true},
	"type_name":    {Kind: KindScalar, Storage: StorageString, Filterable: true},
	"type_version": {Kind: KindScalar, Storage: StorageString, Filterable: true},
}

// AttributeFor resolves an attribute by name, consulting the type's own
// schema first and the base attribute set second.
func (t *ArtifactType) AttributeFor(name string) (Attribute, bool) {
	if attr, ok := t.Attributes[name]; ok {
		return attr, true
	}
	attr, ok := baseAttributes[name]
	return attr, ok
}

// BlobAttributes returns the blob-kind subset of the type's attributes.
func (t *ArtifactType) BlobAttributes() map[string]Attribute {
	out := map[string]Attribute{}
	for name, attr := range t.Attributes {
		if attr.Blob {
			out[name] = attr
		}
	}
	return out
}

// Registry is the type-plugin collaborator: it maps (type name, type
// version) to an attribute schema. Registration happens at startup;
// lookups are concurrency-safe.
type Registry struct {
	mu     sync.RWMutex
	byName map[string][]*ArtifactType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string][]*ArtifactType{}}
}

// Register adds a type version. The version must be a valid semantic
// version; registering the same (name, version) twice is an error.
func (r *Registry) Register(t *ArtifactType) error {
	if _, err := semver.NewVersion(t.Version); err != nil {
		return fmt.Errorf("invalid version %q for type %q: %w", t.Version, t.Name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	versions := r.byName[t.Name]
	for _, existing := range versions {
		if existing.Version == t.Version {
			return fmt.Errorf("type %q version %q already registered", t.Name, t.Version)
		}
	}
	versions = append(versions, t)
	// keep newest first so Resolve("") picks the latest
	sort.Slice(versions, func(i, j int) bool {
		vi, _ := semver.NewVersion(versions[i].Version)
		vj, _ := semver.NewVersion(versions[j].Version)
		return vi.GreaterThan(vj)
	})
	r.byName[t.Name] = versions
	return nil
}

// Resolve finds a type by name and version. An empty version resolves to
// the latest registered version. A partial version such as "1.0" matches
// the newest registered version with that prefix.
func (r *Registry) Resolve(typeName, typeVersion string) (*ArtifactType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := r.byName[typeName]
	if len(versions) == 0 {
		return nil, fmt.Errorf("unknown artifact type %q", typeName)
	}
	if typeVersion == "" {
		return versions[0], nil
	}
	constraint, err := semver.NewConstraint(typeVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid type version %q: %w", typeVersion, err)
	}
	for _, t := range versions {
		v, err := semver.NewVersion(t.Version)
		if err != nil {
			continue
		}
		if constraint.Check(v) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("artifact type %q has no version matching %q", typeName, typeVersion)
}

// ResolveEndpoint finds a type by its URL endpoint segment.
func (r *Registry) ResolveEndpoint(endpoint, typeVersion string) (*ArtifactType, error) {
	r.mu.RLock()
	var name string
	for n, versions := range r.byName {
		if len(versions) > 0 && versions[0].Endpoint == endpoint {
			name = n
			break
		}
	}
	r.mu.RUnlock()
	if name == "" {
		return nil, fmt.Errorf("unknown artifact type endpoint %q", endpoint)
	}
	return r.Resolve(name, typeVersion)
}

// Types returns all registered type versions, grouped by name with the
// newest version first.
func (r *Registry) Types() map[string][]*ArtifactType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]*ArtifactType, len(r.byName))
	for name, versions := range r.byName {
		out[name] = append([]*ArtifactType(nil), versions...)
	}
	return out
}
