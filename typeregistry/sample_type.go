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

// SampleType returns the built-in "sample" artifact type used by local
// development and tests.
func SampleType() *ArtifactType {
	return &ArtifactType{
		Name:        "sample",
		Version:     "1.0.0",
		DisplayName: "Sample Artifact",
		Endpoint:    "sample",
		Description: "General purpose sample artifact type",
		Attributes: map[string]Attribute{
			"size":        {Kind: KindScalar, Storage: StorageInt, Filterable: true, Sortable: true},
			"description": {Kind: KindScalar, Storage: StorageText, Filterable: true},
			"weight":      {Kind: KindScalar, Storage: StorageNumeric, Filterable: true, Sortable: true},
			"enabled":     {Kind: KindScalar, Storage: StorageBool, Filterable: true, Sortable: true},
			"mirrors":     {Kind: KindList, Storage: StorageString, Filterable: true},
			"labels":      {Kind: KindMap, Storage: StorageString, Filterable: true},
			"image":       {Kind: KindScalar, Blob: true},
			"files":       {Kind: KindList, Blob: true},
		},
	}
}

// DefaultRegistry returns a registry preloaded with the built-in types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// registration of built-ins cannot fail
	_ = r.Register(SampleType())
	return r
}
