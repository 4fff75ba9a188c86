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

package utils

// Path parameter names used by the artifact routes
const (
	PathParamTypeName    = "typeName"
	PathParamTypeVersion = "typeVersion"
	PathParamArtifactID  = "id"
	PathParamAttribute   = "attr"
	PathParamIndex       = "index"
)

// Query parameter names reserved by the list operation
const (
	QueryParamShowLevel = "show_level"
	QueryParamLimit     = "limit"
	QueryParamMarker    = "marker"
	QueryParamSort      = "sort"
	QueryParamTag       = "tag"
)

// Pagination limits
const (
	MaxListLimit = 1000
)

// ArtifactsEndpoint is the public route prefix for artifact resources
const ArtifactsEndpoint = "/api/v1/artifacts"
