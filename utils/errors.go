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

import "errors"

var (
	// Resource not found errors
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrDependencyNotFound = errors.New("dependency not found")
	ErrUnknownType        = errors.New("unknown artifact type")

	// Validation errors
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidPath          = errors.New("invalid property path")
	ErrInvalidPropertyValue = errors.New("invalid property value")
	ErrIndexOutOfRange      = errors.New("index is out of range")

	// Conflict errors
	ErrDuplicateArtifact      = errors.New("artifact already exists")
	ErrDuplicateProperty      = errors.New("property already has a value")
	ErrBadStateTransition     = errors.New("state transition not allowed")
	ErrBlobInUse              = errors.New("blob is in use")
	ErrBlobCollectionNotEmpty = errors.New("blob collection is not empty")

	// Storage errors
	ErrBlobTooLarge       = errors.New("blob exceeds the size limit")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrStorageUnavailable = errors.New("blob storage unavailable")
	ErrStoreDisabled      = errors.New("adding blobs to the store is disabled")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
