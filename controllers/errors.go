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

package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openmetahub/artifact-registry-service/utils"
)

// statusByError maps the service error taxonomy to HTTP status codes.
var statusByError = []struct {
	sentinel error
	status   int
}{
	{utils.ErrArtifactNotFound, http.StatusNotFound},
	{utils.ErrPropertyNotFound, http.StatusNotFound},
	{utils.ErrDependencyNotFound, http.StatusNotFound},
	{utils.ErrUnknownType, http.StatusNotFound},
	{utils.ErrInvalidInput, http.StatusBadRequest},
	{utils.ErrInvalidPath, http.StatusBadRequest},
	{utils.ErrInvalidPropertyValue, http.StatusBadRequest},
	{utils.ErrIndexOutOfRange, http.StatusBadRequest},
	{utils.ErrDuplicateArtifact, http.StatusConflict},
	{utils.ErrDuplicateProperty, http.StatusConflict},
	{utils.ErrBadStateTransition, http.StatusConflict},
	{utils.ErrBlobInUse, http.StatusConflict},
	{utils.ErrBlobCollectionNotEmpty, http.StatusConflict},
	{utils.ErrBlobTooLarge, http.StatusRequestEntityTooLarge},
	{utils.ErrQuotaExceeded, http.StatusRequestEntityTooLarge},
	{utils.ErrUnauthorized, http.StatusUnauthorized},
	{utils.ErrForbidden, http.StatusForbidden},
	{utils.ErrStorageUnavailable, http.StatusServiceUnavailable},
	{utils.ErrStoreDisabled, http.StatusGone},
}

// writeServiceError translates a service error into an HTTP error response.
// Unmapped errors become a generic 500 so internal detail never leaks.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, operation string, err error) {
	for _, entry := range statusByError {
		if errors.Is(err, entry.sentinel) {
			if entry.status >= http.StatusInternalServerError {
				log.Error(operation+": request failed", "error", err)
			} else {
				log.Warn(operation+": request rejected", "error", err)
			}
			utils.WriteErrorResponse(w, entry.status, err.Error())
			return
		}
	}
	log.Error(operation+": unexpected error", "error", err)
	utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error")
}
