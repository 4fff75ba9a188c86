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

package api

import (
	"net/http"

	"github.com/openmetahub/artifact-registry-service/controllers"
)

func registerArtifactRoutes(mux *http.ServeMux, controller controllers.ArtifactController, typeController controllers.TypeController) {
	// GET /artifacts - List registered artifact types
	mux.HandleFunc("GET /artifacts", typeController.ListArtifactTypes)

	// POST /artifacts/{typeName}/{typeVersion} - Create a new artifact
	mux.HandleFunc("POST /artifacts/{typeName}/{typeVersion}", controller.CreateArtifact)

	// GET /artifacts/{typeName}/{typeVersion} - List artifacts of a type
	mux.HandleFunc("GET /artifacts/{typeName}/{typeVersion}", controller.ListArtifacts)

	// GET /artifacts/{typeName}/{typeVersion}/{id} - Get a specific artifact
	mux.HandleFunc("GET /artifacts/{typeName}/{typeVersion}/{id}", controller.GetArtifact)

	// PATCH /artifacts/{typeName}/{typeVersion}/{id} - Apply a patch sequence
	mux.HandleFunc("PATCH /artifacts/{typeName}/{typeVersion}/{id}", controller.UpdateArtifact)

	// DELETE /artifacts/{typeName}/{typeVersion}/{id} - Delete an artifact
	mux.HandleFunc("DELETE /artifacts/{typeName}/{typeVersion}/{id}", controller.DeleteArtifact)

	// POST /artifacts/{typeName}/{typeVersion}/{id}/publish - Publish an artifact
	mux.HandleFunc("POST /artifacts/{typeName}/{typeVersion}/{id}/publish", controller.PublishArtifact)

	// PUT /artifacts/{typeName}/{typeVersion}/{id}/{attr} - Replace or create one property
	mux.HandleFunc("PUT /artifacts/{typeName}/{typeVersion}/{id}/{attr}", controller.UpdateArtifactProperty)

	// POST /artifacts/{typeName}/{typeVersion}/{id}/{attr} - Add to one property
	mux.HandleFunc("POST /artifacts/{typeName}/{typeVersion}/{id}/{attr}", controller.UpdateArtifactProperty)

	// PUT /artifacts/{typeName}/{typeVersion}/{id}/{attr}/data - Upload a blob (replace)
	mux.HandleFunc("PUT /artifacts/{typeName}/{typeVersion}/{id}/{attr}/data", controller.UploadBlob)

	// POST /artifacts/{typeName}/{typeVersion}/{id}/{attr}/data - Upload a blob (append)
	mux.HandleFunc("POST /artifacts/{typeName}/{typeVersion}/{id}/{attr}/data", controller.UploadBlob)

	// GET /artifacts/{typeName}/{typeVersion}/{id}/{attr}/data - Download a scalar blob
	mux.HandleFunc("GET /artifacts/{typeName}/{typeVersion}/{id}/{attr}/data", controller.DownloadBlob)

	// PUT /artifacts/{typeName}/{typeVersion}/{id}/{attr}/{index}/data - Upload a blob at an index (replace)
	mux.HandleFunc("PUT /artifacts/{typeName}/{typeVersion}/{id}/{attr}/{index}/data", controller.UploadBlob)

	// POST /artifacts/{typeName}/{typeVersion}/{id}/{attr}/{index}/data - Upload a blob at an index (insert)
	mux.HandleFunc("POST /artifacts/{typeName}/{typeVersion}/{id}/{attr}/{index}/data", controller.UploadBlob)

	// GET /artifacts/{typeName}/{typeVersion}/{id}/{attr}/{index}/data - Download a blob collection element
	mux.HandleFunc("GET /artifacts/{typeName}/{typeVersion}/{id}/{attr}/{index}/data", controller.DownloadBlob)
}
