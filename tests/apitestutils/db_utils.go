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

package apitestutils

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/openmetahub/artifact-registry-service/api"
	"github.com/openmetahub/artifact-registry-service/config"
	"github.com/openmetahub/artifact-registry-service/db"
	"github.com/openmetahub/artifact-registry-service/middleware/jwtassertion"
	"github.com/openmetahub/artifact-registry-service/models"
	"github.com/openmetahub/artifact-registry-service/utils"
	"github.com/openmetahub/artifact-registry-service/wiring"
)

// MakeAppClient wires the full HTTP handler against a fresh in-memory
// database and a local blob store under the test's temp directory.
func MakeAppClient(t *testing.T, authMiddleware jwtassertion.Middleware) http.Handler {
	t.Helper()

	handle, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, handle.AutoMigrate(&models.Artifact{}))
	db.SetDB(handle)

	cfg := &config.Config{
		AuthEnabled:          false,
		CORSAllowedOrigin:    "*",
		MaxListLimit:         utils.MaxListLimit,
		DefaultSortDirection: models.SortDesc,
		LatestVersionState:   models.StateCreating,
		BlobStore: config.BlobStoreConfig{
			Path:             t.TempDir(),
			MaxBlobSizeBytes: 1 << 20,
		},
	}

	params, err := wiring.InitializeTestAppParams(cfg, authMiddleware)
	require.NoError(t, err)
	return api.MakeHTTPHandler(params)
}

// SeedArtifact inserts an artifact record directly, bypassing the API.
func SeedArtifact(t *testing.T, artifact *models.Artifact) models.Artifact {
	t.Helper()
	if artifact.State == "" {
		artifact.State = models.StateCreating
	}
	if artifact.Visibility == "" {
		artifact.Visibility = models.VisibilityPrivate
	}
	err := db.DB(context.Background()).Create(artifact).Error
	require.NoError(t, err)
	str, _ := json.MarshalIndent(artifact, "", "  ")
	t.Logf("Seeded artifact: %s", str)
	return *artifact
}
