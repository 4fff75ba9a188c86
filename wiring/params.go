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

package wiring

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/openmetahub/artifact-registry-service/config"
	"github.com/openmetahub/artifact-registry-service/controllers"
	"github.com/openmetahub/artifact-registry-service/db"
	"github.com/openmetahub/artifact-registry-service/middleware/jwtassertion"
	"github.com/openmetahub/artifact-registry-service/repositories"
	"github.com/openmetahub/artifact-registry-service/services"
	"github.com/openmetahub/artifact-registry-service/store"
	"github.com/openmetahub/artifact-registry-service/typeregistry"
)

// AppParams contains all wired application dependencies
type AppParams struct {
	// Middleware
	AuthMiddleware jwtassertion.Middleware
	Logger         *slog.Logger

	// Controllers
	ArtifactController controllers.ArtifactController
	TypeController     controllers.TypeController

	// Services
	ArtifactService services.ArtifactService

	// Collaborators
	TypeRegistry *typeregistry.Registry
	BlobStore    store.BlobStore

	// Database
	DB *gorm.DB
}

func ProvideConfigFromPtr(config *config.Config) config.Config {
	return *config
}

func ProvideAuthMiddleware(cfg config.Config) jwtassertion.Middleware {
	return jwtassertion.JWTAuthMiddleware(&cfg)
}

// ProvideDB provides the process-wide database handle
func ProvideDB() *gorm.DB {
	return db.GetDB()
}

// ProvideTypeRegistry provides the registry with the built-in types loaded
func ProvideTypeRegistry() *typeregistry.Registry {
	return typeregistry.DefaultRegistry()
}

// ProvideBlobStore selects the store backend from configuration: remote over
// HTTP when a URL is set, a local directory otherwise.
func ProvideBlobStore(cfg config.Config) (store.BlobStore, error) {
	if cfg.BlobStore.URL != "" {
		return store.NewHTTPStore(cfg.BlobStore), nil
	}
	return store.NewLocalStore(cfg.BlobStore)
}

// ProvideQueryBuilder provides the query builder with pagination settings
func ProvideQueryBuilder(cfg config.Config) services.QueryBuilder {
	return services.NewQueryBuilder(cfg.MaxListLimit, cfg.DefaultSortDirection)
}

// ProvideArtifactService provides the artifact service
func ProvideArtifactService(
	logger *slog.Logger,
	repo repositories.ArtifactRepository,
	patchEngine services.PatchEngine,
	blobStore store.BlobStore,
	cfg config.Config,
) services.ArtifactService {
	return services.NewArtifactService(logger, repo, patchEngine, blobStore, cfg.LatestVersionState)
}

// ProvideArtifactController provides the artifact controller
func ProvideArtifactController(
	artifactService services.ArtifactService,
	queryBuilder services.QueryBuilder,
	typeRegistry *typeregistry.Registry,
	cfg config.Config,
) controllers.ArtifactController {
	return controllers.NewArtifactController(artifactService, queryBuilder, typeRegistry, cfg.PublicEndpoint)
}

// ProvideTypeController provides the artifact type controller
func ProvideTypeController(typeRegistry *typeregistry.Registry, cfg config.Config) controllers.TypeController {
	return controllers.NewTypeController(typeRegistry, cfg.PublicEndpoint)
}
