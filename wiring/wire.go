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

//go:build wireinject
// +build wireinject

package wiring

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/openmetahub/artifact-registry-service/config"
	"github.com/openmetahub/artifact-registry-service/middleware/jwtassertion"
	"github.com/openmetahub/artifact-registry-service/repositories"
	"github.com/openmetahub/artifact-registry-service/services"
)

var configProviderSet = wire.NewSet(
	ProvideConfigFromPtr,
)

var collaboratorProviderSet = wire.NewSet(
	ProvideDB,
	ProvideTypeRegistry,
	ProvideBlobStore,
)

var serviceProviderSet = wire.NewSet(
	repositories.NewArtifactRepo,
	services.NewPatchEngine,
	ProvideQueryBuilder,
	ProvideArtifactService,
)

var controllerProviderSet = wire.NewSet(
	ProvideArtifactController,
	ProvideTypeController,
)

// ProvideLogger provides the configured slog.Logger instance
func ProvideLogger() *slog.Logger {
	return slog.Default()
}

var loggerProviderSet = wire.NewSet(
	ProvideLogger,
)

func InitializeAppParams(cfg *config.Config) (*AppParams, error) {
	wire.Build(
		configProviderSet,
		collaboratorProviderSet,
		loggerProviderSet,
		serviceProviderSet,
		controllerProviderSet,
		ProvideAuthMiddleware, wire.Struct(new(AppParams), "*"),
	)
	return &AppParams{}, nil
}

func InitializeTestAppParams(cfg *config.Config, authMiddleware jwtassertion.Middleware) (*AppParams, error) {
	wire.Build(
		configProviderSet,
		collaboratorProviderSet,
		loggerProviderSet,
		serviceProviderSet,
		controllerProviderSet,
		wire.Struct(new(AppParams), "*"),
	)
	return &AppParams{}, nil
}
