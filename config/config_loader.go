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

package config

import (
	"os"

	"github.com/joho/godotenv"
)

var config *Config

func GetConfig() *Config {
	return config
}

func init() {
	loadEnvs()
}

func loadEnvs() {
	config = &Config{}

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath != "" {
		err := godotenv.Load(envFilePath)
		if err != nil {
			panic(err)
		}
	}

	r := &configReader{}
	config.ServerHost = r.readOptionalString("SERVER_HOST", "")
	config.ServerPort = int(r.readOptionalInt64("SERVER_PORT", 8080))
	config.AuthHeader = r.readOptionalString("AUTH_HEADER", "Authorization")
	config.AuthEnabled = r.readOptionalBool("AUTH_ENABLED", false)
	config.AutoMaxProcsEnabled = r.readOptionalBool("AUTO_MAX_PROCS_ENABLED", true)
	config.CORSAllowedOrigin = r.readOptionalString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	// Logging configuration
	config.LogLevel = r.readOptionalString("LOG_LEVEL", "INFO")

	// read database configs
	config.Database = Database{
		Driver:                 r.readOptionalString("DB_DRIVER", "sqlite"),
		Host:                   r.readOptionalString("DB_HOST", "localhost"),
		Port:                   int(r.readOptionalInt64("DB_PORT", 5432)),
		User:                   r.readOptionalString("DB_USER", ""),
		Password:               r.readOptionalString("DB_PASSWORD", ""),
		DBName:                 r.readOptionalString("DB_NAME", "artifacts"),
		SQLitePath:             r.readOptionalString("DB_SQLITE_PATH", "artifacts.db"),
		SkipDefaultTransaction: r.readOptionalBool("GORM_SKIP_DEFAULT_TRANSACTION", true),
	}

	// HTTP Server timeout configurations
	config.ReadTimeoutSeconds = int(r.readOptionalInt64("HTTP_READ_TIMEOUT_SECONDS", 10))
	config.WriteTimeoutSeconds = int(r.readOptionalInt64("HTTP_WRITE_TIMEOUT_SECONDS", 90))
	config.IdleTimeoutSeconds = int(r.readOptionalInt64("HTTP_IDLE_TIMEOUT_SECONDS", 60))
	config.MaxHeaderBytes = int(r.readOptionalInt64("HTTP_MAX_HEADER_BYTES", 65536)) // 1024 * 64

	// Query configuration
	config.PublicEndpoint = r.readOptionalString("PUBLIC_ENDPOINT", "")
	config.MaxListLimit = int(r.readOptionalInt64("MAX_LIST_LIMIT", 1000))
	config.DefaultSortDirection = r.readOptionalString("DEFAULT_SORT_DIRECTION", "desc")
	config.LatestVersionState = r.readOptionalString("LATEST_VERSION_STATE", "creating")

	// Blob store configuration
	config.BlobStore = BlobStoreConfig{
		URL:              r.readOptionalString("BLOB_STORE_URL", ""),
		Path:             r.readOptionalString("BLOB_STORE_PATH", "blobs"),
		MaxBlobSizeBytes: r.readOptionalInt64("BLOB_STORE_MAX_SIZE_BYTES", 1<<30),
		Disabled:         r.readOptionalBool("BLOB_STORE_DISABLED", false),
	}

	// JWT assertion configuration
	config.JWTAssertion = JWTAssertionConfig{
		JWKSUrl:  r.readOptionalString("JWT_JWKS_URL", ""),
		Issuer:   r.readOptionalString("JWT_ISSUER", ""),
		Audience: r.readOptionalString("JWT_AUDIENCE", ""),
	}

	if err := r.Error(); err != nil {
		panic(err)
	}
}
