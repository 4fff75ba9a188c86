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

// Config holds all configuration for the application
type Config struct {
	ServerHost          string
	ServerPort          int
	AuthHeader          string
	AuthEnabled         bool
	AutoMaxProcsEnabled bool
	LogLevel            string

	// HTTP Server timeout configurations
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
	IdleTimeoutSeconds  int
	MaxHeaderBytes      int

	// Database configuration
	Database Database

	// CORSAllowedOrigin is the single allowed origin for CORS; use "*" to allow all
	CORSAllowedOrigin string

	// PublicEndpoint is the externally visible base URL used in type links
	// and create Location headers. Empty means derive from the request host.
	PublicEndpoint string

	// Query configuration
	MaxListLimit         int
	DefaultSortDirection string

	// LatestVersionState is the artifact state used by internal
	// latest-version lookups.
	LatestVersionState string

	// Blob store configuration
	BlobStore BlobStoreConfig

	// JWT assertion validation configuration
	JWTAssertion JWTAssertionConfig
}

// Database holds database connection configuration. Driver selects
// "postgres" for deployments and "sqlite" for local development.
type Database struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SQLitePath string

	// gorm configs
	SkipDefaultTransaction bool
}

// BlobStoreConfig holds blob store configuration. When URL is set the
// service talks to a remote store over HTTP; otherwise blobs land in the
// local directory at Path.
type BlobStoreConfig struct {
	URL              string
	Path             string
	MaxBlobSizeBytes int64
	Disabled         bool
}

// JWTAssertionConfig holds settings for validating inbound JWT assertions
type JWTAssertionConfig struct {
	JWKSUrl  string
	Issuer   string
	Audience string
}
