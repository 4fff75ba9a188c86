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

package dbmigrations

import (
	"gorm.io/gorm"
)

// create table artifacts
var migration001 = migration{
	ID: 1,
	Migrate: func(db *gorm.DB) error {
		createTable := `CREATE TABLE artifacts
(
   id            UUID PRIMARY KEY,
   name          VARCHAR(255) NOT NULL,
   version       VARCHAR(30) NOT NULL,
   type_name     VARCHAR(100) NOT NULL,
   type_version  VARCHAR(30) NOT NULL,
   visibility    VARCHAR(20) NOT NULL DEFAULT 'private',
   state         VARCHAR(20) NOT NULL DEFAULT 'creating',
   owner         VARCHAR(255),
   scope         VARCHAR(255),
   tags          TEXT,
   properties    TEXT,
   blobs         TEXT,
   dependencies  TEXT,
   created_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   updated_at    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   CONSTRAINT state_enum CHECK (state IN ('creating', 'active', 'deactivated', 'deleted'))
)`

		createTypeIndex := `CREATE INDEX idx_artifacts_type_state ON artifacts(type_name, type_version, state)`
		createNameIndex := `CREATE INDEX idx_artifacts_name_version ON artifacts(name, version)`

		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createTable, createTypeIndex, createNameIndex)
		})
	},
}
