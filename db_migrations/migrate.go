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
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/openmetahub/artifact-registry-service/db"
)

// migration pairs a numeric id with its forward function. Rollback is not
// supported; a failed migration is fixed forward.
type migration struct {
	ID      int
	Migrate func(db *gorm.DB) error
}

var allMigrations = []migration{
	migration001,
}

// Migrate applies all pending migrations in order.
func Migrate() error {
	var steps []*gormigrate.Migration
	for _, m := range allMigrations {
		m := m
		steps = append(steps, &gormigrate.Migration{
			ID:      fmt.Sprintf("%03d", m.ID),
			Migrate: m.Migrate,
		})
	}
	return gormigrate.New(db.GetDB(), gormigrate.DefaultOptions, steps).Migrate()
}

func runSQL(tx *gorm.DB, statements ...string) error {
	for _, stmt := range statements {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
