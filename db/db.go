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

package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openmetahub/artifact-registry-service/config"
)

var (
	dbInstance *gorm.DB
	dbOnce     sync.Once
)

// GetDB returns the process-wide gorm handle, opening the connection on
// first use. Repositories attach request contexts per operation.
func GetDB() *gorm.DB {
	dbOnce.Do(func() {
		cfg := config.GetConfig()
		handle, err := open(cfg.Database)
		if err != nil {
			slog.Error("Failed to connect to database", "driver", cfg.Database.Driver, "error", err)
			os.Exit(1)
		}
		dbInstance = handle
	})
	return dbInstance
}

// DB returns the handle bound to the given context.
func DB(ctx context.Context) *gorm.DB {
	return GetDB().WithContext(ctx)
}

// SetDB replaces the process-wide handle. Test helpers use it to point the
// service at an in-memory database.
func SetDB(handle *gorm.DB) {
	dbOnce.Do(func() {})
	dbInstance = handle
}

func open(cfg config.Database) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: cfg.SkipDefaultTransaction,
	}
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
