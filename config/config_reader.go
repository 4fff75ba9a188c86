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
	"fmt"
	"os"
	"strconv"
	"strings"
)

// configReader accumulates read errors so env parsing reports them all at
// once instead of failing on the first bad variable.
type configReader struct {
	errs []string
}

func (r *configReader) readOptionalString(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func (r *configReader) readRequiredString(key string) string {
	value := os.Getenv(key)
	if value == "" {
		r.errs = append(r.errs, fmt.Sprintf("missing required env var %s", key))
	}
	return value
}

func (r *configReader) readOptionalInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("env var %s is not an integer: %v", key, err))
		return fallback
	}
	return parsed
}

func (r *configReader) readOptionalBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("env var %s is not a boolean: %v", key, err))
		return fallback
	}
	return parsed
}

func (r *configReader) Error() error {
	if len(r.errs) == 0 {
		return nil
	}
	return fmt.Errorf("configuration errors: %s", strings.Join(r.errs, "; "))
}
