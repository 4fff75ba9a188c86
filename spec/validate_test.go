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

package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePatchBody(t *testing.T) {
	t.Run("valid body decodes with native numbers", func(t *testing.T) {
		ops, err := ValidatePatchBody([]byte(`[
			{"op": "replace", "path": "size", "value": 7},
			{"op": "replace", "path": "weight", "value": 7.5},
			{"op": "remove", "path": "description"}
		]`))
		require.NoError(t, err)
		require.Len(t, ops, 3)
		assert.Equal(t, int64(7), ops[0].Value)
		assert.Equal(t, 7.5, ops[1].Value)
		assert.Nil(t, ops[2].Value)
	})

	t.Run("numbers normalize inside collections", func(t *testing.T) {
		ops, err := ValidatePatchBody([]byte(`[{"op": "add", "path": "mirrors", "value": [1, 2.5]}]`))
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), 2.5}, ops[0].Value)
	})

	invalid := map[string]string{
		"not an array":      `{"op": "add", "path": "x"}`,
		"empty array":       `[]`,
		"unknown op":        `[{"op": "move", "path": "x"}]`,
		"missing path":      `[{"op": "add"}]`,
		"extra field":       `[{"op": "add", "path": "x", "extra": 1}]`,
		"malformed json":    `[{`,
		"empty path string": `[{"op": "add", "path": ""}]`,
	}
	for name, body := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := ValidatePatchBody([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestValidatePropertyUpdateBody(t *testing.T) {
	t.Run("data field is extracted", func(t *testing.T) {
		value, err := ValidatePropertyUpdateBody([]byte(`{"data": 42}`))
		require.NoError(t, err)
		assert.Equal(t, int64(42), value)
	})

	t.Run("missing data is rejected", func(t *testing.T) {
		_, err := ValidatePropertyUpdateBody([]byte(`{"value": 42}`))
		assert.Error(t, err)
	})

	t.Run("null data is allowed by shape", func(t *testing.T) {
		value, err := ValidatePropertyUpdateBody([]byte(`{"data": null}`))
		require.NoError(t, err)
		assert.Nil(t, value)
	})
}
