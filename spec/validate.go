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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var patchBodySchema = jsonschema.MustCompileString("patch-request.json", `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"op": {"enum": ["add", "replace", "remove"]},
			"path": {"type": "string", "minLength": 1},
			"value": {}
		},
		"required": ["op", "path"],
		"additionalProperties": false
	}
}`)

var propertyUpdateSchema = jsonschema.MustCompileString("property-update.json", `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {"data": {}},
	"required": ["data"]
}`)

// ValidatePatchBody validates and decodes a JSON patch request body.
func ValidatePatchBody(body []byte) ([]PatchOperation, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	if err := patchBodySchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid patch body: %w", err)
	}
	var ops []PatchOperation
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&ops); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	for i := range ops {
		ops[i].Value = normalizeNumbers(ops[i].Value)
	}
	return ops, nil
}

// ValidatePropertyUpdateBody validates and decodes a single-property update
// body of the form {"data": <any>}.
func ValidatePropertyUpdateBody(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	if err := propertyUpdateSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid property update body: %w", err)
	}
	var req PropertyUpdateRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	return normalizeNumbers(req.Data), nil
}

// normalizeNumbers converts json.Number values into int64 where they are
// integral and float64 otherwise, so type coercion sees native Go numbers.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}
