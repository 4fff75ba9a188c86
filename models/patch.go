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

package models

import "fmt"

// PatchOp is the closed set of patch operations. Unsupported operation
// strings are rejected at parse time so that downstream dispatch is an
// exhaustive switch.
type PatchOp int

const (
	PatchOpAdd PatchOp = iota
	PatchOpReplace
	PatchOpRemove
)

func (op PatchOp) String() string {
	switch op {
	case PatchOpAdd:
		return "add"
	case PatchOpReplace:
		return "replace"
	case PatchOpRemove:
		return "remove"
	default:
		return fmt.Sprintf("patchop(%d)", int(op))
	}
}

// ParsePatchOp parses a patch operation name.
func ParsePatchOp(s string) (PatchOp, error) {
	switch s {
	case "add":
		return PatchOpAdd, nil
	case "replace":
		return PatchOpReplace, nil
	case "remove":
		return PatchOpRemove, nil
	default:
		return PatchOpAdd, fmt.Errorf("unsupported patch operation %q", s)
	}
}

// PatchChange is one edit against an artifact instance. Path is a
// slash-delimited pointer: a bare attribute name for scalars and maps, or
// "attribute/index" ("attribute/key" for maps) for collection elements.
// Value is nil for remove.
type PatchChange struct {
	Op    PatchOp
	Path  string
	Value any
}
