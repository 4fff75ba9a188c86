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

import (
	"fmt"
	"strings"
)

// ShowLevel controls how deep an artifact's dependency graph is materialized
// on a read. Levels are totally ordered: NONE < BASIC < DIRECT < TRANSITIVE.
type ShowLevel int

const (
	// ShowLevelNone returns properties only, without dependencies.
	ShowLevelNone ShowLevel = iota
	// ShowLevelBasic includes dependency ids, no nested objects.
	ShowLevelBasic
	// ShowLevelDirect resolves one level of dependency objects.
	ShowLevelDirect
	// ShowLevelTransitive resolves dependency objects recursively until no
	// new ids are introduced. Cycle-safe.
	ShowLevelTransitive
)

var showLevelNames = map[ShowLevel]string{
	ShowLevelNone:       "none",
	ShowLevelBasic:      "basic",
	ShowLevelDirect:     "direct",
	ShowLevelTransitive: "transitive",
}

func (l ShowLevel) String() string {
	if name, ok := showLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("showlevel(%d)", int(l))
}

// ParseShowLevel parses a case-insensitive show level name.
func ParseShowLevel(s string) (ShowLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ShowLevelNone, nil
	case "basic":
		return ShowLevelBasic, nil
	case "direct":
		return ShowLevelDirect, nil
	case "transitive":
		return ShowLevelTransitive, nil
	default:
		return ShowLevelNone, fmt.Errorf("unsupported show level %q", s)
	}
}
