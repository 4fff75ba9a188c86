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

package typeregistry

import (
	"fmt"
	"math"
	"strconv"
)

// Kind discriminates an attribute's runtime shape. The schema declares the
// kind once; values are never shape-sniffed at runtime.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Storage is an attribute's declared storage type.
type Storage string

const (
	StorageInt     Storage = "int"
	StorageString  Storage = "string"
	StorageText    Storage = "text"
	StorageBool    Storage = "bool"
	StorageNumeric Storage = "numeric"
)

// comparable storage types are the only ones a sort key may carry.
var comparableStorage = map[Storage]bool{
	StorageString:  true,
	StorageNumeric: true,
	StorageInt:     true,
	StorageBool:    true,
}

// Comparable reports whether values of this storage type have a total order
// usable for sorting.
func (s Storage) Comparable() bool {
	return comparableStorage[s]
}

// Attribute describes one attribute of an artifact type: its kind, its
// declared storage type (the element's storage type for lists, the value's
// for maps), whether it is blob-valued, and its filter/sort flags.
type Attribute struct {
	Kind       Kind
	Storage    Storage
	Blob       bool
	Filterable bool
	Sortable   bool

	// Element describes list elements when they are themselves structured.
	// A non-nil Element with list kind marks a tuple-like nesting that
	// filtering does not support.
	Element *Attribute
}

// Coerce converts a JSON-decoded value to the attribute's declared storage
// type. Coercion is idempotent: a value already of the declared type passes
// through unchanged.
func (a Attribute) Coerce(v any) (any, error) {
	return coerceValue(a.Storage, v)
}

// CoerceString converts a raw query-string value to the attribute's declared
// storage type.
func (a Attribute) CoerceString(s string) (any, error) {
	return coerceString(a.Storage, s)
}

func coerceValue(storage Storage, v any) (any, error) {
	switch storage {
	case StorageInt:
		switch t := v.(type) {
		case int64:
			return t, nil
		case int:
			return int64(t), nil
		case float64:
			if t != math.Trunc(t) {
				return nil, fmt.Errorf("value %v is not an integer", t)
			}
			return int64(t), nil
		default:
			return nil, fmt.Errorf("value of type %T is not an integer", v)
		}
	case StorageString, StorageText:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("value of type %T is not a string", v)
	case StorageBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("value of type %T is not a boolean", v)
	case StorageNumeric:
		switch t := v.(type) {
		case float64:
			return t, nil
		case int64:
			return float64(t), nil
		case int:
			return float64(t), nil
		default:
			return nil, fmt.Errorf("value of type %T is not numeric", v)
		}
	default:
		return nil, fmt.Errorf("unsupported storage type %q", storage)
	}
}

func coerceString(storage Storage, s string) (any, error) {
	switch storage {
	case StorageInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not an integer", s)
		}
		return n, nil
	case StorageString, StorageText:
		return s, nil
	case StorageBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a boolean", s)
		}
		return b, nil
	case StorageNumeric:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not numeric", s)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", storage)
	}
}
