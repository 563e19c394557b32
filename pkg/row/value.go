// Copyright (c) 2026, The langpop Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package row

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/langpop/langpop/pkg/errors"
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	// KindNull marks an absent or explicitly null value.
	KindNull Kind = iota
	// KindNumber marks a numeric metric.
	KindNumber
	// KindString marks a string key or label.
	KindString
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a field value: null, a number, or a string.
// The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Num returns a numeric Value.
func Num(v float64) Value { return Value{kind: KindNumber, num: v} }

// Str returns a string Value.
func Str(v string) Value { return Value{kind: KindString, str: v} }

// Null returns the null Value.
func Null() Value { return Value{} }

// Kind returns the type tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.kind == KindString }

// Float returns the numeric payload, or 0 for non-numbers.
func (v Value) Float() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.num
}

// Text returns the string payload, or "" for non-strings.
func (v Value) Text() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Any returns the payload as float64, string, or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	default:
		return nil
	}
}

// String formats the value for display and for use as a grouping key.
// Integral numbers print without a fractional part.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return "null"
	}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	default:
		return true
	}
}

// NumberOrZero returns the numeric payload of v, treating null as 0.
// It is the single place where absent metrics become zero.
func NumberOrZero(v Value) (float64, error) {
	switch v.kind {
	case KindNull:
		return 0, nil
	case KindNumber:
		return v.num, nil
	default:
		return 0, errors.NewWithContext(errors.ErrCodeSchemaMismatch,
			"expected a number", map[string]any{"value": v.str})
	}
}

// FromAny converts a decoded JSON or YAML scalar to a Value.
func FromAny(x any) (Value, error) {
	switch val := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case string:
		return Str(val), nil
	case float64:
		return Num(val), nil
	case float32:
		return Num(float64(val)), nil
	case int:
		return Num(float64(val)), nil
	case int8:
		return Num(float64(val)), nil
	case int16:
		return Num(float64(val)), nil
	case int32:
		return Num(float64(val)), nil
	case int64:
		return Num(float64(val)), nil
	case uint:
		return Num(float64(val)), nil
	case uint8:
		return Num(float64(val)), nil
	case uint16:
		return Num(float64(val)), nil
	case uint32:
		return Num(float64(val)), nil
	case uint64:
		return Num(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Null(), errors.Wrap(errors.ErrCodeSchemaMismatch, "invalid number", err)
		}
		return Num(f), nil
	default:
		return Null(), errors.NewWithContext(errors.ErrCodeSchemaMismatch,
			"unsupported field value type", map[string]any{"type": fmt.Sprintf("%T", x)})
	}
}

// MarshalJSON writes the bare scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return nil, fmt.Errorf("cannot encode %v as JSON", v.num)
		}
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reads a bare scalar.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// MarshalYAML writes the bare scalar.
func (v Value) MarshalYAML() (any, error) {
	return v.Any(), nil
}

// UnmarshalYAML reads a bare scalar.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.NewWithContext(errors.ErrCodeSchemaMismatch,
			"field value must be a scalar", map[string]any{"line": node.Line})
	}
	switch node.Tag {
	case "!!str", "!!bool", "!!timestamp":
		*v = Str(node.Value)
		return nil
	}
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	val, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
