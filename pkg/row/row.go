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
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/langpop/langpop/pkg/errors"
)

// Field is a named value used to build rows in declared order.
type Field struct {
	Name  string
	Value Value
}

// F is shorthand for building a Field from a Go scalar.
// It panics on unsupported types and is meant for literals and tests.
func F(name string, x any) Field {
	v, err := FromAny(x)
	if err != nil {
		panic(fmt.Sprintf("row.F(%q): %v", name, err))
	}
	return Field{Name: name, Value: v}
}

// Row is an ordered record of named fields.
// Field order is insertion order and is preserved by every codec.
type Row struct {
	names  []string
	values map[string]Value
}

// New builds a row from fields in order. A repeated name replaces the
// earlier value and keeps the earlier position.
func New(fields ...Field) *Row {
	r := &Row{
		names:  make([]string, 0, len(fields)),
		values: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Get returns the value of a field and whether the field exists.
func (r *Row) Get(name string) (Value, bool) {
	if r == nil {
		return Null(), false
	}
	v, ok := r.values[name]
	return v, ok
}

// Value returns the field value, null when absent.
func (r *Row) Value(name string) Value {
	v, _ := r.Get(name)
	return v
}

// Has reports whether the field exists, even if null.
func (r *Row) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Set assigns a field. New names are appended to the field order.
func (r *Row) Set(name string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = v
}

// Delete removes a field if present.
func (r *Row) Delete(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// Fields returns the field names in order. The slice is a copy.
func (r *Row) Fields() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of fields.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Clone returns a deep copy.
func (r *Row) Clone() *Row {
	if r == nil {
		return nil
	}
	c := &Row{
		names:  make([]string, len(r.names)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(c.names, r.names)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Project returns a new row holding exactly the schema fields in schema
// order. Absent or null fields become Num(0).
func (r *Row) Project(schema []string) *Row {
	p := &Row{
		names:  make([]string, 0, len(schema)),
		values: make(map[string]Value, len(schema)),
	}
	for _, name := range schema {
		v, ok := r.Get(name)
		if !ok || v.IsNull() {
			v = Num(0)
		}
		p.Set(name, v)
	}
	return p
}

// Equal reports whether both rows hold the same field-value mapping.
// Field order is ignored.
func (r *Row) Equal(o *Row) bool {
	if r == nil || o == nil {
		return r.Len() == 0 && o.Len() == 0
	}
	if r.Len() != o.Len() {
		return false
	}
	for _, name := range r.names {
		ov, ok := o.Get(name)
		if !ok || !r.values[name].Equal(ov) {
			return false
		}
	}
	return true
}

// String renders the row as {name: value, ...} in field order.
func (r *Row) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range r.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", name, r.values[name])
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON writes a JSON object with members in field order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.values[name].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping the document's member order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New(errors.ErrCodeSchemaMismatch, "row must be a JSON object")
	}

	*r = Row{values: make(map[string]Value)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		r.Set(name, v)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML writes a mapping node with keys in field order.
func (r *Row) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range r.names {
		var val yaml.Node
		if err := val.Encode(r.values[name].Any()); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&val,
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping node, keeping key order.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.NewWithContext(errors.ErrCodeSchemaMismatch,
			"row must be a YAML mapping", map[string]any{"line": node.Line})
	}
	*r = Row{values: make(map[string]Value)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var v Value
		if err := v.UnmarshalYAML(node.Content[i+1]); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		r.Set(name, v)
	}
	return nil
}

// Rows is an ordered collection of rows.
type Rows []*Row

// Schema returns the union of field names across all rows, in first-seen order.
func (rs Rows) Schema() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rs {
		for _, name := range r.Fields() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Clone deep-copies every row.
func (rs Rows) Clone() Rows {
	if rs == nil {
		return nil
	}
	out := make(Rows, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// Equal reports whether both collections hold equal rows in the same order.
func (rs Rows) Equal(o Rows) bool {
	if len(rs) != len(o) {
		return false
	}
	for i := range rs {
		if !rs[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
