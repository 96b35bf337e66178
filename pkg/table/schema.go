// Package table implements the named schema and row-store primitives of
// spec.md §4.B, grounded on the teacher's catalog.Schema/catalog.Column
// split (pkg/catalog/types.go) between ordered field metadata and an
// index used for name lookups.
package table

import (
	"fmt"

	"github.com/brody715/lumidb/pkg/value"
)

// Field is one (name, type) pair in a Schema.
type Field struct {
	Name string
	Type value.Type
}

// Schema is an ordered sequence of fields plus a name->index map. Once a
// table has been exposed to engine code its schema is never mutated
// again — rebuilds (select, sort, ...) produce a brand new schema.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a Schema from an ordered field list, rejecting
// duplicate names.
func NewSchema(fields []Field) (*Schema, error) {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, exists := idx[f.Name]; exists {
			return nil, fmt.Errorf("duplicate field name: %s", f.Name)
		}
		idx[f.Name] = i
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return &Schema{fields: cp, index: idx}, nil
}

// Fields returns the ordered field list. Callers must not mutate it.
func (s *Schema) Fields() []Field { return s.fields }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// IndexOf returns the position of name, or -1 if it is not a field.
func (s *Schema) IndexOf(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// FieldByName returns the field with the given name, if any.
func (s *Schema) FieldByName(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Names returns the ordered field names.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// CheckRow validates that row matches this schema: same arity, and each
// value is an instance of its column's type.
func (s *Schema) CheckRow(row []value.Value) error {
	if len(row) != len(s.fields) {
		return fmt.Errorf("row has %d values, schema has %d fields", len(row), len(s.fields))
	}
	for i, f := range s.fields {
		if !row[i].InstanceOf(f.Type) {
			return fmt.Errorf("field %q: value %s is not an instance of %s", f.Name, row[i].Format(), f.Type)
		}
	}
	return nil
}

// Select builds a new schema containing only the named fields, in the
// given order, resolving each name against this schema.
func (s *Schema) Select(names []string) (*Schema, []int, error) {
	fields := make([]Field, 0, len(names))
	indices := make([]int, 0, len(names))
	for _, name := range names {
		f, ok := s.FieldByName(name)
		if !ok {
			return nil, nil, fmt.Errorf("unknown field: %s", name)
		}
		fields = append(fields, f)
		indices = append(indices, s.IndexOf(name))
	}
	schema, err := NewSchema(fields)
	if err != nil {
		return nil, nil, err
	}
	return schema, indices, nil
}
