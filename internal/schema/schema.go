package schema

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// FieldDescriptor describes a record field.
type FieldDescriptor struct {
	Name     string // Go field name, unique within the owning type
	Type     string // Opaque canonical type identifier
	Display  string // Short type form for messages (optional)
	Embedded bool   // Whether the field is embedded (anonymous)
	Index    int    // Field index in the struct
}

// DisplayType returns the type as it should appear in messages.
func (f FieldDescriptor) DisplayType() string {
	if f.Display != "" {
		return f.Display
	}

	return f.Type
}

// String returns "name:type".
func (f FieldDescriptor) String() string {
	return f.Name + ":" + f.DisplayType()
}

// TypeSchema is the immutable description of a record type's fields.
type TypeSchema struct {
	ID     TypeID
	Fields []FieldDescriptor

	byName map[string]int
}

// NewTypeSchema creates a schema. Field names must be unique.
func NewTypeSchema(id TypeID, fields []FieldDescriptor) (*TypeSchema, error) {
	s := &TypeSchema{
		ID:     id,
		Fields: append([]FieldDescriptor(nil), fields...),
		byName: make(map[string]int, len(fields)),
	}

	for i, f := range s.Fields {
		if _, dup := s.byName[f.Name]; dup {
			return nil, errors.Newf("type %s declares field %q twice", id, f.Name)
		}

		s.byName[f.Name] = i
	}

	return s, nil
}

// MustTypeSchema is like NewTypeSchema but panics on error.
func MustTypeSchema(id TypeID, fields ...FieldDescriptor) *TypeSchema {
	s, err := NewTypeSchema(id, fields)
	if err != nil {
		panic(err)
	}

	return s
}

// Field returns the field with the given name.
func (s *TypeSchema) Field(name string) (FieldDescriptor, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldDescriptor{}, false
	}

	return s.Fields[i], true
}

// Has reports whether the schema declares a field with the given name.
func (s *TypeSchema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns the field names in declaration order.
func (s *TypeSchema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}

	return out
}

// Len returns the number of fields.
func (s *TypeSchema) Len() int {
	return len(s.Fields)
}

// String returns the schema as "Name(field:type, ...)".
func (s *TypeSchema) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}

	return s.ID.Name + "(" + strings.Join(parts, ", ") + ")"
}
