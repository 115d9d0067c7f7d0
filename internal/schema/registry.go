package schema

import "github.com/cockroachdb/errors"

// FieldLister returns the fields of a record type in declaration order.
type FieldLister interface {
	ListFields(id TypeID) ([]FieldDescriptor, error)
}

// Registry builds one TypeSchema per distinct type and caches it for the
// rest of the round.
type Registry struct {
	lister FieldLister
	cache  map[TypeID]*TypeSchema
}

// NewRegistry creates a registry backed by the given lister.
func NewRegistry(lister FieldLister) *Registry {
	return &Registry{
		lister: lister,
		cache:  make(map[TypeID]*TypeSchema),
	}
}

// Schema returns the schema of id, building it on first use.
func (r *Registry) Schema(id TypeID) (*TypeSchema, error) {
	if s, ok := r.cache[id]; ok {
		return s, nil
	}

	fields, err := r.lister.ListFields(id)
	if err != nil {
		return nil, errors.Wrapf(err, "listing fields of %s", id)
	}

	s, err := NewTypeSchema(id, fields)
	if err != nil {
		return nil, err
	}

	r.cache[id] = s

	return s, nil
}

// Len returns the number of cached schemas.
func (r *Registry) Len() int {
	return len(r.cache)
}
