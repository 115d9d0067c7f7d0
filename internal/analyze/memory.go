package analyze

import (
	"slices"

	"github.com/cockroachdb/errors"

	"mapper-generator/internal/common"
	"mapper-generator/internal/schema"
)

// Memory is an in-memory introspector. It is filled by hand and is used by
// tests and by callers that already hold type information.
type Memory struct {
	contracts []schema.Contract
	methods   map[schema.TypeID][]schema.Method
	fields    map[schema.TypeID][]schema.FieldDescriptor
}

// NewMemory creates an empty Memory.
func NewMemory() *Memory {
	return &Memory{
		methods: make(map[schema.TypeID][]schema.Method),
		fields:  make(map[schema.TypeID][]schema.FieldDescriptor),
	}
}

// AddContract registers an interface contract. Members are derived from the
// methods when none are given.
func (m *Memory) AddContract(c schema.Contract, methods ...schema.Method) *Memory {
	if c.Kind == schema.TypeKindUnknown {
		c.Kind = schema.TypeKindInterface
	}

	if c.PkgName == "" {
		c.PkgName = common.PkgAlias(c.ID.PkgPath)
	}

	if c.Members == nil {
		for _, method := range methods {
			c.Members = append(c.Members, schema.Member{Name: method.Name, Kind: schema.MemberMethod})
		}
	}

	m.contracts = append(m.contracts, c)
	m.methods[c.ID] = methods

	return m
}

// AddStruct registers the exported fields of a record type.
func (m *Memory) AddStruct(id schema.TypeID, fields ...schema.FieldDescriptor) *Memory {
	for i := range fields {
		fields[i].Index = i
	}

	m.fields[id] = fields

	return m
}

// ListContracts returns the contracts in registration order.
func (m *Memory) ListContracts() ([]schema.Contract, error) {
	return slices.Clone(m.contracts), nil
}

// ListContractMethods returns the methods registered for a contract.
func (m *Memory) ListContractMethods(id schema.TypeID) ([]schema.Method, error) {
	methods, ok := m.methods[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "contract %s", id)
	}

	return slices.Clone(methods), nil
}

// ListFields returns the fields registered for a record type.
func (m *Memory) ListFields(id schema.TypeID) ([]schema.FieldDescriptor, error) {
	fields, ok := m.fields[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "type %s", id)
	}

	return slices.Clone(fields), nil
}

// Record returns a TypeRef to a named struct type.
func Record(pkgPath, name string, pointer bool) schema.TypeRef {
	return schema.TypeRef{
		ID:      schema.TypeID{PkgPath: pkgPath, Name: name},
		Kind:    schema.TypeKindStruct,
		Pointer: pointer,
	}
}

// Field is shorthand for a field descriptor whose type needs no qualifier.
func Field(name, typ string) schema.FieldDescriptor {
	return schema.FieldDescriptor{Name: name, Type: typ, Display: typ}
}
