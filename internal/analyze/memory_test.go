package analyze

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-generator/internal/schema"
)

func TestMemory(t *testing.T) {
	contract := schema.Contract{ID: schema.TypeID{PkgPath: "example.com/people", Name: "PersonMapper"}}
	person := schema.TypeID{PkgPath: "example.com/people", Name: "Person"}

	mem := NewMemory().
		AddContract(contract, schema.Method{
			Name:    "ToDTO",
			Params:  []schema.TypeRef{Record(person.PkgPath, person.Name, true)},
			Results: []schema.TypeRef{Record(person.PkgPath, "PersonDTO", true)},
		}).
		AddStruct(person, Field("Name", "string"), Field("Age", "int"))

	contracts, err := mem.ListContracts()
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, "people", contracts[0].PkgName)
	assert.Equal(t, schema.TypeKindInterface, contracts[0].Kind)
	assert.Equal(t, []schema.Member{{Name: "ToDTO", Kind: schema.MemberMethod}}, contracts[0].Members)

	methods, err := mem.ListContractMethods(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "ToDTO", methods[0].Name)

	fields, err := mem.ListFields(person)
	require.NoError(t, err)
	assert.Equal(t, 1, fields[1].Index)

	_, err = mem.ListFields(schema.TypeID{Name: "Nope"})
	assert.True(t, errors.Is(err, ErrUnknownType))

	_, err = mem.ListContractMethods(person)
	assert.True(t, errors.Is(err, ErrUnknownType))
}
