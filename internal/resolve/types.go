package resolve

import (
	"fmt"
	"slices"

	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/schema"
)

// MappingDeclaration is one contract method with its resolved source and
// target schemas and its method configuration.
type MappingDeclaration struct {
	MethodName string
	Source     *schema.TypeSchema
	Target     *schema.TypeSchema
	SourceRef  schema.TypeRef
	TargetRef  schema.TypeRef

	Ignore              bool
	IgnoredFields       []string
	NullSafe            bool
	GenerateListVariant bool
}

// IsFieldIgnored reports whether the source field is excluded from the copy.
func (d *MappingDeclaration) IsFieldIgnored(name string) bool {
	return slices.Contains(d.IgnoredFields, name)
}

// String returns "Method(Source) Target".
func (d *MappingDeclaration) String() string {
	return fmt.Sprintf("%s(%s) %s", d.MethodName, d.SourceRef, d.TargetRef)
}

// ContractSpec is a resolved contract: its declarations in method order plus
// the contract-level policy.
type ContractSpec struct {
	Contract     schema.Contract
	Declarations []MappingDeclaration

	StrictChecks       bool
	IgnoredMethods     []string
	Style              mapping.StyleVariant
	IgnoredStrictRules diagnostic.RuleSet
}

// Name returns the bare contract name.
func (s *ContractSpec) Name() string {
	return s.Contract.ID.Name
}

// Declaration returns the declaration of the named method.
func (s *ContractSpec) Declaration(method string) (*MappingDeclaration, bool) {
	for i := range s.Declarations {
		if s.Declarations[i].MethodName == method {
			return &s.Declarations[i], true
		}
	}

	return nil, false
}

// MethodNames returns the declared method names in order.
func (s *ContractSpec) MethodNames() []string {
	names := make([]string, 0, len(s.Declarations))
	for _, d := range s.Declarations {
		names = append(names, d.MethodName)
	}

	return names
}
