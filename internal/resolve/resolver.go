package resolve

import (
	"github.com/cockroachdb/errors"

	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/schema"
)

// Introspector supplies method signatures and record fields.
type Introspector interface {
	ListContractMethods(id schema.TypeID) ([]schema.Method, error)
	ListFields(id schema.TypeID) ([]schema.FieldDescriptor, error)
}

// Resolver builds ContractSpecs. A Resolver serves one round: record
// schemas are cached and shared between contracts.
type Resolver struct {
	introspector Introspector
	registry     *schema.Registry
	overrides    *mapping.File
	contracts    map[schema.TypeID]struct{}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOverrides applies the contract entries of a mapper.yaml file.
func WithOverrides(f *mapping.File) Option {
	return func(r *Resolver) { r.overrides = f }
}

// WithKnownContracts names the other contracts of the round. A method
// mapping from or to one of them is rejected.
func WithKnownContracts(ids ...schema.TypeID) Option {
	return func(r *Resolver) {
		for _, id := range ids {
			r.contracts[id] = struct{}{}
		}
	}
}

// NewResolver creates a new Resolver.
func NewResolver(introspector Introspector, opts ...Option) *Resolver {
	r := &Resolver{
		introspector: introspector,
		registry:     schema.NewRegistry(introspector),
		contracts:    make(map[schema.TypeID]struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve checks the structure of a contract and builds its ContractSpec.
// Configuration warnings are appended to diags. The first structural
// violation is returned as a *ConfigurationError.
func (r *Resolver) Resolve(contract schema.Contract, diags *diagnostic.Diagnostics) (*ContractSpec, error) {
	name := contract.ID.Name

	if err := checkMembers(contract); err != nil {
		return nil, configError(name, "", err)
	}

	methods, err := r.introspector.ListContractMethods(contract.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "listing methods of %s", contract.ID)
	}

	cfg, err := mapping.BuildContractConfig(contract, methods, r.overrides, diags)
	if err != nil {
		return nil, configError(name, "", err)
	}

	spec := &ContractSpec{
		Contract:           contract,
		Declarations:       make([]MappingDeclaration, 0, len(methods)),
		StrictChecks:       cfg.StrictChecks,
		IgnoredMethods:     cfg.IgnoredMethods,
		Style:              cfg.Style,
		IgnoredStrictRules: cfg.IgnoredStrictRules,
	}

	for _, m := range methods {
		decl, err := r.resolveMethod(contract, m, cfg)
		if err != nil {
			return nil, err
		}

		spec.Declarations = append(spec.Declarations, decl)
	}

	return spec, nil
}

func checkMembers(contract schema.Contract) error {
	if contract.Kind != schema.TypeKindInterface {
		return errors.WithHintf(ErrMethodsOnly, "%s is a %s, not an interface", contract.ID.Name, contract.Kind)
	}

	if contract.TypeParams > 0 {
		return errors.WithHintf(ErrMethodsOnly, "%s declares type parameters", contract.ID.Name)
	}

	for _, member := range contract.Members {
		if member.Kind != schema.MemberMethod {
			return errors.WithHintf(ErrMethodsOnly, "remove the %s member %s", member.Kind, member.Name)
		}
	}

	return nil
}

func (r *Resolver) resolveMethod(
	contract schema.Contract,
	m schema.Method,
	cfg mapping.ContractConfig,
) (MappingDeclaration, error) {
	name := contract.ID.Name

	if len(m.Params) != 1 || m.Variadic {
		return MappingDeclaration{}, configError(name, m.Name,
			errors.WithHintf(ErrSingleSource, "%s declares %d parameters", m.Name, len(m.Params)))
	}

	if len(m.Results) != 1 {
		return MappingDeclaration{}, configError(name, m.Name,
			errors.WithHintf(ErrSingleTarget, "%s declares %d results", m.Name, len(m.Results)))
	}

	source, target := m.Params[0], m.Results[0]

	for _, ref := range []schema.TypeRef{source, target} {
		if err := r.checkConcrete(contract, ref); err != nil {
			return MappingDeclaration{}, configError(name, m.Name, err)
		}
	}

	sourceSchema, err := r.registry.Schema(source.ID)
	if err != nil {
		return MappingDeclaration{}, errors.Wrapf(err, "%s#%s source", name, m.Name)
	}

	targetSchema, err := r.registry.Schema(target.ID)
	if err != nil {
		return MappingDeclaration{}, errors.Wrapf(err, "%s#%s target", name, m.Name)
	}

	mc := cfg.Method(m.Name)

	return MappingDeclaration{
		MethodName:          m.Name,
		Source:              sourceSchema,
		Target:              targetSchema,
		SourceRef:           source,
		TargetRef:           target,
		Ignore:              mc.Ignore || cfg.IsMethodIgnored(m.Name),
		IgnoredFields:       mc.IgnoredFields,
		NullSafe:            mc.NullSafe,
		GenerateListVariant: mc.GenerateListVariant,
	}, nil
}

func (r *Resolver) checkConcrete(contract schema.Contract, ref schema.TypeRef) error {
	_, isContract := r.contracts[ref.ID]

	switch {
	case ref.ID == contract.ID || isContract:
		return errors.WithHintf(ErrConcreteTypes, "%s is a contract", ref)
	case ref.Kind == schema.TypeKindInterface:
		return errors.WithHintf(ErrConcreteTypes, "%s is an interface", ref)
	case !ref.IsRecord():
		return errors.WithHintf(ErrConcreteTypes, "%s is not a named struct type", ref)
	default:
		return nil
	}
}

// Schemas returns the number of distinct record schemas built so far.
func (r *Resolver) Schemas() int {
	return r.registry.Len()
}
