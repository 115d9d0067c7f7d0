package mapping

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"

	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/schema"
)

// Diagnostic codes produced while merging configuration.
const (
	CodeUnknownMethodOverride = "unknown-method-override"
)

// BuildContractConfig merges the directives of a contract and its methods
// with the matching entry of the override file. Keys set in the file win.
// Overrides naming methods the contract does not declare are reported as
// warnings on diags.
func BuildContractConfig(
	contract schema.Contract,
	methods []schema.Method,
	overrides *File,
	diags *diagnostic.Diagnostics,
) (ContractConfig, error) {
	cfg, err := ParseContractDirectives(contract.Directives)
	if err != nil {
		return cfg, errors.Wrapf(err, "contract %s", contract.ID.Name)
	}

	for _, m := range methods {
		if !HasMethodDirective(m.Directives) {
			continue
		}

		mc, err := ParseMethodDirectives(m.Directives)
		if err != nil {
			return cfg, errors.Wrapf(err, "method %s.%s", contract.ID.Name, m.Name)
		}

		cfg.Methods[m.Name] = mc
	}

	entry, ok := overrides.Lookup(contract.ID.PkgPath, contract.ID.Name)
	if !ok {
		return cfg, nil
	}

	if err := entry.Apply(&cfg); err != nil {
		return cfg, err
	}

	if diags != nil {
		for _, name := range sortedKeys(entry.Methods) {
			if slices.ContainsFunc(methods, func(m schema.Method) bool { return m.Name == name }) {
				continue
			}

			diags.AddWarning(CodeUnknownMethodOverride,
				fmt.Sprintf("override names method %q which the contract does not declare", name),
				contract.ID.Name, name)
		}
	}

	return cfg, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
