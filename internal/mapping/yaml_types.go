package mapping

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"mapper-generator/internal/common"
	"mapper-generator/internal/diagnostic"
)

// File is the root structure of a mapper.yaml override file.
type File struct {
	// Version is the schema version of the file.
	Version string `yaml:"version"`
	// Generator carries CLI settings; it is read by the CLI, not by this package.
	Generator map[string]any `yaml:"generator,omitempty"`
	// Contracts override the directive configuration of contracts.
	Contracts []ContractEntry `yaml:"contracts,omitempty"`
}

// ContractEntry overrides the configuration of one contract.
// Nil pointer fields leave the directive value in place.
type ContractEntry struct {
	// Contract is the bare interface name or "import/path.Name".
	Contract       string                 `yaml:"contract"`
	Strict         *bool                  `yaml:"strict,omitempty"`
	Style          *StyleVariant          `yaml:"style,omitempty"`
	IgnoredMethods StringOrArray          `yaml:"ignored_methods,omitempty"`
	IgnoredRules   StringOrArray          `yaml:"ignored_rules,omitempty"`
	Methods        map[string]MethodEntry `yaml:"methods,omitempty"`
}

// MethodEntry overrides the configuration of one method.
type MethodEntry struct {
	Ignore        *bool         `yaml:"ignore,omitempty"`
	IgnoredFields StringOrArray `yaml:"ignored_fields,omitempty"`
	NullSafe      *bool         `yaml:"null_safe,omitempty"`
	List          *bool         `yaml:"list,omitempty"`
}

// StringOrArray is a list of strings that can be written in YAML as a single
// scalar or as a sequence. A comma separated scalar is split.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		*s = common.SplitList(str)

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return errors.Newf("line %d: expected string or array", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// Lookup returns the entry for the contract with the given package path
// and name. An entry naming the full path wins over a bare-name entry.
func (f *File) Lookup(pkgPath, name string) (*ContractEntry, bool) {
	if f == nil {
		return nil, false
	}

	full := pkgPath + "." + name

	var bare *ContractEntry

	for i := range f.Contracts {
		entry := &f.Contracts[i]

		switch entry.Contract {
		case full:
			return entry, true
		case name:
			if bare == nil {
				bare = entry
			}
		}
	}

	return bare, bare != nil
}

// ContractNames returns the bare names of every contract listed in the file.
func (f *File) ContractNames() []string {
	if f == nil {
		return nil
	}

	names := make([]string, 0, len(f.Contracts))

	for _, entry := range f.Contracts {
		name := entry.Contract
		if i := strings.LastIndexByte(name, '.'); i >= 0 && strings.Contains(name, "/") {
			name = name[i+1:]
		}

		names = append(names, name)
	}

	return common.Dedup(names)
}

// Apply overlays the set keys of the entry onto cfg.
func (e *ContractEntry) Apply(cfg *ContractConfig) error {
	if e.Strict != nil {
		cfg.StrictChecks = *e.Strict
	}

	if e.Style != nil {
		cfg.Style = *e.Style
	}

	if e.IgnoredMethods != nil {
		cfg.IgnoredMethods = common.Dedup([]string(e.IgnoredMethods))
	}

	if e.IgnoredRules != nil {
		rules := diagnostic.NewRuleSet()

		for _, name := range e.IgnoredRules {
			rule, err := diagnostic.ParseRuleKind(name)
			if err != nil {
				return errors.Wrapf(err, "contract %s", e.Contract)
			}

			rules[rule] = struct{}{}
		}

		cfg.IgnoredStrictRules = rules
	}

	if cfg.Methods == nil {
		cfg.Methods = make(map[string]MethodConfig)
	}

	for name, me := range e.Methods {
		mc := cfg.Method(name)
		me.apply(&mc)
		cfg.Methods[name] = mc
	}

	return nil
}

func (e MethodEntry) apply(mc *MethodConfig) {
	if e.Ignore != nil {
		mc.Ignore = *e.Ignore
	}

	if e.IgnoredFields != nil {
		mc.IgnoredFields = common.Dedup([]string(e.IgnoredFields))
	}

	if e.NullSafe != nil {
		mc.NullSafe = *e.NullSafe
	}

	if e.List != nil {
		mc.GenerateListVariant = *e.List
	}
}
