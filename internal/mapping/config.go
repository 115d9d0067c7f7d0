package mapping

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"mapper-generator/internal/common"
	"mapper-generator/internal/diagnostic"
)

// StyleVariant selects the shape of the generated implementation.
type StyleVariant int

const (
	// StyleDefault generates a plain struct type implementing the contract.
	StyleDefault StyleVariant = iota
	// StyleFrameworkManaged additionally marks the type for DI registration.
	StyleFrameworkManaged
	// StyleStaticUtility generates package-level functions only.
	StyleStaticUtility
)

// String returns the canonical style name.
func (s StyleVariant) String() string {
	switch s {
	case StyleDefault:
		return "DEFAULT"
	case StyleFrameworkManaged:
		return "FRAMEWORK_MANAGED"
	case StyleStaticUtility:
		return "STATIC_UTILITY"
	default:
		return common.UnknownStr
	}
}

var styleAliases = map[string]StyleVariant{
	"default":          StyleDefault,
	"frameworkmanaged": StyleFrameworkManaged,
	"framework":        StyleFrameworkManaged,
	"component":        StyleFrameworkManaged,
	"staticutility":    StyleStaticUtility,
	"static":           StyleStaticUtility,
}

// ParseStyle parses a style name such as "static", "component" or
// "FRAMEWORK_MANAGED".
func ParseStyle(s string) (StyleVariant, error) {
	if v, ok := styleAliases[normalizeKey(s)]; ok {
		return v, nil
	}

	return StyleDefault, errors.WithHint(
		errors.Newf("unknown style %q", s),
		"use one of: default, component, static",
	)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StyleVariant) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}

	*s = v

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s StyleVariant) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// ContractConfig is the per-contract policy.
type ContractConfig struct {
	// StrictChecks makes validation findings fatal.
	StrictChecks bool
	// IgnoredMethods names methods that get a stub implementation.
	IgnoredMethods []string
	// Style selects the generated shape.
	Style StyleVariant
	// IgnoredStrictRules downgrades findings of these rules to warnings.
	IgnoredStrictRules diagnostic.RuleSet
	// Methods holds per-method configuration keyed by method name.
	Methods map[string]MethodConfig
}

// MethodConfig is the per-method configuration.
type MethodConfig struct {
	// Ignore generates a stub that returns the zero value.
	Ignore bool
	// IgnoredFields are source fields excluded from the copy.
	IgnoredFields []string
	// NullSafe adds a nil guard for pointer sources.
	NullSafe bool
	// GenerateListVariant adds a slice companion method.
	GenerateListVariant bool
}

// DefaultContractConfig returns the default contract configuration.
func DefaultContractConfig() ContractConfig {
	return ContractConfig{
		Style:              StyleDefault,
		IgnoredStrictRules: diagnostic.NewRuleSet(),
		Methods:            make(map[string]MethodConfig),
	}
}

// DefaultMethodConfig returns the default method configuration.
func DefaultMethodConfig() MethodConfig {
	return MethodConfig{NullSafe: true}
}

// Method returns the configuration of the named method, or the defaults.
func (c ContractConfig) Method(name string) MethodConfig {
	if mc, ok := c.Methods[name]; ok {
		return mc
	}

	return DefaultMethodConfig()
}

// IsMethodIgnored reports whether name appears in IgnoredMethods.
func (c ContractConfig) IsMethodIgnored(name string) bool {
	return slices.Contains(c.IgnoredMethods, name)
}

// Clone returns a deep copy of the configuration.
func (c ContractConfig) Clone() ContractConfig {
	out := c
	out.IgnoredMethods = slices.Clone(c.IgnoredMethods)

	out.IgnoredStrictRules = diagnostic.NewRuleSet(c.IgnoredStrictRules.Sorted()...)

	out.Methods = make(map[string]MethodConfig, len(c.Methods))
	for name, mc := range c.Methods {
		mc.IgnoredFields = slices.Clone(mc.IgnoredFields)
		out.Methods[name] = mc
	}

	return out
}

// normalizeKey lower-cases s and drops '_', '-' and blanks.
func normalizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		default:
			return r
		}
	}, strings.ToLower(strings.TrimSpace(s)))
}
