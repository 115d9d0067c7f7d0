package diagnostic

import (
	"strings"

	"github.com/cockroachdb/errors"

	"mapper-generator/internal/common"
)

// RuleKind identifies a category of schema mismatch reported by the strict
// validator. The zero value means "no rule".
type RuleKind int

const (
	RuleNone RuleKind = iota
	RuleMismatchedFieldCount
	RuleMismatchedFieldNames
	RuleMismatchedFieldType
	RuleInvalidIgnoredField
	RuleInvalidIgnoredMethod
)

// AllRules lists every real rule kind in declaration order.
var AllRules = []RuleKind{
	RuleMismatchedFieldCount,
	RuleMismatchedFieldNames,
	RuleMismatchedFieldType,
	RuleInvalidIgnoredField,
	RuleInvalidIgnoredMethod,
}

// String returns the canonical upper snake case rule name.
func (r RuleKind) String() string {
	switch r {
	case RuleNone:
		return "NONE"
	case RuleMismatchedFieldCount:
		return "MISMATCHED_FIELD_COUNT"
	case RuleMismatchedFieldNames:
		return "MISMATCHED_FIELD_NAMES"
	case RuleMismatchedFieldType:
		return "MISMATCHED_FIELD_TYPE"
	case RuleInvalidIgnoredField:
		return "INVALID_IGNORED_FIELD"
	case RuleInvalidIgnoredMethod:
		return "INVALID_IGNORED_METHOD"
	default:
		return common.UnknownStr
	}
}

// Slug returns the kebab-case form used in directives and YAML files.
func (r RuleKind) Slug() string {
	return strings.ReplaceAll(strings.ToLower(r.String()), "_", "-")
}

// ParseRuleKind parses a rule name. Both "MISMATCHED_FIELD_COUNT" and
// "mismatched-field-count" spellings are accepted.
func ParseRuleKind(s string) (RuleKind, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))

	for _, r := range AllRules {
		if r.String() == norm {
			return r, nil
		}
	}

	return RuleNone, errors.WithHintf(
		errors.Newf("unknown strict rule %q", s),
		"known rules: %s", strings.Join(ruleSlugs(), ", "),
	)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RuleKind) UnmarshalText(text []byte) error {
	parsed, err := ParseRuleKind(string(text))
	if err != nil {
		return err
	}

	*r = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r RuleKind) MarshalText() ([]byte, error) {
	return []byte(r.Slug()), nil
}

func ruleSlugs() []string {
	out := make([]string, 0, len(AllRules))
	for _, r := range AllRules {
		out = append(out, r.Slug())
	}

	return out
}

// RuleSet is a set of rule kinds.
type RuleSet map[RuleKind]struct{}

// NewRuleSet builds a set from the given rules.
func NewRuleSet(rules ...RuleKind) RuleSet {
	s := make(RuleSet, len(rules))
	for _, r := range rules {
		s[r] = struct{}{}
	}

	return s
}

// Has reports whether r is in the set.
func (s RuleSet) Has(r RuleKind) bool {
	_, ok := s[r]
	return ok
}

// Sorted returns the rules of the set in declaration order.
func (s RuleSet) Sorted() []RuleKind {
	var out []RuleKind

	for _, r := range AllRules {
		if s.Has(r) {
			out = append(out, r)
		}
	}

	return out
}
