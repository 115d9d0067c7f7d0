package mapping

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"mapper-generator/internal/common"
	"mapper-generator/internal/diagnostic"
)

// Directive prefixes recognised in doc comments.
const (
	DirectivePrefix   = "//mapper:"
	ContractDirective = DirectivePrefix + "contract"
	MethodDirective   = DirectivePrefix + "method"
)

// IsDirective reports whether a raw comment line is a //mapper: directive.
func IsDirective(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), DirectivePrefix)
}

// HasContractDirective reports whether lines mark a contract.
func HasContractDirective(lines []string) bool {
	for _, line := range lines {
		if name, _ := splitDirective(line); name == ContractDirective {
			return true
		}
	}

	return false
}

// option is one key[=value] token of a directive.
type option struct {
	key   string // normalized
	raw   string // as written
	value string
	set   bool // whether "=value" was present
}

func splitDirective(line string) (string, []option) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return "", nil
	}

	var opts []option

	for _, tok := range fields[1:] {
		key, value, hasValue := strings.Cut(tok, "=")
		opts = append(opts, option{
			key:   normalizeKey(key),
			raw:   key,
			value: strings.Trim(value, `"`),
			set:   hasValue,
		})
	}

	return fields[0], opts
}

func (o option) boolValue() (bool, error) {
	if !o.set {
		return true, nil
	}

	b, err := strconv.ParseBool(o.value)
	if err != nil {
		return false, errors.Newf("option %s: invalid boolean %q", o.raw, o.value)
	}

	return b, nil
}

// ParseContractDirectives builds a contract configuration from the
// //mapper:contract lines of a doc comment, starting from the defaults.
func ParseContractDirectives(lines []string) (ContractConfig, error) {
	cfg := DefaultContractConfig()

	for _, line := range lines {
		name, opts := splitDirective(line)
		if name != ContractDirective {
			continue
		}

		for _, o := range opts {
			if err := applyContractOption(&cfg, o); err != nil {
				return cfg, errors.Wrapf(err, "parsing %q", strings.TrimSpace(line))
			}
		}
	}

	return cfg, nil
}

func applyContractOption(cfg *ContractConfig, o option) error {
	switch o.key {
	case "strict", "strictchecks":
		b, err := o.boolValue()
		if err != nil {
			return err
		}

		cfg.StrictChecks = b
	case "style", "beantype":
		style, err := ParseStyle(o.value)
		if err != nil {
			return err
		}

		cfg.Style = style
	case "ignoredmethods", "ignoremethods":
		cfg.IgnoredMethods = common.Dedup(append(cfg.IgnoredMethods, common.SplitList(o.value)...))
	case "ignoredrules", "ignoredstrictrules", "ignoredstrictchecks":
		for _, name := range common.SplitList(o.value) {
			rule, err := diagnostic.ParseRuleKind(name)
			if err != nil {
				return err
			}

			cfg.IgnoredStrictRules[rule] = struct{}{}
		}
	default:
		return errors.WithHint(
			errors.Newf("unknown contract option %q", o.raw),
			"known options: strict, style, ignoredMethods, ignoredRules",
		)
	}

	return nil
}

// ParseMethodDirectives applies the //mapper:method lines of a method doc
// comment on top of the defaults.
func ParseMethodDirectives(lines []string) (MethodConfig, error) {
	cfg := DefaultMethodConfig()

	for _, line := range lines {
		name, opts := splitDirective(line)
		if name != MethodDirective {
			continue
		}

		for _, o := range opts {
			if err := applyMethodOption(&cfg, o); err != nil {
				return cfg, errors.Wrapf(err, "parsing %q", strings.TrimSpace(line))
			}
		}
	}

	return cfg, nil
}

func applyMethodOption(cfg *MethodConfig, o option) error {
	switch o.key {
	case "ignore":
		b, err := o.boolValue()
		if err != nil {
			return err
		}

		cfg.Ignore = b
	case "ignoredfields", "ignorefields":
		cfg.IgnoredFields = common.Dedup(append(cfg.IgnoredFields, common.SplitList(o.value)...))
	case "nullsafe":
		b, err := o.boolValue()
		if err != nil {
			return err
		}

		cfg.NullSafe = b
	case "list", "maplist", "mapall", "generatelistvariant":
		b, err := o.boolValue()
		if err != nil {
			return err
		}

		cfg.GenerateListVariant = b
	default:
		return errors.WithHint(
			errors.Newf("unknown method option %q", o.raw),
			"known options: ignore, ignoredFields, nullSafe, list",
		)
	}

	return nil
}

// HasMethodDirective reports whether lines contain a //mapper:method line.
func HasMethodDirective(lines []string) bool {
	for _, line := range lines {
		if name, _ := splitDirective(line); name == MethodDirective {
			return true
		}
	}

	return false
}
