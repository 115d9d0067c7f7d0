package plan

import (
	"fmt"

	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/resolve"
	"mapper-generator/internal/schema"
)

// Diagnostic code for skipped source fields.
const CodeSkippedField = "skipped-field"

// CopyInstruction copies one source field into the target field of the same
// name.
type CopyInstruction struct {
	Source schema.FieldDescriptor
	Target schema.FieldDescriptor
}

// String returns "out.Target = in.Source".
func (c CopyInstruction) String() string {
	return fmt.Sprintf("out.%s = in.%s", c.Target.Name, c.Source.Name)
}

// SkipReason tells why a source field is not copied.
type SkipReason int

const (
	SkipIgnored       SkipReason = iota + 1 // listed in ignoredFields
	SkipNoCounterpart                       // target has no field with that name
	SkipTypeMismatch                        // target field has a different type
)

// String returns a human-readable reason.
func (r SkipReason) String() string {
	switch r {
	case SkipIgnored:
		return "ignored"
	case SkipNoCounterpart:
		return "no counterpart on target"
	case SkipTypeMismatch:
		return "type differs on target"
	default:
		return "unknown"
	}
}

// Skipped is a source field that is not copied.
type Skipped struct {
	Field  schema.FieldDescriptor
	Reason SkipReason
}

// Rule is the copy plan of one declaration.
type Rule struct {
	Method       string
	Instructions []CopyInstruction
	Skipped      []Skipped
	// Ignore is set for ignored declarations; Instructions is then empty.
	Ignore bool
}

// Build computes the rule of a declaration: source fields in schema order,
// minus ignored fields, fields absent on the target and fields whose type
// differs. The result depends only on the schema field order and the
// declaration.
func Build(d *resolve.MappingDeclaration) Rule {
	rule := Rule{Method: d.MethodName, Ignore: d.Ignore}
	if d.Ignore {
		return rule
	}

	for _, sf := range d.Source.Fields {
		if d.IsFieldIgnored(sf.Name) {
			rule.Skipped = append(rule.Skipped, Skipped{Field: sf, Reason: SkipIgnored})
			continue
		}

		tf, ok := d.Target.Field(sf.Name)
		if !ok {
			rule.Skipped = append(rule.Skipped, Skipped{Field: sf, Reason: SkipNoCounterpart})
			continue
		}

		// A mismatch that survived validation is only a warning; the
		// output must still compile.
		if tf.Type != sf.Type {
			rule.Skipped = append(rule.Skipped, Skipped{Field: sf, Reason: SkipTypeMismatch})
			continue
		}

		rule.Instructions = append(rule.Instructions, CopyInstruction{Source: sf, Target: tf})
	}

	return rule
}

// BuildAll computes the rules of every declaration of spec in declaration
// order and reports skipped fields as info diagnostics.
func BuildAll(spec *resolve.ContractSpec, diags *diagnostic.Diagnostics) []Rule {
	rules := make([]Rule, 0, len(spec.Declarations))

	for i := range spec.Declarations {
		rule := Build(&spec.Declarations[i])

		if diags != nil {
			for _, s := range rule.Skipped {
				diags.Add(diagnostic.Diagnostic{
					Severity: diagnostic.DiagnosticInfo,
					Code:     CodeSkippedField,
					Message:  "not copied: " + s.Reason.String(),
					Contract: spec.Name(),
					Method:   rule.Method,
					Field:    s.Field.Name,
				})
			}
		}

		rules = append(rules, rule)
	}

	return rules
}

// Targets returns the target field names written by the rule, in order.
func (r Rule) Targets() []string {
	out := make([]string, 0, len(r.Instructions))
	for _, c := range r.Instructions {
		out = append(out, c.Target.Name)
	}

	return out
}
