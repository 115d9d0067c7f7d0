package validate

import (
	"fmt"
	"slices"

	"mapper-generator/internal/common"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/match"
	"mapper-generator/internal/resolve"
)

// Validate checks every declaration of spec and appends all findings to
// diags. It returns a *StrictValidationError for the first declaration (or
// the contract itself) with a fatal finding; later declarations are not
// checked.
func Validate(spec *resolve.ContractSpec, diags *diagnostic.Diagnostics) error {
	v := validator{spec: spec}

	if findings := v.checkIgnoredMethods(); len(findings) > 0 {
		if err := v.report(diags, "", findings); err != nil {
			return err
		}
	}

	for i := range spec.Declarations {
		d := &spec.Declarations[i]
		if d.Ignore {
			continue
		}

		if err := v.report(diags, d.MethodName, v.checkDeclaration(d)); err != nil {
			return err
		}
	}

	return nil
}

// CheckDeclaration returns the findings of a single declaration without
// applying the stop-on-fatal policy.
func CheckDeclaration(spec *resolve.ContractSpec, d *resolve.MappingDeclaration) []diagnostic.Diagnostic {
	v := validator{spec: spec}

	return v.checkDeclaration(d)
}

type validator struct {
	spec *resolve.ContractSpec
}

func (v validator) report(diags *diagnostic.Diagnostics, method string, findings []diagnostic.Diagnostic) error {
	var fatal []diagnostic.Diagnostic

	for _, f := range findings {
		if diags != nil {
			diags.Add(f)
		}

		if f.IsFatal() {
			fatal = append(fatal, f)
		}
	}

	if len(fatal) == 0 {
		return nil
	}

	return &StrictValidationError{Contract: v.spec.Name(), Method: method, Findings: fatal}
}

// severity applies the exemption and strictness policy to a rule.
func (v validator) severity(rule diagnostic.RuleKind) diagnostic.DiagnosticSeverity {
	switch {
	case v.spec.IgnoredStrictRules.Has(rule):
		return diagnostic.DiagnosticWarning
	case v.spec.StrictChecks:
		return diagnostic.DiagnosticError
	default:
		return diagnostic.DiagnosticWarning
	}
}

func (v validator) finding(rule diagnostic.RuleKind, method, field, msg string) diagnostic.Diagnostic {
	f := diagnostic.NewFinding(rule, v.severity(rule), msg)
	f.Contract = v.spec.Name()
	f.Method = method
	f.Field = field

	return f
}

func (v validator) checkIgnoredMethods() []diagnostic.Diagnostic {
	declared := v.spec.MethodNames()

	var out []diagnostic.Diagnostic

	for _, name := range v.spec.IgnoredMethods {
		if slices.Contains(declared, name) {
			continue
		}

		f := v.finding(diagnostic.RuleInvalidIgnoredMethod, "", "",
			fmt.Sprintf("ignored method %q is not declared on %s", name, v.spec.Name()))
		f.Suggestions = match.Suggest(name, declared)
		out = append(out, f)
	}

	return out
}

func (v validator) checkDeclaration(d *resolve.MappingDeclaration) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic

	src, dst := d.Source, d.Target
	srcNames, dstNames := src.Names(), dst.Names()
	missingOnTarget := common.Difference(srcNames, dstNames)
	missingOnSource := common.Difference(dstNames, srcNames)
	unmatched := len(missingOnTarget) > 0 || len(missingOnSource) > 0

	if v.spec.StrictChecks && unmatched && src.Len() != dst.Len() {
		out = append(out, v.finding(diagnostic.RuleMismatchedFieldCount, d.MethodName, "",
			fmt.Sprintf("%s has %d fields but %s has %d: %s vs %s",
				src.ID.Name, src.Len(), dst.ID.Name, dst.Len(), src, dst)))
	}

	for _, sf := range src.Fields {
		tf, ok := dst.Field(sf.Name)
		if !ok || tf.Type == sf.Type {
			continue
		}

		out = append(out, v.finding(diagnostic.RuleMismatchedFieldType, d.MethodName, sf.Name,
			fmt.Sprintf("type %s on %s but %s on %s",
				sf.DisplayType(), src.ID.Name, tf.DisplayType(), dst.ID.Name)))
	}

	if v.spec.StrictChecks && unmatched {
		for _, name := range missingOnTarget {
			f := v.finding(diagnostic.RuleMismatchedFieldNames, d.MethodName, name,
				fmt.Sprintf("%s field has no counterpart on %s", src.ID.Name, dst.ID.Name))
			f.Suggestions = match.Suggest(name, missingOnSource)
			out = append(out, f)
		}

		for _, name := range missingOnSource {
			f := v.finding(diagnostic.RuleMismatchedFieldNames, d.MethodName, name,
				fmt.Sprintf("%s field has no counterpart on %s", dst.ID.Name, src.ID.Name))
			f.Suggestions = match.Suggest(name, missingOnTarget)
			out = append(out, f)
		}
	}

	for _, name := range d.IgnoredFields {
		if src.Has(name) {
			continue
		}

		f := v.finding(diagnostic.RuleInvalidIgnoredField, d.MethodName, name,
			fmt.Sprintf("ignored field is not declared on %s", src.ID.Name))
		f.Suggestions = match.Suggest(name, srcNames)
		out = append(out, f)
	}

	return out
}
