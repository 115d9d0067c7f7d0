package validate

import (
	"slices"
	"strings"

	"mapper-generator/internal/diagnostic"
)

// StrictValidationError carries the fatal findings of the declaration that
// stopped a contract.
type StrictValidationError struct {
	Contract string
	Method   string
	Findings []diagnostic.Diagnostic
}

func (e *StrictValidationError) Error() string {
	var sb strings.Builder

	sb.WriteString("strict validation failed for ")
	sb.WriteString(e.Contract)

	if e.Method != "" {
		sb.WriteString("#")
		sb.WriteString(e.Method)
	}

	for i, f := range e.Findings {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}

		sb.WriteString(f.Rule.String())
		sb.WriteString(" ")

		if f.Field != "" {
			sb.WriteString(f.Field)
			sb.WriteString(": ")
		}

		sb.WriteString(f.Message)
	}

	return sb.String()
}

// Rules returns the rule kinds of the findings, in order, without repeats.
func (e *StrictValidationError) Rules() []diagnostic.RuleKind {
	var out []diagnostic.RuleKind

	for _, f := range e.Findings {
		if !slices.Contains(out, f.Rule) {
			out = append(out, f.Rule)
		}
	}

	return out
}
