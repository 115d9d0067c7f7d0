package diagnostic

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"mapper-generator/internal/common"
)

// Diagnostics is the append-only, ordered list of diagnostics of a round.
// The zero value is ready to use.
type Diagnostics struct {
	items []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Rule is set for strict validation findings.
	Rule RuleKind
	// Code is a unique identifier for this type of diagnostic.
	// Findings use the rule slug.
	Code string
	// Message is the human-readable description.
	Message string
	// Contract identifies the contract this relates to (if any).
	Contract string
	// Method identifies the contract method this relates to (if any).
	Method string
	// Field identifies which field this relates to (if any).
	Field string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// NewFinding creates a strict validation finding for the given rule.
func NewFinding(rule RuleKind, severity DiagnosticSeverity, message string) Diagnostic {
	return Diagnostic{
		Severity: severity,
		Rule:     rule,
		Code:     rule.Slug(),
		Message:  message,
	}
}

// IsFatal reports whether the diagnostic must abort processing.
func (d Diagnostic) IsFatal() bool {
	return d.Severity == DiagnosticError
}

// Subject returns "Contract#Method", "Contract" or "".
func (d Diagnostic) Subject() string {
	switch {
	case d.Contract != "" && d.Method != "":
		return d.Contract + "#" + d.Method
	case d.Contract != "":
		return d.Contract
	default:
		return d.Method
	}
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if subject := d.Subject(); subject != "" {
		prefix = append(prefix, "["+subject+"]")
	}

	if d.Field != "" {
		prefix = append(prefix, d.Field)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Add appends a diagnostic.
func (d *Diagnostics) Add(diag Diagnostic) {
	d.items = append(d.items, diag)
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, contract, method string) {
	d.Add(Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  message,
		Contract: contract,
		Method:   method,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, contract, method string) {
	d.Add(Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Contract: contract,
		Method:   method,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, contract, method string) {
	d.Add(Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Contract: contract,
		Method:   method,
	})
}

// All returns a copy of every diagnostic in insertion order.
func (d *Diagnostics) All() []Diagnostic {
	return append([]Diagnostic(nil), d.items...)
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.items)
}

// Errors returns the error diagnostics in insertion order.
func (d *Diagnostics) Errors() []Diagnostic {
	return d.bySeverity(DiagnosticError)
}

// Warnings returns the warning diagnostics in insertion order.
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.bySeverity(DiagnosticWarning)
}

// Infos returns the info diagnostics in insertion order.
func (d *Diagnostics) Infos() []Diagnostic {
	return d.bySeverity(DiagnosticInfo)
}

func (d *Diagnostics) bySeverity(s DiagnosticSeverity) []Diagnostic {
	var out []Diagnostic

	for _, item := range d.items {
		if item.Severity == s {
			out = append(out, item)
		}
	}

	return out
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == DiagnosticError {
			return true
		}
	}

	return false
}

// Merge appends all diagnostics of other, keeping their order.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}

	d.items = append(d.items, other.items...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors() {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}
