package cli

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/round"
)

// Exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // a contract failed or generated files are stale
	ExitCommandError = 2 // packages or settings could not be loaded
)

// ExitError carries the process exit code of a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode returns the exit code for err; ExitFailure when err carries none.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

func severityLabel(s diagnostic.DiagnosticSeverity) string {
	switch s {
	case diagnostic.DiagnosticError:
		return pterm.Red("error")
	case diagnostic.DiagnosticWarning:
		return pterm.Yellow("warning")
	default:
		return pterm.Gray("info")
	}
}

// printDiagnostics writes one line per diagnostic. Infos are only shown
// when verbose.
func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics, verbose bool) {
	for _, d := range diags.All() {
		if d.Severity == diagnostic.DiagnosticInfo && !verbose {
			continue
		}

		fmt.Fprintf(w, "%s %s\n", severityLabel(d.Severity), d.String())
	}
}

// printReport summarises a round.
func printReport(w io.Writer, report *round.Report, verb string) {
	for _, c := range report.Failures() {
		fmt.Fprintf(w, "%s %s (%s)\n", pterm.Red("✗"), c.Contract, c.FailedIn)
	}

	units := len(report.Units())
	warnings := len(report.Diagnostics.Warnings())

	if failed := len(report.Failures()); failed > 0 {
		fmt.Fprintf(w, "%s %d contract(s) failed, %d %s, %d warning(s)\n",
			pterm.Red("✗"), failed, units, verb, warnings)

		return
	}

	fmt.Fprintf(w, "%s %d %s, %d warning(s)\n", pterm.Green("✓"), units, verb, warnings)
}
