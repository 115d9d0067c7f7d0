package round

import (
	"github.com/cockroachdb/errors"

	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/gen"
	"mapper-generator/internal/schema"
)

// ContractResult is the outcome of one contract.
type ContractResult struct {
	Contract schema.TypeID
	// Unit is the emitted unit; nil when the contract failed.
	Unit *gen.Unit
	// FailedIn is the state the contract was in when it failed.
	FailedIn State
	Err      error
}

// Failed reports whether the contract produced no output.
func (r ContractResult) Failed() bool {
	return r.Err != nil
}

// Report collects the results and diagnostics of a round.
type Report struct {
	Contracts   []ContractResult
	Diagnostics *diagnostic.Diagnostics
}

func newReport() *Report {
	return &Report{Diagnostics: &diagnostic.Diagnostics{}}
}

// Failed reports whether any contract failed.
func (r *Report) Failed() bool {
	for _, c := range r.Contracts {
		if c.Failed() {
			return true
		}
	}

	return false
}

// Failures returns the failed contracts in processing order.
func (r *Report) Failures() []ContractResult {
	var out []ContractResult

	for _, c := range r.Contracts {
		if c.Failed() {
			out = append(out, c)
		}
	}

	return out
}

// Units returns the units emitted by the round in processing order.
func (r *Report) Units() []gen.Unit {
	var out []gen.Unit

	for _, c := range r.Contracts {
		if c.Unit != nil {
			out = append(out, *c.Unit)
		}
	}

	return out
}

// Result returns the result of the contract with the given bare name.
func (r *Report) Result(name string) (ContractResult, bool) {
	for _, c := range r.Contracts {
		if c.Contract.Name == name {
			return c, true
		}
	}

	return ContractResult{}, false
}

// Err combines the errors of all failed contracts, or returns nil.
func (r *Report) Err() error {
	var err error

	for _, c := range r.Failures() {
		err = errors.CombineErrors(err, c.Err)
	}

	return err
}
