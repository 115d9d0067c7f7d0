package round

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/gen"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/plan"
	"mapper-generator/internal/resolve"
	"mapper-generator/internal/schema"
	"mapper-generator/internal/validate"
)

// Diagnostic codes for contract failures that are not strict findings.
const (
	CodeConfiguration = "configuration-error"
	CodeEmit          = "emit-error"
	CodeOutput        = "output-error"
)

// Introspector lists the contracts of a round and describes their methods
// and record types.
type Introspector interface {
	resolve.Introspector
	ListContracts() ([]schema.Contract, error)
}

// Orchestrator runs rounds.
type Orchestrator struct {
	introspector Introspector
	sink         gen.Sink
	emitter      *gen.Emitter
	overrides    *mapping.File
	logger       *zap.Logger
	onState      func(contract schema.TypeID, state State)

	state State
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOverrides applies a mapper.yaml file to every contract.
func WithOverrides(f *mapping.File) Option {
	return func(o *Orchestrator) { o.overrides = f }
}

// WithEmitter replaces the default emitter.
func WithEmitter(e *gen.Emitter) Option {
	return func(o *Orchestrator) { o.emitter = e }
}

// WithLogger sets the logger. Resolved specs are dumped when debug is enabled.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithStateHook registers a function called on every state transition.
func WithStateHook(fn func(contract schema.TypeID, state State)) Option {
	return func(o *Orchestrator) { o.onState = fn }
}

// NewOrchestrator creates an Orchestrator writing to sink.
func NewOrchestrator(introspector Introspector, sink gen.Sink, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		introspector: introspector,
		sink:         sink,
		emitter:      gen.NewEmitter(gen.DefaultConfig()),
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
}

// Run processes every contract once. Contract failures are recorded in the
// report; the returned error is reserved for failures of the round itself
// (listing contracts, cancellation). The context is checked between
// contracts.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := newReport()

	contracts, err := o.introspector.ListContracts()
	if err != nil {
		return report, errors.Wrap(err, "listing contracts")
	}

	ids := make([]schema.TypeID, 0, len(contracts))
	for _, c := range contracts {
		ids = append(ids, c.ID)
	}

	resolver := resolve.NewResolver(o.introspector,
		resolve.WithOverrides(o.overrides),
		resolve.WithKnownContracts(ids...),
	)

	o.logger.Debug("round started", zap.Int("contracts", len(contracts)))

	for _, c := range contracts {
		if err := ctx.Err(); err != nil {
			o.transition(c.ID, StateIdle)
			return report, errors.Wrap(err, "round cancelled")
		}

		result := o.runContract(resolver, c, report.Diagnostics)
		report.Contracts = append(report.Contracts, result)
	}

	o.logger.Debug("round finished",
		zap.Int("contracts", len(report.Contracts)),
		zap.Int("failed", len(report.Failures())),
		zap.Int("warnings", len(report.Diagnostics.Warnings())),
	)

	return report, nil
}

func (o *Orchestrator) runContract(resolver *resolve.Resolver, c schema.Contract, diags *diagnostic.Diagnostics) ContractResult {
	log := o.logger.With(zap.String("contract", c.ID.String()))
	start := diags.Len()

	result := ContractResult{Contract: c.ID}

	fail := func(code string, err error) ContractResult {
		result.FailedIn = o.state
		result.Err = err

		if code != "" {
			diags.AddError(code, err.Error(), c.ID.Name, methodOf(err))
		}

		o.logDiagnostics(log, diags.All()[start:])
		log.Error("contract failed", zap.Stringer("state", result.FailedIn), zap.Error(err))
		o.transition(c.ID, StateIdle)

		return result
	}

	o.transition(c.ID, StateResolving)

	spec, err := resolver.Resolve(c, diags)
	if err != nil {
		return fail(CodeConfiguration, err)
	}

	if ce := log.Check(zap.DebugLevel, "resolved contract"); ce != nil {
		ce.Write(zap.String("spec", dumper.Sdump(spec)))
	}

	o.transition(c.ID, StateValidating)

	if err := validate.Validate(spec, diags); err != nil {
		// Findings are already in diags.
		return fail("", err)
	}

	o.transition(c.ID, StateEmitting)

	unit, err := o.emitter.Emit(spec, plan.BuildAll(spec, diags))
	if err != nil {
		return fail(CodeEmit, err)
	}

	o.transition(c.ID, StateWriting)

	if err := o.sink.Emit(unit); err != nil {
		return fail(CodeOutput, err)
	}

	o.logDiagnostics(log, diags.All()[start:])
	log.Debug("contract generated", zap.String("unit", unit.Key()), zap.String("file", unit.Filename))
	o.transition(c.ID, StateIdle)

	result.Unit = &unit

	return result
}

func (o *Orchestrator) transition(contract schema.TypeID, state State) {
	o.state = state

	o.logger.Debug("state", zap.String("contract", contract.String()), zap.Stringer("state", state))

	if o.onState != nil {
		o.onState(contract, state)
	}
}

func (o *Orchestrator) logDiagnostics(log *zap.Logger, items []diagnostic.Diagnostic) {
	for _, d := range items {
		fields := []zap.Field{zap.String("code", d.Code)}
		if d.Method != "" {
			fields = append(fields, zap.String("method", d.Method))
		}

		if d.Field != "" {
			fields = append(fields, zap.String("field", d.Field))
		}

		if d.Rule != diagnostic.RuleNone {
			fields = append(fields, zap.Stringer("rule", d.Rule))
		}

		switch d.Severity {
		case diagnostic.DiagnosticError:
			log.Error(d.Message, fields...)
		case diagnostic.DiagnosticWarning:
			log.Warn(d.Message, fields...)
		case diagnostic.DiagnosticInfo:
			log.Debug(d.Message, fields...)
		}
	}
}

// methodOf extracts the method a contract failure refers to.
func methodOf(err error) string {
	var ce *resolve.ConfigurationError
	if errors.As(err, &ce) {
		return ce.Method
	}

	var se *validate.StrictValidationError
	if errors.As(err, &se) {
		return se.Method
	}

	return ""
}
