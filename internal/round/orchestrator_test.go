package round

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/gen"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/resolve"
	"mapper-generator/internal/schema"
	"mapper-generator/internal/validate"
)

const pkg = "example.com/people"

var (
	personID   = schema.TypeID{PkgPath: pkg, Name: "Person"}
	dtoID      = schema.TypeID{PkgPath: pkg, Name: "PersonDTO"}
	shortDTOID = schema.TypeID{PkgPath: pkg, Name: "ShortDTO"}
)

func mapperMethod(name string, src, dst schema.TypeID, directives ...string) schema.Method {
	return schema.Method{
		Name:       name,
		Params:     []schema.TypeRef{analyze.Record(src.PkgPath, src.Name, true)},
		Results:    []schema.TypeRef{analyze.Record(dst.PkgPath, dst.Name, true)},
		Directives: directives,
	}
}

func contract(name string, directives ...string) schema.Contract {
	return schema.Contract{
		ID:         schema.TypeID{PkgPath: pkg, Name: name},
		Directives: directives,
	}
}

func newMemory() *analyze.Memory {
	return analyze.NewMemory().
		AddStruct(personID, analyze.Field("Name", "string"), analyze.Field("Age", "int")).
		AddStruct(dtoID, analyze.Field("Name", "string"), analyze.Field("Age", "int")).
		AddStruct(shortDTOID, analyze.Field("Name", "string"))
}

func frozenEmitter() *gen.Emitter {
	cfg := gen.DefaultConfig()
	cfg.Version = "v1.0.0"
	cfg.GoVersion = "go1.24.0"
	cfg.Now = gen.FrozenClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	return gen.NewEmitter(cfg)
}

func observed(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

type transition struct {
	contract string
	state    State
}

func TestRun_AllContractsGenerated(t *testing.T) {
	mem := newMemory().
		AddContract(contract("PersonMapper"), mapperMethod("ToDTO", personID, dtoID)).
		AddContract(contract("ShortMapper", "//mapper:contract style=static"), mapperMethod("ToShort", personID, shortDTOID))

	var seen []transition

	sink := gen.NewMemorySink()
	o := NewOrchestrator(mem, sink,
		WithEmitter(frozenEmitter()),
		WithStateHook(func(id schema.TypeID, s State) {
			seen = append(seen, transition{id.Name, s})
		}),
	)

	report, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Failed())
	assert.NoError(t, report.Err())
	assert.Equal(t, StateIdle, o.State())

	units := report.Units()
	require.Len(t, units, 2)
	assert.Equal(t, units, sink.Units())
	assert.Equal(t, "PersonMapperImpl", units[0].Name)
	assert.Equal(t, "ShortMapperImpl", units[1].Name)
	assert.Contains(t, string(units[1].Source), "func ShortMapperToShort(in *Person) *ShortDTO {")

	want := []State{StateResolving, StateValidating, StateEmitting, StateWriting, StateIdle}
	require.Len(t, seen, 2*len(want))

	for i, tr := range seen {
		assert.Equal(t, want[i%len(want)], tr.state, "transition %d", i)
	}

	assert.Equal(t, "PersonMapper", seen[0].contract)
	assert.Equal(t, "ShortMapper", seen[len(want)].contract)

	// ShortMapper drops Age, which is reported as a skipped field.
	infos := report.Diagnostics.Infos()
	require.Len(t, infos, 1)
	assert.Equal(t, "Age", infos[0].Field)
	assert.Equal(t, "ToShort", infos[0].Method)
}

func TestRun_StrictFailureIsPerContract(t *testing.T) {
	mem := newMemory().
		AddContract(contract("ShortMapper", "//mapper:contract strict"), mapperMethod("ToShort", personID, shortDTOID)).
		AddContract(contract("PersonMapper"), mapperMethod("ToDTO", personID, dtoID))

	logger, logs := observed(zapcore.InfoLevel)
	sink := gen.NewMemorySink()

	report, err := NewOrchestrator(mem, sink, WithLogger(logger)).Run(context.Background())
	require.NoError(t, err)

	require.True(t, report.Failed())
	require.Len(t, report.Failures(), 1)

	failed, ok := report.Result("ShortMapper")
	require.True(t, ok)
	assert.Nil(t, failed.Unit)
	assert.Equal(t, StateValidating, failed.FailedIn)

	var strictErr *validate.StrictValidationError
	require.True(t, errors.As(failed.Err, &strictErr))
	assert.Equal(t, "ToShort", strictErr.Method)
	assert.Contains(t, report.Err().Error(), "Person(Name:string, Age:int)")
	assert.Contains(t, report.Err().Error(), "ShortDTO(Name:string)")

	ok2, _ := report.Result("PersonMapper")
	assert.False(t, ok2.Failed())
	require.Len(t, sink.Units(), 1)
	assert.Equal(t, "PersonMapperImpl", sink.Units()[0].Name)

	errs := report.Diagnostics.Errors()
	require.NotEmpty(t, errs)
	assert.Equal(t, diagnostic.RuleMismatchedFieldCount, errs[0].Rule)

	failures := logs.FilterMessage("contract failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
	assert.Equal(t, pkg+".ShortMapper", failures[0].ContextMap()["contract"])
	assert.Equal(t, "validating", failures[0].ContextMap()["state"])
}

func TestRun_ConfigurationError(t *testing.T) {
	twoParams := mapperMethod("Merge", personID, dtoID)
	twoParams.Params = append(twoParams.Params, analyze.Record(pkg, "PersonDTO", true))

	mem := newMemory().
		AddContract(contract("BrokenMapper"), twoParams).
		AddContract(contract("PersonMapper"), mapperMethod("ToDTO", personID, dtoID))

	report, err := NewOrchestrator(mem, gen.NewMemorySink()).Run(context.Background())
	require.NoError(t, err)

	failed, ok := report.Result("BrokenMapper")
	require.True(t, ok)
	assert.Equal(t, StateResolving, failed.FailedIn)
	assert.True(t, resolve.IsConfigurationError(failed.Err))
	assert.True(t, errors.Is(failed.Err, resolve.ErrSingleSource))

	errs := report.Diagnostics.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, CodeConfiguration, errs[0].Code)
	assert.Equal(t, "BrokenMapper", errs[0].Contract)
	assert.Equal(t, "Merge", errs[0].Method)

	assert.Len(t, report.Units(), 1)
}

func TestRun_WarningsAreLogged(t *testing.T) {
	mem := newMemory().
		AddContract(contract("ShortMapper"), mapperMethod("ToShort", personID, shortDTOID, "//mapper:method ignoredFields=Nickname"))

	logger, logs := observed(zapcore.WarnLevel)

	report, err := NewOrchestrator(mem, gen.NewMemorySink(), WithLogger(logger)).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Failed())

	warnings := report.Diagnostics.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, diagnostic.RuleInvalidIgnoredField, warnings[0].Rule)

	entries := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ToShort", entries[0].ContextMap()["method"])
	assert.Equal(t, "Nickname", entries[0].ContextMap()["field"])
	assert.Equal(t, diagnostic.RuleInvalidIgnoredField.String(), entries[0].ContextMap()["rule"])
}

func TestRun_DumpsSpecAtDebug(t *testing.T) {
	mem := newMemory().
		AddContract(contract("PersonMapper"), mapperMethod("ToDTO", personID, dtoID))

	logger, logs := observed(zapcore.DebugLevel)

	_, err := NewOrchestrator(mem, gen.NewMemorySink(), WithLogger(logger)).Run(context.Background())
	require.NoError(t, err)

	dumps := logs.FilterMessage("resolved contract").All()
	require.Len(t, dumps, 1)

	spec, ok := dumps[0].ContextMap()["spec"].(string)
	require.True(t, ok)
	assert.Contains(t, spec, "PersonMapper")
	assert.Contains(t, spec, "MethodName: (string) (len=5) \"ToDTO\"")
	assert.Contains(t, spec, "NullSafe: (bool) true")
	assert.Contains(t, spec, "GenerateListVariant: (bool) false")
	assert.Contains(t, spec, "IgnoredFields: ([]string)")

	assert.NotEmpty(t, logs.FilterMessage("state").All())
}

func TestRun_WithOverrides(t *testing.T) {
	overrides, err := mapping.Parse([]byte(`
version: "1"
contracts:
  - contract: PersonMapper
    style: static
    methods:
      ToDTO:
        list: true
`))
	require.NoError(t, err)

	mem := newMemory().
		AddContract(contract("PersonMapper"), mapperMethod("ToDTO", personID, dtoID))

	report, err := NewOrchestrator(mem, gen.NewMemorySink(), WithOverrides(overrides)).Run(context.Background())
	require.NoError(t, err)

	units := report.Units()
	require.Len(t, units, 1)
	assert.Contains(t, string(units[0].Source), "func PersonMapperToDTO(in *Person) *PersonDTO {")
	assert.Contains(t, string(units[0].Source), "func PersonMapperToDTOList(in []*Person) []*PersonDTO {")
}

func TestRun_OutputErrorIsPerContract(t *testing.T) {
	mem := newMemory().
		AddContract(contract("PersonMapper"), mapperMethod("ToDTO", personID, dtoID)).
		AddContract(contract("ShortMapper"), mapperMethod("ToShort", personID, shortDTOID))

	sink := gen.NewMemorySink()
	require.NoError(t, sink.Emit(gen.Unit{Namespace: pkg, Name: "PersonMapperImpl"}))

	report, err := NewOrchestrator(mem, sink).Run(context.Background())
	require.NoError(t, err)

	failed, _ := report.Result("PersonMapper")
	assert.Equal(t, StateWriting, failed.FailedIn)
	assert.True(t, errors.Is(failed.Err, gen.ErrDuplicateUnit))

	var outErr *gen.OutputError
	require.True(t, errors.As(failed.Err, &outErr))
	assert.Equal(t, pkg, outErr.Namespace)

	ok, _ := report.Result("ShortMapper")
	assert.False(t, ok.Failed())

	errs := report.Diagnostics.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, CodeOutput, errs[0].Code)
}

func TestRun_Cancelled(t *testing.T) {
	mem := newMemory().
		AddContract(contract("PersonMapper"), mapperMethod("ToDTO", personID, dtoID))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := gen.NewMemorySink()

	report, err := NewOrchestrator(mem, sink).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, report.Contracts)
	assert.Empty(t, sink.Units())
}

type failingIntrospector struct {
	*analyze.Memory
}

func (failingIntrospector) ListContracts() ([]schema.Contract, error) {
	return nil, errors.New("packages did not load")
}

func TestRun_ListContractsFails(t *testing.T) {
	_, err := NewOrchestrator(failingIntrospector{analyze.NewMemory()}, gen.NewMemorySink()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing contracts")
}

func TestRun_Idempotent(t *testing.T) {
	mem := newMemory().
		AddContract(contract("PersonMapper"), mapperMethod("ToDTO", personID, dtoID, "//mapper:method list"))

	first, err := NewOrchestrator(mem, gen.NewMemorySink(), WithEmitter(frozenEmitter())).Run(context.Background())
	require.NoError(t, err)

	second, err := NewOrchestrator(mem, gen.NewMemorySink(), WithEmitter(frozenEmitter())).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Units(), second.Units())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "writing", StateWriting.String())
	assert.Equal(t, "unknown", State(42).String())
}
