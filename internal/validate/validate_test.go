package validate

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapper-generator/internal/diagnostic"
	"mapper-generator/internal/resolve"
	"mapper-generator/internal/schema"
)

const pkg = "example.com/people"

func field(name, typ string) schema.FieldDescriptor {
	return schema.FieldDescriptor{Name: name, Type: typ}
}

func record(name string, fields ...schema.FieldDescriptor) *schema.TypeSchema {
	return schema.MustTypeSchema(schema.TypeID{PkgPath: pkg, Name: name}, fields...)
}

func decl(method string, src, dst *schema.TypeSchema, ignored ...string) resolve.MappingDeclaration {
	return resolve.MappingDeclaration{
		MethodName:    method,
		Source:        src,
		Target:        dst,
		IgnoredFields: ignored,
		NullSafe:      true,
	}
}

func contract(strict bool, decls ...resolve.MappingDeclaration) *resolve.ContractSpec {
	return &resolve.ContractSpec{
		Contract:           schema.Contract{ID: schema.TypeID{PkgPath: pkg, Name: "PersonMapper"}},
		Declarations:       decls,
		StrictChecks:       strict,
		IgnoredStrictRules: diagnostic.NewRuleSet(),
	}
}

var (
	person    = record("Person", field("Name", "string"), field("Age", "int"))
	personDTO = record("PersonDTO", field("Name", "string"), field("Age", "int"))
	nameOnly  = record("PersonDTO", field("Name", "string"))
)

func TestValidate_IdenticalSchemas(t *testing.T) {
	var diags diagnostic.Diagnostics

	err := Validate(contract(true, decl("ToDTO", person, personDTO)), &diags)
	require.NoError(t, err)
	assert.Zero(t, diags.Len())
}

func TestValidate_IdenticalSchemasProperty(t *testing.T) {
	for n := 0; n <= 6; n++ {
		var fields []schema.FieldDescriptor
		for i := 0; i < n; i++ {
			fields = append(fields, field(fmt.Sprintf("F%d", i), fmt.Sprintf("T%d", i%3)))
		}

		// Same set, reversed declaration order.
		reversed := make([]schema.FieldDescriptor, n)
		for i, f := range fields {
			reversed[n-1-i] = f
		}

		spec := contract(true, decl("Map", record("A", fields...), record("B", reversed...)))

		var diags diagnostic.Diagnostics

		require.NoError(t, Validate(spec, &diags), "n=%d", n)
		assert.Zero(t, diags.Len(), "n=%d", n)
	}
}

func TestValidate_MissingTargetFieldStrict(t *testing.T) {
	var diags diagnostic.Diagnostics

	err := Validate(contract(true, decl("ToDTO", person, nameOnly)), &diags)
	require.Error(t, err)

	var sve *StrictValidationError
	require.True(t, errors.As(err, &sve))
	assert.Equal(t, "PersonMapper", sve.Contract)
	assert.Equal(t, "ToDTO", sve.Method)
	assert.Equal(t, []diagnostic.RuleKind{
		diagnostic.RuleMismatchedFieldCount,
		diagnostic.RuleMismatchedFieldNames,
	}, sve.Rules())

	msg := sve.Findings[0].Message
	assert.Contains(t, msg, "Person(Name:string, Age:int)")
	assert.Contains(t, msg, "PersonDTO(Name:string)")
	assert.Contains(t, err.Error(), "MISMATCHED_FIELD_COUNT")

	errs := diags.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, "mismatched-field-count", errs[0].Code)
	assert.Equal(t, "mismatched-field-names", errs[1].Code)
	assert.Equal(t, "Age", errs[1].Field)
}

func TestValidate_MissingTargetFieldNonStrict(t *testing.T) {
	var diags diagnostic.Diagnostics

	require.NoError(t, Validate(contract(false, decl("ToDTO", person, nameOnly)), &diags))
	assert.Zero(t, diags.Len(), "count and name checks only run in strict mode")
}

func TestValidate_ExemptRule(t *testing.T) {
	spec := contract(true, decl("ToDTO", person, nameOnly))
	spec.IgnoredStrictRules = diagnostic.NewRuleSet(
		diagnostic.RuleMismatchedFieldCount,
		diagnostic.RuleMismatchedFieldNames,
	)

	var diags diagnostic.Diagnostics

	require.NoError(t, Validate(spec, &diags))
	require.Len(t, diags.Warnings(), 2)
	assert.Equal(t, diagnostic.RuleMismatchedFieldCount, diags.Warnings()[0].Rule)
	assert.Equal(t, diagnostic.RuleMismatchedFieldNames, diags.Warnings()[1].Rule)
	assert.Empty(t, diags.Errors())
}

func TestValidate_ExemptCountStillChecksNames(t *testing.T) {
	spec := contract(true, decl("ToDTO", person, nameOnly))
	spec.IgnoredStrictRules = diagnostic.NewRuleSet(diagnostic.RuleMismatchedFieldCount)

	var diags diagnostic.Diagnostics

	err := Validate(spec, &diags)
	require.Error(t, err)

	var sve *StrictValidationError
	require.True(t, errors.As(err, &sve))
	assert.Equal(t, []diagnostic.RuleKind{diagnostic.RuleMismatchedFieldNames}, sve.Rules())

	require.Len(t, diags.Warnings(), 1)
	assert.Equal(t, diagnostic.RuleMismatchedFieldCount, diags.Warnings()[0].Rule)
	require.Len(t, diags.Errors(), 1)
	assert.Equal(t, "Age", diags.Errors()[0].Field)
}

func TestValidate_FieldType(t *testing.T) {
	src := record("Person", field("Name", "string"), field("Age", "int"))
	dst := record("PersonDTO", field("Name", "string"), field("Age", "string"))

	t.Run("strict", func(t *testing.T) {
		var diags diagnostic.Diagnostics

		err := Validate(contract(true, decl("ToDTO", src, dst)), &diags)
		require.Error(t, err)

		var sve *StrictValidationError
		require.True(t, errors.As(err, &sve))
		require.Len(t, sve.Findings, 1)
		assert.Equal(t, diagnostic.RuleMismatchedFieldType, sve.Findings[0].Rule)
		assert.Equal(t, "Age", sve.Findings[0].Field)
		assert.Equal(t, "type int on Person but string on PersonDTO", sve.Findings[0].Message)
	})

	t.Run("non-strict", func(t *testing.T) {
		var diags diagnostic.Diagnostics

		require.NoError(t, Validate(contract(false, decl("ToDTO", src, dst)), &diags))
		require.Len(t, diags.Warnings(), 1)
		assert.Equal(t, diagnostic.RuleMismatchedFieldType, diags.Warnings()[0].Rule)
	})
}

func TestValidate_FieldNames(t *testing.T) {
	src := record("Person", field("Name", "string"), field("Emial", "string"))
	dst := record("PersonDTO", field("Name", "string"), field("Email", "string"))

	var diags diagnostic.Diagnostics

	err := Validate(contract(true, decl("ToDTO", src, dst)), &diags)
	require.Error(t, err)

	errs := diags.Errors()
	require.Len(t, errs, 2)

	assert.Equal(t, diagnostic.RuleMismatchedFieldNames, errs[0].Rule)
	assert.Equal(t, "Emial", errs[0].Field)
	assert.Equal(t, []string{"Email"}, errs[0].Suggestions)
	assert.Equal(t, "Email", errs[1].Field)
	assert.Equal(t, "[PersonMapper#ToDTO] Emial: [mismatched-field-names] Person field has no counterpart on PersonDTO (did you mean Email?)",
		errs[0].String())
}

func TestValidate_InvalidIgnoredField(t *testing.T) {
	src := record("Person", field("Name", "string"))
	dst := record("PersonDTO", field("Name", "string"))

	t.Run("warns when not strict", func(t *testing.T) {
		var diags diagnostic.Diagnostics

		require.NoError(t, Validate(contract(false, decl("ToDTO", src, dst, "Age")), &diags))
		require.Len(t, diags.Warnings(), 1)
		assert.Equal(t, diagnostic.RuleInvalidIgnoredField, diags.Warnings()[0].Rule)
		assert.Equal(t, "Age", diags.Warnings()[0].Field)
	})

	t.Run("fatal when strict", func(t *testing.T) {
		err := Validate(contract(true, decl("ToDTO", src, dst, "Nmae")), nil)
		require.Error(t, err)

		var sve *StrictValidationError
		require.True(t, errors.As(err, &sve))
		assert.Equal(t, diagnostic.RuleInvalidIgnoredField, sve.Findings[0].Rule)
		assert.Equal(t, []string{"Name"}, sve.Findings[0].Suggestions)
	})

	t.Run("existing field is fine", func(t *testing.T) {
		var diags diagnostic.Diagnostics

		require.NoError(t, Validate(contract(true, decl("ToDTO", person, person, "Age")), &diags))
		assert.Zero(t, diags.Len())
	})
}

func TestValidate_InvalidIgnoredMethod(t *testing.T) {
	spec := contract(true, decl("ToDTO", person, personDTO))
	spec.IgnoredMethods = []string{"ToDto"}

	var diags diagnostic.Diagnostics

	err := Validate(spec, &diags)
	require.Error(t, err)

	var sve *StrictValidationError
	require.True(t, errors.As(err, &sve))
	assert.Empty(t, sve.Method)
	assert.Equal(t, diagnostic.RuleInvalidIgnoredMethod, sve.Findings[0].Rule)
	assert.Equal(t, []string{"ToDTO"}, sve.Findings[0].Suggestions)

	spec.StrictChecks = false
	diags = diagnostic.Diagnostics{}

	require.NoError(t, Validate(spec, &diags))
	assert.Len(t, diags.Warnings(), 1)
}

func TestValidate_StopsAtFirstFatalDeclaration(t *testing.T) {
	spec := contract(true,
		decl("First", person, nameOnly),
		decl("Second", person, nameOnly),
	)

	var diags diagnostic.Diagnostics

	err := Validate(spec, &diags)
	require.Error(t, err)

	for _, d := range diags.All() {
		assert.Equal(t, "First", d.Method)
	}
}

func TestValidate_IgnoredDeclarationSkipped(t *testing.T) {
	d := decl("ToDTO", person, nameOnly, "Ghost")
	d.Ignore = true

	var diags diagnostic.Diagnostics

	require.NoError(t, Validate(contract(true, d), &diags))
	assert.Zero(t, diags.Len())
}

func TestCheckDeclaration_Collects(t *testing.T) {
	src := record("Person", field("Name", "string"), field("Age", "int"))
	dst := record("PersonDTO", field("Name", "int"))

	spec := contract(true)
	d := decl("ToDTO", src, dst, "Ghost")

	findings := CheckDeclaration(spec, &d)

	var rules []diagnostic.RuleKind
	for _, f := range findings {
		rules = append(rules, f.Rule)
	}

	assert.Equal(t, []diagnostic.RuleKind{
		diagnostic.RuleMismatchedFieldCount,
		diagnostic.RuleMismatchedFieldType,
		diagnostic.RuleInvalidIgnoredField,
	}, rules)
}
