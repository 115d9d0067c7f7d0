package gen

import (
	"fmt"
	"go/format"

	"github.com/cockroachdb/errors"

	"mapper-generator/internal/common"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/plan"
	"mapper-generator/internal/resolve"
)

const (
	recvName   = "m"
	inName     = "in"
	outName    = "out"
	listSuffix = "List"
)

// ComponentDirective marks framework-managed implementations.
const ComponentDirective = "//mapper:component"

// Emitter renders contracts as Go source.
type Emitter struct {
	config Config
}

// NewEmitter creates a new Emitter with the given configuration.
func NewEmitter(config Config) *Emitter {
	return &Emitter{config: config}
}

// Config returns the emitter configuration.
func (e *Emitter) Config() Config {
	return e.config
}

// ImplName returns the name of the generated implementation of a contract.
func (e *Emitter) ImplName(contract string) string {
	return contract + e.config.Suffix
}

// Filename returns the file name of the unit generated for a contract.
func (e *Emitter) Filename(contract string) string {
	return common.SnakeCase(contract) + e.config.FileSuffix
}

// Emit renders one unit for spec. rules must be the rules of
// spec.Declarations, in the same order.
func (e *Emitter) Emit(spec *resolve.ContractSpec, rules []plan.Rule) (Unit, error) {
	if len(rules) != len(spec.Declarations) {
		return Unit{}, errors.AssertionFailedf("%s: %d rules for %d declarations",
			spec.Name(), len(rules), len(spec.Declarations))
	}

	r := renderer{
		emitter: e,
		spec:    spec,
		imports: newImportSet(spec.Contract.ID.PkgPath),
		impl:    e.ImplName(spec.Name()),
	}

	decls, err := r.decls(rules)
	if err != nil {
		return Unit{}, err
	}

	f := &file{
		header:  markerLines(e.config),
		pkgName: spec.Contract.PkgName,
		imports: r.imports.specs(),
		decls:   decls,
	}

	raw := f.bytes()

	src, err := format.Source(raw)
	if err != nil {
		return Unit{}, errors.Wrapf(err, "formatting %s", r.impl)
	}

	return Unit{
		Namespace: spec.Contract.ID.PkgPath,
		Name:      r.impl,
		Dir:       spec.Contract.Dir,
		Filename:  e.Filename(spec.Name()),
		Source:    src,
	}, nil
}

// renderer holds the state of one Emit call.
type renderer struct {
	emitter *Emitter
	spec    *resolve.ContractSpec
	imports *importSet
	impl    string
}

func (r *renderer) static() bool {
	return r.spec.Style == mapping.StyleStaticUtility
}

func (r *renderer) decls(rules []plan.Rule) ([]decl, error) {
	var out []decl

	if !r.static() {
		out = append(out, r.typeDecls()...)
	}

	declared := make(map[string]bool, len(r.spec.Declarations))
	for _, d := range r.spec.Declarations {
		declared[d.MethodName] = true
	}

	for i := range r.spec.Declarations {
		d := &r.spec.Declarations[i]

		out = append(out, r.method(d, rules[i]))

		if !d.GenerateListVariant {
			continue
		}

		if declared[d.MethodName+listSuffix] {
			return nil, errors.Newf("%s: list companion %s%s collides with a declared method",
				r.spec.Name(), d.MethodName, listSuffix)
		}

		out = append(out, r.listMethod(d))
	}

	return out, nil
}

func (r *renderer) typeDecls() []decl {
	contract := r.spec.Name()
	doc := []string{fmt.Sprintf("%s implements %s.", r.impl, contract)}

	if r.spec.Style == mapping.StyleFrameworkManaged {
		doc = append(doc, "", ComponentDirective)
	}

	out := []decl{
		structDecl{doc: doc, name: r.impl},
		assertDecl{iface: contract, value: composite(r.impl)},
	}

	if r.spec.Style == mapping.StyleFrameworkManaged {
		out = append(out, funcDecl{
			doc:    []string{fmt.Sprintf("New%s returns the %s registered with the container.", r.impl, contract)},
			name:   "New" + r.impl,
			result: contract,
			body:   []stmt{returnStmt{value: composite(r.impl)}},
		})
	}

	return out
}

// funcName returns the declared name of a generated function.
func (r *renderer) funcName(method string) string {
	if r.static() {
		return r.spec.Name() + method
	}

	return method
}

func (r *renderer) recv() *param {
	if r.static() {
		return nil
	}

	return &param{name: recvName, typ: r.impl}
}

func (r *renderer) method(d *resolve.MappingDeclaration, rule plan.Rule) decl {
	srcType := r.imports.typeExpr(d.SourceRef)
	dstType := r.imports.typeExpr(d.TargetRef)
	zero := zeroValue(d.TargetRef.Pointer, dstType)

	fn := funcDecl{
		recv:   r.recv(),
		name:   r.funcName(d.MethodName),
		params: []param{{name: inName, typ: srcType}},
		result: dstType,
	}

	if rule.Ignore {
		fn.doc = []string{fmt.Sprintf("%s is ignored and returns the zero value.", fn.name)}
		fn.params[0].name = "_"
		fn.body = []stmt{returnStmt{value: zero}}

		return fn
	}

	fn.doc = []string{fmt.Sprintf("%s copies %s into a new %s.", fn.name, d.Source.ID.Name, d.Target.ID.Name)}

	if d.NullSafe && d.SourceRef.Pointer {
		fn.body = append(fn.body, ifNil{ident: inName, zero: zero}, blankLine{})
	}

	newTarget := composite(bareType(dstType, d.TargetRef.Pointer))
	if d.TargetRef.Pointer {
		newTarget = "&" + newTarget
	}

	fn.body = append(fn.body, define{name: outName, value: newTarget})

	for _, c := range rule.Instructions {
		fn.body = append(fn.body, assign{
			lhs: selector(outName, c.Target.Name),
			rhs: selector(inName, c.Source.Name),
		})
	}

	fn.body = append(fn.body, blankLine{}, returnStmt{value: outName})

	return fn
}

func (r *renderer) listMethod(d *resolve.MappingDeclaration) decl {
	srcType := r.imports.typeExpr(d.SourceRef)
	dstType := r.imports.typeExpr(d.TargetRef)
	single := r.funcName(d.MethodName)

	target := single
	if !r.static() {
		target = selector(recvName, single)
	}

	fn := funcDecl{
		doc:    []string{fmt.Sprintf("%s applies %s to every element of in, keeping order.", single+listSuffix, single)},
		recv:   r.recv(),
		name:   single + listSuffix,
		params: []param{{name: inName, typ: "[]" + srcType}},
		result: "[]" + dstType,
	}

	if d.NullSafe {
		fn.body = append(fn.body, ifNil{ident: inName, zero: "nil"}, blankLine{})
	}

	fn.body = append(fn.body,
		define{name: outName, value: call("make", "[]"+dstType, call("len", inName))},
		rangeMap{in: inName, out: outName, fn: target},
		blankLine{},
		returnStmt{value: outName},
	)

	return fn
}

// bareType strips the leading '*' of a pointer type expression.
func bareType(expr string, pointer bool) string {
	if pointer {
		return expr[1:]
	}

	return expr
}

func zeroValue(pointer bool, typ string) string {
	if pointer {
		return "nil"
	}

	return composite(typ)
}
