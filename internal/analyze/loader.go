package analyze

import (
	"context"
	"go/ast"
	"go/types"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"mapper-generator/internal/mapping"
	"mapper-generator/internal/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// ErrUnknownType is returned when a queried type was not seen while loading.
var ErrUnknownType = errors.New("unknown type")

// Loader loads Go packages and answers introspection queries about them.
type Loader struct {
	dir           string
	contractNames map[string]struct{}
	logger        *zap.Logger

	contracts []schema.Contract
	methods   map[schema.TypeID][]schema.Method
	named     map[schema.TypeID]*types.Named
}

// Option configures a Loader.
type Option func(*Loader)

// WithDir sets the directory patterns are resolved against.
func WithDir(dir string) Option {
	return func(l *Loader) { l.dir = dir }
}

// WithContractNames treats the named interfaces as contracts even without a
// //mapper:contract directive. Names may be bare or "import/path.Name".
func WithContractNames(names ...string) Option {
	return func(l *Loader) {
		for _, n := range names {
			l.contractNames[n] = struct{}{}
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a new Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		contractNames: make(map[string]struct{}),
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.reset()

	return l
}

func (l *Loader) reset() {
	l.contracts = nil
	l.methods = make(map[schema.TypeID][]schema.Method)
	l.named = make(map[schema.TypeID]*types.Named)
}

// Load loads the packages matching patterns (e.g. "./...",
// "mapper-generator/examples/people"), replacing anything loaded before.
func (l *Loader) Load(ctx context.Context, patterns ...string) error {
	l.reset()

	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     l.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return errors.Wrap(err, "failed to load packages")
	}

	var errs error

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = errors.CombineErrors(errs, e)
		}
	})

	if errs != nil {
		return errors.Wrap(errs, "package errors")
	}

	slices.SortFunc(pkgs, func(a, b *packages.Package) int {
		return strings.Compare(a.PkgPath, b.PkgPath)
	})

	for _, pkg := range pkgs {
		l.processPackage(pkg)
	}

	l.logger.Debug("packages loaded",
		zap.Strings("patterns", patterns),
		zap.Int("packages", len(pkgs)),
		zap.Int("contracts", len(l.contracts)),
	)

	return nil
}

// processPackage records the named types of a package and collects its
// contracts in declaration order.
func (l *Loader) processPackage(pkg *packages.Package) {
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		if tn, ok := scope.Lookup(name).(*types.TypeName); ok {
			l.recordNamed(tn.Type())
		}
	}

	dir := ""
	if len(pkg.GoFiles) > 0 {
		dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok {
				continue
			}

			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				directives := directiveLines(doc)
				id := schema.TypeID{PkgPath: pkg.PkgPath, Name: ts.Name.Name}

				if !mapping.HasContractDirective(directives) && !l.isNamedContract(id) {
					continue
				}

				l.addContract(pkg, dir, ts, id, directives)
			}
		}
	}
}

func (l *Loader) isNamedContract(id schema.TypeID) bool {
	_, bare := l.contractNames[id.Name]
	_, full := l.contractNames[id.String()]

	return bare || full
}

func (l *Loader) addContract(pkg *packages.Package, dir string, ts *ast.TypeSpec, id schema.TypeID, directives []string) {
	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return
	}

	contract := schema.Contract{
		ID:         id,
		PkgName:    pkg.Name,
		Dir:        dir,
		Kind:       kindOf(obj.Type().Underlying()),
		Directives: directives,
	}

	if named, ok := obj.Type().(*types.Named); ok && named.TypeParams() != nil {
		contract.TypeParams = named.TypeParams().Len()
	}

	switch ut := obj.Type().Underlying().(type) {
	case *types.Interface:
		contract.Members, l.methods[id] = interfaceMembers(ts, ut, l)
	case *types.Struct:
		for i := 0; i < ut.NumFields(); i++ {
			contract.Members = append(contract.Members, schema.Member{Name: ut.Field(i).Name(), Kind: schema.MemberField})
		}
	}

	l.contracts = append(l.contracts, contract)

	l.logger.Debug("contract found", zap.Stringer("contract", id), zap.Int("members", len(contract.Members)))
}

// interfaceMembers lists the members of an interface contract in source
// order, together with its method signatures.
func interfaceMembers(ts *ast.TypeSpec, iface *types.Interface, l *Loader) ([]schema.Member, []schema.Method) {
	var (
		members []schema.Member
		methods []schema.Method
	)

	astIface, _ := ts.Type.(*ast.InterfaceType)
	if astIface == nil || astIface.Methods == nil {
		return nil, nil
	}

	for _, field := range astIface.Methods.List {
		if len(field.Names) == 0 {
			kind := schema.MemberEmbedded
			if isTypeTerm(field.Type) {
				kind = schema.MemberTypeTerm
			}

			members = append(members, schema.Member{Name: types.ExprString(field.Type), Kind: kind})

			continue
		}

		for _, name := range field.Names {
			members = append(members, schema.Member{Name: name.Name, Kind: schema.MemberMethod})

			fn := explicitMethod(iface, name.Name)
			if fn == nil {
				continue
			}

			sig, _ := fn.Type().(*types.Signature)
			if sig == nil {
				continue
			}

			methods = append(methods, schema.Method{
				Name:       name.Name,
				Params:     l.tupleRefs(sig.Params()),
				Results:    l.tupleRefs(sig.Results()),
				Variadic:   sig.Variadic(),
				Directives: directiveLines(field.Doc),
			})
		}
	}

	return members, methods
}

func explicitMethod(iface *types.Interface, name string) *types.Func {
	for i := 0; i < iface.NumExplicitMethods(); i++ {
		if m := iface.ExplicitMethod(i); m.Name() == name {
			return m
		}
	}

	return nil
}

// isTypeTerm reports whether an embedded interface element is a type-set
// term such as "~int" or "int | string" rather than an interface name.
func isTypeTerm(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		return true
	case *ast.UnaryExpr:
		return true
	case *ast.Ident:
		return types.Universe.Lookup(e.Name) != nil && e.Name != "any" && e.Name != "error" && e.Name != "comparable"
	default:
		return false
	}
}

func (l *Loader) tupleRefs(tuple *types.Tuple) []schema.TypeRef {
	refs := make([]schema.TypeRef, 0, tuple.Len())
	for i := 0; i < tuple.Len(); i++ {
		refs = append(refs, l.typeRef(tuple.At(i).Type()))
	}

	return refs
}

// typeRef describes t, looking through at most one pointer. Named types are
// recorded so their fields can be listed later, even when they come from a
// package that was only imported.
func (l *Loader) typeRef(t types.Type) schema.TypeRef {
	ref := schema.TypeRef{Expr: types.TypeString(t, nil)}

	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		ref.Pointer = true
		t = types.Unalias(p.Elem())
	}

	ref.Kind = kindOf(t.Underlying())

	if named, ok := t.(*types.Named); ok {
		ref.ID = l.recordNamed(named)

		if pkg := named.Obj().Pkg(); pkg != nil {
			ref.PkgName = pkg.Name()
		}

		if named.TypeArgs().Len() > 0 {
			ref.Kind = schema.TypeKindOther
		}
	} else if ref.Kind == schema.TypeKindStruct {
		// Unnamed struct literals cannot be constructed by name.
		ref.Kind = schema.TypeKindOther
	}

	return ref
}

func (l *Loader) recordNamed(t types.Type) schema.TypeID {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return schema.TypeID{}
	}

	obj := named.Obj()

	id := schema.TypeID{Name: obj.Name()}
	if obj.Pkg() != nil {
		id.PkgPath = obj.Pkg().Path()
	}

	if _, seen := l.named[id]; !seen {
		l.named[id] = named
	}

	return id
}

func kindOf(t types.Type) schema.TypeKind {
	switch t.(type) {
	case *types.Basic:
		return schema.TypeKindBasic
	case *types.Struct:
		return schema.TypeKindStruct
	case *types.Interface:
		return schema.TypeKindInterface
	case *types.Slice, *types.Array:
		return schema.TypeKindSlice
	case *types.Map:
		return schema.TypeKindMap
	default:
		return schema.TypeKindOther
	}
}

// ListContracts returns the contracts found by the last Load, ordered by
// package path and then declaration order.
func (l *Loader) ListContracts() ([]schema.Contract, error) {
	return slices.Clone(l.contracts), nil
}

// ListContractMethods returns the methods of a contract in declaration order.
func (l *Loader) ListContractMethods(id schema.TypeID) ([]schema.Method, error) {
	methods, ok := l.methods[id]
	if !ok {
		if _, known := l.named[id]; !known {
			return nil, errors.Wrapf(ErrUnknownType, "contract %s", id)
		}
	}

	return slices.Clone(methods), nil
}

// ListFields returns the exported fields of a named struct type in
// declaration order.
func (l *Loader) ListFields(id schema.TypeID) ([]schema.FieldDescriptor, error) {
	named, ok := l.named[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "type %s", id)
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, errors.Newf("type %s is not a struct (kind: %s)", id, kindOf(named.Underlying()))
	}

	var fields []schema.FieldDescriptor

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		fields = append(fields, schema.FieldDescriptor{
			Name:     field.Name(),
			Type:     types.TypeString(unaliasDeep(field.Type()), nil),
			Display:  types.TypeString(field.Type(), packageName),
			Embedded: field.Embedded(),
			Index:    i,
		})
	}

	return fields, nil
}

// unaliasDeep replaces every alias inside t by the type it denotes, so that
// identical types print the same way whatever spelling the field used.
func unaliasDeep(t types.Type) types.Type {
	switch t := types.Unalias(t).(type) {
	case *types.Pointer:
		return types.NewPointer(unaliasDeep(t.Elem()))
	case *types.Slice:
		return types.NewSlice(unaliasDeep(t.Elem()))
	case *types.Array:
		return types.NewArray(unaliasDeep(t.Elem()), t.Len())
	case *types.Map:
		return types.NewMap(unaliasDeep(t.Key()), unaliasDeep(t.Elem()))
	case *types.Chan:
		return types.NewChan(t.Dir(), unaliasDeep(t.Elem()))
	case *types.Struct:
		fields := make([]*types.Var, t.NumFields())
		tags := make([]string, t.NumFields())

		for i := range fields {
			f := t.Field(i)
			fields[i] = types.NewField(f.Pos(), f.Pkg(), f.Name(), unaliasDeep(f.Type()), f.Embedded())
			tags[i] = t.Tag(i)
		}

		return types.NewStruct(fields, tags)
	case *types.Named:
		args := t.TypeArgs()
		if args.Len() == 0 {
			return t
		}

		list := make([]types.Type, args.Len())
		for i := range list {
			list[i] = unaliasDeep(args.At(i))
		}

		inst, err := types.Instantiate(nil, t.Origin(), list, false)
		if err != nil {
			return t
		}

		return inst
	default:
		return t
	}
}

func packageName(p *types.Package) string {
	return p.Name()
}

// directiveLines returns the raw //mapper: lines of a comment group.
func directiveLines(cg *ast.CommentGroup) []string {
	if cg == nil {
		return nil
	}

	var lines []string

	for _, c := range cg.List {
		if mapping.IsDirective(c.Text) {
			lines = append(lines, c.Text)
		}
	}

	return lines
}
