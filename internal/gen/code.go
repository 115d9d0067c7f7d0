package gen

import (
	"bytes"
	"strings"
)

// printer writes gofmt-shaped Go source with tab indentation.
type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) line(parts ...string) {
	if len(parts) == 0 {
		p.buf.WriteByte('\n')
		return
	}

	p.buf.WriteString(strings.Repeat("\t", p.indent))

	for _, s := range parts {
		p.buf.WriteString(s)
	}

	p.buf.WriteByte('\n')
}

func (p *printer) comment(lines []string) {
	for _, l := range lines {
		if l == "" {
			p.line("//")
			continue
		}

		if strings.HasPrefix(l, "//") {
			p.line(l)
			continue
		}

		p.line("// ", l)
	}
}

func (p *printer) block(open string, body func()) {
	p.line(open, " {")
	p.indent++
	body()
	p.indent--
	p.line("}")
}

// file is a Go compilation unit.
type file struct {
	header  []string
	pkgName string
	imports []importSpec
	decls   []decl
}

// bytes renders the file.
func (f *file) bytes() []byte {
	var p printer

	p.comment(f.header)
	p.line()
	p.line("package ", f.pkgName)

	if len(f.imports) > 0 {
		p.line()
		p.line("import (")
		p.indent++

		for _, imp := range f.imports {
			if imp.Alias != "" {
				p.line(imp.Alias, " ", quote(imp.Path))
			} else {
				p.line(quote(imp.Path))
			}
		}

		p.indent--
		p.line(")")
	}

	for _, d := range f.decls {
		p.line()
		d.print(&p)
	}

	return p.buf.Bytes()
}

func quote(s string) string {
	return `"` + s + `"`
}

// decl is a top-level declaration.
type decl interface {
	print(p *printer)
}

// structDecl declares an empty struct type.
type structDecl struct {
	doc  []string
	name string
}

func (d structDecl) print(p *printer) {
	p.comment(d.doc)
	p.line("type ", d.name, " struct{}")
}

// assertDecl is a compile-time interface satisfaction check.
type assertDecl struct {
	iface string
	value string
}

func (d assertDecl) print(p *printer) {
	p.line("var _ ", d.iface, " = ", d.value)
}

type param struct {
	name string
	typ  string
}

func (pa param) String() string {
	return pa.name + " " + pa.typ
}

// funcDecl is a function or method declaration with a single result.
type funcDecl struct {
	doc    []string
	recv   *param
	name   string
	params []param
	result string
	body   []stmt
}

func (d funcDecl) signature() string {
	var sb strings.Builder

	sb.WriteString("func ")

	if d.recv != nil {
		sb.WriteString("(" + d.recv.String() + ") ")
	}

	sb.WriteString(d.name + "(")

	for i, pa := range d.params {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(pa.String())
	}

	sb.WriteString(") " + d.result)

	return sb.String()
}

func (d funcDecl) print(p *printer) {
	p.comment(d.doc)
	p.block(d.signature(), func() {
		for _, s := range d.body {
			s.print(p)
		}
	})
}

// stmt is a statement inside a function body.
type stmt interface {
	print(p *printer)
}

// blankLine separates statement groups.
type blankLine struct{}

func (blankLine) print(p *printer) { p.line() }

// ifNil returns zero when ident is nil.
type ifNil struct {
	ident string
	zero  string
}

func (s ifNil) print(p *printer) {
	p.block("if "+s.ident+" == nil", func() {
		p.line("return ", s.zero)
	})
}

// define is "name := value".
type define struct {
	name  string
	value string
}

func (s define) print(p *printer) {
	p.line(s.name, " := ", s.value)
}

// assign is "lhs = rhs".
type assign struct {
	lhs string
	rhs string
}

func (s assign) print(p *printer) {
	p.line(s.lhs, " = ", s.rhs)
}

// returnStmt is "return value".
type returnStmt struct {
	value string
}

func (s returnStmt) print(p *printer) {
	p.line("return ", s.value)
}

// rangeMap is "for i, item := range in { out[i] = fn(item) }".
type rangeMap struct {
	in  string
	out string
	fn  string
}

func (s rangeMap) print(p *printer) {
	p.block("for i, item := range "+s.in, func() {
		p.line(s.out, "[i] = ", call(s.fn, "item"))
	})
}

func selector(x, sel string) string {
	return x + "." + sel
}

func call(fn string, args ...string) string {
	return fn + "(" + strings.Join(args, ", ") + ")"
}

func composite(typ string) string {
	return typ + "{}"
}
