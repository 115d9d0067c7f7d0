package gen

import (
	"slices"
	"strconv"
	"strings"

	"mapper-generator/internal/common"
	"mapper-generator/internal/schema"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// importSet assigns a qualifier to every imported package of a unit.
type importSet struct {
	self    string            // package path of the unit
	byPath  map[string]string // path -> qualifier
	taken   map[string]string // qualifier -> path
	aliased map[string]bool
}

// reserved lists the identifiers used inside emitted bodies. A package
// qualifier spelled the same would be shadowed by them.
var reserved = []string{recvName, inName, outName, "i", "item", "make", "len", "nil"}

func newImportSet(self string) *importSet {
	s := &importSet{
		self:    self,
		byPath:  make(map[string]string),
		taken:   make(map[string]string),
		aliased: make(map[string]bool),
	}

	for _, name := range reserved {
		s.taken[name] = ""
	}

	return s
}

// qualifier returns the name used to refer to pkgPath, adding an import on
// first use. The unit's own package has no qualifier.
func (s *importSet) qualifier(pkgPath, pkgName string) string {
	if pkgPath == "" || pkgPath == s.self {
		return ""
	}

	if q, ok := s.byPath[pkgPath]; ok {
		return q
	}

	base := common.PkgAlias(pkgPath)
	if pkgName == "" {
		pkgName = base
	}

	name := pkgName
	for i := 2; ; i++ {
		if _, used := s.taken[name]; !used {
			break
		}

		name = pkgName + strconv.Itoa(i)
	}

	s.byPath[pkgPath] = name
	s.taken[name] = pkgPath
	s.aliased[pkgPath] = name != base

	return name
}

// typeExpr spells a parameter or result type.
func (s *importSet) typeExpr(ref schema.TypeRef) string {
	var sb strings.Builder

	if ref.Pointer {
		sb.WriteByte('*')
	}

	if q := s.qualifier(ref.ID.PkgPath, ref.PkgName); q != "" {
		sb.WriteString(q)
		sb.WriteByte('.')
	}

	sb.WriteString(ref.ID.Name)

	return sb.String()
}

// specs returns the imports sorted by path.
func (s *importSet) specs() []importSpec {
	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	out := make([]importSpec, 0, len(paths))
	for _, p := range paths {
		spec := importSpec{Path: p}
		if s.aliased[p] {
			spec.Alias = s.byPath[p]
		}

		out = append(out, spec)
	}

	return out
}
