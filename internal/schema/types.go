package schema

import (
	"strings"

	"mapper-generator/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "mapper-generator/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the type name qualified by the last package path element.
func (t TypeID) Short() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return common.PkgAlias(t.PkgPath) + "." + t.Name
}

// IsZero reports whether the TypeID is unset.
func (t TypeID) IsZero() bool {
	return t.Name == ""
}

// ParseTypeID parses "path/to/pkg.Name" or a bare "Name".
func ParseTypeID(s string) TypeID {
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 || dot < strings.LastIndexByte(s, '/') {
		return TypeID{Name: s}
	}

	return TypeID{PkgPath: s[:dot], Name: s[dot+1:]}
}

// TypeKind represents the kind of a referenced type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindInterface          // interface type
	TypeKindSlice              // slice or array
	TypeKindMap                // map
	TypeKindOther              // chan, func, ...
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindInterface:
		return "interface"
	case TypeKindSlice:
		return "slice"
	case TypeKindMap:
		return "map"
	case TypeKindOther:
		return "other"
	default:
		return common.UnknownStr
	}
}

// TypeRef describes how a method parameter or result is spelled.
// Kind describes the type after removing at most one pointer.
type TypeRef struct {
	ID      TypeID   // Set for named types
	PkgName string   // Declared name of ID's package (empty: last path element)
	Kind    TypeKind // Kind of the (dereferenced) type
	Pointer bool     // Whether the reference is *T
	Expr    string   // Original go/types string, for messages
}

// IsRecord reports whether the reference is a named struct or a pointer to one.
func (r TypeRef) IsRecord() bool {
	return r.Kind == TypeKindStruct && !r.ID.IsZero()
}

// String returns the type expression for messages.
func (r TypeRef) String() string {
	if r.Expr != "" {
		return common.ShortTypeString(r.Expr)
	}

	if r.Pointer {
		return "*" + r.ID.Short()
	}

	return r.ID.Short()
}

// MemberKind is the kind of a member declared in a contract element.
type MemberKind int

const (
	MemberMethod   MemberKind = iota // method signature
	MemberEmbedded                   // embedded interface
	MemberTypeTerm                   // type-set term (constraint interfaces)
	MemberField                      // struct field (contract declared as a struct)
)

// String returns a human-readable member kind.
func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberEmbedded:
		return "embedded"
	case MemberTypeTerm:
		return "type term"
	case MemberField:
		return "field"
	default:
		return common.UnknownStr
	}
}

// Member is one member of a contract element.
type Member struct {
	Name string
	Kind MemberKind
}

// Contract is a type declared as a mapping contract.
type Contract struct {
	ID         TypeID
	PkgName    string   // package name, used for the generated package clause
	Dir        string   // package directory on disk (empty for in-memory contracts)
	Kind       TypeKind // must be TypeKindInterface
	TypeParams int      // number of type parameters
	Members    []Member
	Directives []string // raw //mapper: lines from the doc comment
}

// Method is one method signature of a contract.
type Method struct {
	Name       string
	Params     []TypeRef
	Results    []TypeRef
	Variadic   bool
	Directives []string // raw //mapper: lines from the method doc comment
}
