package gen

// Unit is one generated Go file.
type Unit struct {
	// Namespace is the import path of the package the unit belongs to.
	Namespace string
	// Name is the generated implementation name, unique per namespace.
	Name string
	// Dir is the package directory on disk; empty for in-memory contracts.
	Dir string
	// Filename is the base name of the file.
	Filename string
	// Source is the formatted Go source.
	Source []byte
}

// Key returns "namespace.Name".
func (u Unit) Key() string {
	return u.Namespace + "." + u.Name
}
