// Package schema holds the immutable value model the generator works on.
//
// It is populated once per round from an introspection facility and
// decouples the rest of the pipeline from go/types.
//
// Key types:
//   - TypeID: package import path + type name
//   - FieldDescriptor: field name plus an opaque type identifier
//   - TypeSchema: a record type and its fields in declaration order
//   - Contract, Method, TypeRef: the shape of a contract interface
//   - Registry: one TypeSchema per distinct type, built lazily
package schema
