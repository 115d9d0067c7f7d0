// Package analyze lists contracts, their methods and record fields.
//
// Loader reads Go packages with golang.org/x/tools/go/packages and uses the
// AST for declaration order and //mapper: directives, and go/types for
// everything else. Memory serves the same queries from hand-built data.
//
// Only exported fields are listed: generated code may live in another
// package than the record types it copies.
package analyze
