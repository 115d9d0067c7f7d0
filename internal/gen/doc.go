// Package gen renders resolved contracts as Go source.
//
// Code is assembled from small declaration and statement values, printed in
// gofmt layout and passed through go/format. One Unit is produced per
// contract and handed to a Sink.
//
// Shapes per style:
//   - default: a struct type with value-receiver methods and a compile-time
//     interface assertion
//   - component: the same plus a //mapper:component marker and a constructor
//   - static: package-level functions named <Contract><Method>
package gen
