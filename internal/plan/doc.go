// Package plan computes the ordered field copies of a mapping declaration.
//
// A rule copies every source field, in source declaration order, that is
// not ignored and that the target declares under the same name. Source
// fields left out are listed as skipped with the reason.
package plan
