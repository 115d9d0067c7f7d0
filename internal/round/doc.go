// Package round drives every contract of a build round through resolution,
// validation, rule building, emission and writing.
//
// A round is sequential. Each contract moves through
// Idle -> Resolving -> Validating -> Emitting -> Writing -> Idle; a
// configuration, strict validation or output error returns that contract to
// Idle as failed without affecting the others.
package round
