// Package diagnostic provides structured findings, warnings and errors
// collected while a generation round runs.
//
// Key capabilities:
//   - Rule kinds for strict schema checks (field count, names, types,
//     invalid ignore references)
//   - Severity policy (info, warning, error)
//   - An append-only, ordered diagnostics list per round
//   - "Did you mean" suggestions attached to findings
package diagnostic
