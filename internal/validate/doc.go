// Package validate cross-checks the source and target schemas of every
// declaration of a contract.
//
// Fields are paired by name. Each finding carries a rule kind; rules listed
// in the contract's ignoredStrictRules are reported as warnings, everything
// else is fatal in strict mode and a warning otherwise. The field count and
// field name checks only run in strict mode.
package validate
