// Package resolve turns a contract and its configuration into a ContractSpec.
//
// Resolution checks the structure of the contract:
//  1. the contract is an interface holding method signatures only
//  2. every method takes exactly one parameter and returns exactly one value
//  3. both are named struct types (or pointers to one), never contracts
//
// The first violation stops the contract with a ConfigurationError. A
// resolved ContractSpec is read-only for the rest of the round.
package resolve
