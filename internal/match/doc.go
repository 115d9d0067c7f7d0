// Package match ranks field and method names by similarity so that
// validation findings can carry "did you mean" suggestions.
//
// Names are compared after NormalizeIdent folds case and separators, using
// the Levenshtein edit distance.
package match
