package common

import (
	"strings"
	"unicode"
)

// UnknownStr is the String() fallback for out-of-range enum values.
const UnknownStr = "unknown"

// SnakeCase converts a Go identifier to snake_case.
// Acronyms stay together: "PersonDTOMapper" -> "person_dto_mapper".
func SnakeCase(s string) string {
	runes := []rune(s)

	var sb strings.Builder

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && needsUnderscore(runes, i) {
				sb.WriteByte('_')
			}

			sb.WriteRune(unicode.ToLower(r))

			continue
		}

		sb.WriteRune(r)
	}

	return sb.String()
}

func needsUnderscore(runes []rune, i int) bool {
	prev := runes[i-1]
	if prev == '_' {
		return false
	}

	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	// Inside an acronym: split before the last upper-case letter when a
	// lower-case letter follows ("DTOMapper" -> "dto_mapper").
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// SplitList splits a comma-separated list, trimming blanks and dropping
// empty entries.
func SplitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}
