package common

import (
	"path"
	"strings"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// ShortTypeString rewrites every fully qualified package path in a go/types
// type string to its last element, e.g. "[]example.com/shop/store.Item" becomes
// "[]store.Item".
func ShortTypeString(typeStr string) string {
	var sb strings.Builder

	start := 0

	for i := 0; i < len(typeStr); i++ {
		if !isTypeDelim(typeStr[i]) {
			continue
		}

		sb.WriteString(shortQualified(typeStr[start:i]))
		sb.WriteByte(typeStr[i])

		start = i + 1
	}

	sb.WriteString(shortQualified(typeStr[start:]))

	return sb.String()
}

func shortQualified(word string) string {
	slash := strings.LastIndexByte(word, '/')
	if slash < 0 {
		return word
	}

	return word[slash+1:]
}

func isTypeDelim(c byte) bool {
	switch c {
	case '[', ']', '*', '(', ')', ',', ' ', '{', '}', ';':
		return true
	default:
		return false
	}
}
