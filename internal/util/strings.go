package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s used for case-insensitive comparison of command
// names and aliases. A Caser keeps state, so each call gets its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold compares a and b after Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// IsLegalName reports whether s can be used as a command name or alias: non-empty, no
// whitespace or control characters and no leading option prefix.
func IsLegalName(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}

	return true
}

// IsLegalOptionName is like IsLegalName but also rejects '=' which separates an inline value.
func IsLegalOptionName(s string) bool {
	return IsLegalName(s) && !strings.ContainsRune(s, '=')
}
