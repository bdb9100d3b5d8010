// Package matching contains the pure name-normalization and product-resolution
// logic used to reconcile OCR label readings with the registered catalog.
// It performs no I/O. Every caller that compares product names — the resolver,
// duplicate detection, and the on-hand aggregation — goes through Normalize so
// the comparison paths cannot drift apart.
package matching

import (
	"strings"
	"unicode"
)

// Normalize strips whitespace, hyphens, underscores and periods and lowercases
// the rest. It is total (never fails) and idempotent; empty input yields "".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// EqualNormalized reports whether two names are the same after normalization.
func EqualNormalized(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
