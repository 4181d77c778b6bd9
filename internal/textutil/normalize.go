package textutil

import (
	"strings"
	"unicode"
)

// CollapseWhitespace trims the string and collapses internal whitespace runs
// into single spaces. The result is stable under repeated application.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StripRunes removes every rune present in discard from s.
func StripRunes(s, discard string) string {
	if discard == "" || s == "" {
		return s
	}
	drop := make(map[rune]struct{}, len(discard))
	for _, r := range discard {
		drop[r] = struct{}{}
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if _, ok := drop[r]; ok {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeLine strips discarded runes and collapses whitespace. Applying it
// to its own output yields the same string.
func NormalizeLine(s, discard string) string {
	return CollapseWhitespace(StripRunes(s, discard))
}
