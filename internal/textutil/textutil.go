// Package textutil holds stateless helpers for user supplied text.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the message bound the web client enforces.
const DefaultMaxLength = 500

var scriptTag = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)

// Normalize trims surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// ValidMessage reports whether trimmed s is non-empty and at most max runes.
// A max of zero or less disables the upper bound.
func ValidMessage(s string, max int) bool {
	s = Normalize(s)
	if s == "" {
		return false
	}
	return max <= 0 || utf8.RuneCountInString(s) <= max
}

// Sanitize trims s and removes <script> elements.
func Sanitize(s string) string {
	return Normalize(scriptTag.ReplaceAllString(Normalize(s), ""))
}

// Truncate shortens s to max runes and appends "..." when it was cut.
func Truncate(s string, max int) string {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + "..."
}
