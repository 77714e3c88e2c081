// Package string holds the small text helpers request types share.
package string

import (
	"strings"
	"unicode"
)

// TrimStrings trims each target in place.
func TrimStrings(targets ...*string) {
	for _, t := range targets {
		*t = strings.TrimSpace(*t)
	}
}

// CollapseSpaces trims s and folds inner whitespace runs to one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ToSnakeCase maps a Go field name to its wire form. Acronyms stay one
// word: PaymentDueID becomes payment_due_id.
func ToSnakeCase(name string) string {
	runes := []rune(name)
	out := make([]rune, 0, len(runes)+4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && startsWord(runes, i) {
			out = append(out, '_')
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}

// startsWord reports whether the upper-case rune at i opens a new word:
// after a lower-case rune, or as the last capital of an acronym.
func startsWord(runes []rune, i int) bool {
	if unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) {
		return true
	}
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
