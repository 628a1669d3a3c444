// Package names canonicalizes child names for comparison and display.
package names

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize lowercases a name and collapses runs of whitespace to a single
// space, matching the spacing ProperCase produces. The result is a
// comparison key and is never displayed.
func Normalize(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// Key returns the normalized "first|last" key for a child
func Key(firstName, lastName string) string {
	return Normalize(firstName) + "|" + Normalize(lastName)
}

// ProperCase capitalizes the first character of every whitespace-delimited
// word and lowercases the rest. Words are re-joined with a single space.
func ProperCase(raw string) string {
	words := strings.Fields(raw)
	for i, w := range words {
		words[i] = properWord(w)
	}
	return strings.Join(words, " ")
}

func properWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return strings.ToLower(w)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
