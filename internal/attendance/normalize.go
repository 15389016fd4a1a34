package attendance

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns the matching key for a display name: surrounding
// whitespace removed, inner runs collapsed to one space, lowercased without
// locale-specific rules.
func Normalize(name string) string {
	// A Caser keeps state between calls and is not safe for concurrent use.
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(name), " "))
}
