package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName converts a person's name to its canonical form: NFKC,
// single spaces, title case. Two listings whose names normalize to the
// same string are the same contact within one source.
func NormalizeName(s string) string {
	return TitleCase(s)
}

// TitleCase collapses whitespace and title-cases s ("JANE  doe" -> "Jane Doe").
func TitleCase(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	// cases.Caser keeps state, so one per call.
	return cases.Title(language.English).String(strings.Join(fields, " "))
}
