package prompt

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SubjectFromIdea condenses a free-form idea into a subject: the text before
// the first comma, period or semicolon, with its first letter capitalised.
func SubjectFromIdea(idea string) string {
	condensed := strings.TrimSpace(idea)
	if condensed == "" {
		return ""
	}
	if idx := strings.IndexAny(condensed, ",.;"); idx >= 0 {
		condensed = condensed[:idx]
	}
	condensed = strings.TrimSpace(condensed)
	if condensed == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(condensed)
	return cases.Upper(language.BrazilianPortuguese).String(string(first)) + condensed[size:]
}
