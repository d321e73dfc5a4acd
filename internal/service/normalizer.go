package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const minQueryLength = 2

var (
	trailingPunctuationRX = regexp.MustCompile(`[.,!?;:\s]+$`)
	whitespaceRX          = regexp.MustCompile(`\s+`)
	numericRX             = regexp.MustCompile(`^\d+$`)
	latinLookingRX        = regexp.MustCompile(`^[a-z0-9\s.,!?;:]+$`)

	// Cyrillic, Latin, digits and the Arabic block (which also covers Urdu).
	searchableCharRX = regexp.MustCompile(`[\x{0400}-\x{04FF}a-zA-Z0-9\x{0600}-\x{06FF}]`)
)

// NormalizeQuery lowercases the query, trims it, strips trailing punctuation
// and collapses whitespace runs into a single space.
func NormalizeQuery(query string) string {
	normalized := cases.Lower(language.Und).String(query)
	normalized = strings.TrimSpace(normalized)
	normalized = trailingPunctuationRX.ReplaceAllString(normalized, "")
	return whitespaceRX.ReplaceAllString(normalized, " ")
}

// ValidateSearchQuery reports whether a query may reach the matchers: at
// least two characters after trimming and after normalization, one of them
// searchable.
func ValidateSearchQuery(query string) bool {
	trimmed := strings.TrimSpace(query)

	if utf8.RuneCountInString(trimmed) < minQueryLength {
		return false
	}
	if utf8.RuneCountInString(NormalizeQuery(trimmed)) < minQueryLength {
		return false
	}

	return searchableCharRX.MatchString(trimmed)
}

func isNumericQuery(query string) bool {
	return numericRX.MatchString(query)
}
