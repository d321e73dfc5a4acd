package service

import (
	"strings"
	"unicode/utf8"
)

// Similarity cutoffs for the trigram tier. Short single words need near
// exact matches, "iman" must not match "animal".
const (
	ThresholdShortWord  = 0.8 // single word, fewer than 5 characters
	ThresholdFiveChars  = 0.7 // single word of exactly 5 characters
	ThresholdMediumWord = 0.5 // single word, fewer than 10 characters
	ThresholdPhrase     = 0.4 // anything shorter than 30 characters
	ThresholdLong       = 0.3
)

// SimilarityThreshold maps a normalized query length (in characters) and its
// word count to the cutoff used by the trigram tier.
func SimilarityThreshold(length, wordCount int) float64 {
	single := wordCount <= 1

	switch {
	case single && length < 5:
		return ThresholdShortWord
	case single && length == 5:
		return ThresholdFiveChars
	case single && length < 10:
		return ThresholdMediumWord
	case length < 30:
		return ThresholdPhrase
	default:
		return ThresholdLong
	}
}

func thresholdFor(query string) float64 {
	return SimilarityThreshold(utf8.RuneCountInString(query), len(strings.Fields(query)))
}
