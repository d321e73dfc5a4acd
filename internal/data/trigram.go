package data

import (
	"strings"
	"unicode"
)

// TextSimilarityIndex exposes the two text primitives the search tiers are
// built on, so the ranking policy does not depend on a storage engine.
type TextSimilarityIndex interface {
	MatchSubstring(text, query string) bool
	WordSimilarity(query, text string) float64
}

// TrigramIndex is a pure Go rendition of pg_trgm: words are lowercased
// alphanumeric runs padded with two leading blanks and one trailing blank.
type TrigramIndex struct{}

var _ TextSimilarityIndex = TrigramIndex{}

func (TrigramIndex) MatchSubstring(text, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

// Similarity is the Jaccard ratio of the two trigram sets.
func (TrigramIndex) Similarity(a, b string) float64 {
	sa, sb := trigramSet(a), trigramSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	common := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			common++
		}
	}

	return float64(common) / float64(len(sa)+len(sb)-common)
}

// WordSimilarity is the greatest similarity between the query trigrams and
// any contiguous extent of the ordered trigrams of text.
func (TrigramIndex) WordSimilarity(query, text string) float64 {
	q := trigramSet(query)
	if len(q) == 0 {
		return 0
	}
	seq := trigramSeq(text)

	best := 0.0
	for i := range seq {
		if _, ok := q[seq[i]]; !ok {
			continue
		}

		seen := make(map[string]struct{})
		common, extra := 0, 0

		for j := i; j < len(seq); j++ {
			_, inQuery := q[seq[j]]

			if _, dup := seen[seq[j]]; !dup {
				seen[seq[j]] = struct{}{}
				if inQuery {
					common++
				} else {
					extra++
				}
			}

			// Only extents ending on a query trigram can improve the score.
			if inQuery {
				if s := float64(common) / float64(len(q)+extra); s > best {
					best = s
				}
			}

			if best == 1 || float64(len(q))/float64(len(q)+extra) <= best {
				break
			}
		}

		if best == 1 {
			break
		}
	}

	return best
}

func trigramWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordTrigrams(word string) []string {
	padded := []rune("  " + word + " ")
	trigrams := make([]string, 0, len(padded)-2)
	for i := 0; i+3 <= len(padded); i++ {
		trigrams = append(trigrams, string(padded[i:i+3]))
	}
	return trigrams
}

func trigramSeq(s string) []string {
	var seq []string
	for _, w := range trigramWords(s) {
		seq = append(seq, wordTrigrams(w)...)
	}
	return seq
}

func trigramSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range trigramSeq(s) {
		set[t] = struct{}{}
	}
	return set
}
