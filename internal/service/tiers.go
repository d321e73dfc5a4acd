package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"shuvoedward/hadith_search/internal/data"
)

type tier string

const (
	tierTrigram  tier = "trigram"
	tierKeyword  tier = "keyword"
	tierStandard tier = "standard"
)

const minKeywordLength = 3

var stopWords = map[string]struct{}{
	// English
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {}, "this": {},
	"are": {}, "was": {}, "not": {}, "but": {}, "who": {}, "his": {}, "her": {},
	"into": {}, "upon": {}, "about": {},
	// Russian
	"для": {}, "как": {}, "что": {}, "это": {}, "или": {}, "его": {}, "она": {},
	"они": {}, "при": {}, "над": {}, "под": {}, "без": {}, "про": {}, "кто": {},
	"так": {}, "тот": {}, "все": {}, "если": {}, "чтобы": {},
}

// ExtractKeywords splits a normalized query into the keywords used by the
// keyword tier: short tokens and stop words are dropped.
func ExtractKeywords(query string) []string {
	var keywords []string
	for _, token := range strings.Fields(query) {
		if utf8.RuneCountInString(token) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		keywords = append(keywords, token)
	}
	return keywords
}

// searchText runs the text tiers in order. A trigram failure degrades to the
// substring tier; a failure in the keyword or substring tier is final.
func (s *SearchService) searchText(ctx context.Context, query string, in SearchInput) (*SearchPage, error) {
	sf, f := in.searchFilters(), in.filters()

	if !s.config.FuzzyEnabled {
		return s.runTier(ctx, tierStandard, query, in, func() ([]*data.SearchResult, int, error) {
			return s.hadiths.SubstringSearch(ctx, query, sf, f)
		})
	}

	threshold := thresholdFor(query)
	results, total, err := s.hadiths.TrigramSearch(ctx, query, threshold, sf, f)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrSearchFailed, ctx.Err())
		}
		s.logger.Warn("trigram search failed, falling back to substring search",
			"query", query, "language", in.Language, "tier", tierTrigram, "error", err)

		return s.runTier(ctx, tierStandard, query, in, func() ([]*data.SearchResult, int, error) {
			return s.hadiths.SubstringSearch(ctx, query, sf, f)
		})
	}
	if total > 0 {
		return newSearchPage(results, total, in), nil
	}

	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return newSearchPage(nil, 0, in), nil
	}

	return s.runTier(ctx, tierKeyword, query, in, func() ([]*data.SearchResult, int, error) {
		return s.hadiths.KeywordSearch(ctx, keywords, sf, f)
	})
}

func (s *SearchService) runTier(
	ctx context.Context,
	t tier,
	query string,
	in SearchInput,
	run func() ([]*data.SearchResult, int, error),
) (*SearchPage, error) {
	results, total, err := run()
	if err != nil {
		s.logger.Error("search tier failed", "query", query, "language", in.Language, "tier", t, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	s.logger.Debug("search served", "query", query, "tier", t, "total", total)
	return newSearchPage(results, total, in), nil
}
