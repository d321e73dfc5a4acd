package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"shuvoedward/hadith_search/internal/data"
)

const (
	SpellCandidateFloor = 0.3
	SpellWordFloor      = 0.4
	SpellLimit          = 3

	SuggestionFloor = 0.3
	SuggestionLimit = 5
)

type SuggestService struct {
	hadiths data.HadithModel
	topics  data.TopicModel
	logger  *slog.Logger
}

func NewSuggestService(hadiths data.HadithModel, topics data.TopicModel, logger *slog.Logger) *SuggestService {
	return &SuggestService{
		hadiths: hadiths,
		topics:  topics,
		logger:  logger,
	}
}

// Suggestions returns topic names close to the query in the given language.
// Invalid queries yield an empty list.
func (s *SuggestService) Suggestions(ctx context.Context, query, language string) ([]*data.TopicSuggestion, error) {
	if !ValidateSearchQuery(query) {
		return []*data.TopicSuggestion{}, nil
	}
	if language == "" {
		language = DefaultLanguage
	}

	suggestions, err := s.topics.Suggest(ctx, NormalizeQuery(query), language, SuggestionFloor, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	return suggestions, nil
}

// Spell returns up to SpellLimit words from translations in the given
// language that look like the query. It never rewrites a search.
func (s *SuggestService) Spell(ctx context.Context, query, language string) ([]*data.WordSuggestion, error) {
	if !ValidateSearchQuery(query) {
		return []*data.WordSuggestion{}, nil
	}
	if language == "" {
		language = DefaultLanguage
	}

	query = NormalizeQuery(query)
	if isNumericQuery(strings.ReplaceAll(query, " ", "")) {
		return []*data.WordSuggestion{}, nil
	}

	words, err := s.hadiths.SpellWords(ctx, query, language, SpellCandidateFloor, SpellWordFloor, SpellLimit)
	if err != nil {
		s.logger.Error("spelling lookup failed", "query", query, "language", language, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	return words, nil
}
