package service

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"shuvoedward/hadith_search/internal/data"
)

const (
	DefaultLanguage = "en"
	DefaultPage     = 1
	DefaultLimit    = 20
	MaxLimit        = 100
)

type SearchConfig struct {
	// FuzzyEnabled turns on the trigram and keyword tiers. When false every
	// text query goes straight to the substring tier.
	FuzzyEnabled bool
	CacheTTL     time.Duration
}

// FuzzyEnabledFromEnv reads ENABLE_FUZZY_SEARCH. Fuzzy search stays on
// unless the variable is explicitly set to a false value.
func FuzzyEnabledFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ENABLE_FUZZY_SEARCH"))) {
	case "false", "0", "off", "no":
		return false
	default:
		return true
	}
}

type SearchInput struct {
	Query      string
	Language   string
	Page       int
	Limit      int
	Collection string
	Grade      string
}

func (in SearchInput) withDefaults() SearchInput {
	if in.Language == "" {
		in.Language = DefaultLanguage
	}
	if in.Page < 1 {
		in.Page = DefaultPage
	}
	if in.Limit < 1 {
		in.Limit = DefaultLimit
	}
	if in.Limit > MaxLimit {
		in.Limit = MaxLimit
	}
	in.Collection = strings.TrimSpace(in.Collection)
	in.Grade = strings.TrimSpace(in.Grade)
	return in
}

func (in SearchInput) searchFilters() data.SearchFilters {
	return data.SearchFilters{
		Language:   in.Language,
		Collection: in.Collection,
		Grade:      in.Grade,
	}
}

func (in SearchInput) filters() data.Filters {
	return data.Filters{Page: in.Page, PageSize: in.Limit}
}

func (in SearchInput) offset() int {
	return (in.Page - 1) * in.Limit
}

type PageMetadata struct {
	CorrectedFrom string `json:"correctedFrom,omitempty"`
}

type SearchPage struct {
	Data       []*data.SearchResult `json:"data"`
	Pagination data.Pagination      `json:"pagination"`
	Metadata   *PageMetadata        `json:"metadata,omitempty"`
}

func newSearchPage(results []*data.SearchResult, total int, in SearchInput) *SearchPage {
	if results == nil {
		results = []*data.SearchResult{}
	}
	return &SearchPage{
		Data:       results,
		Pagination: data.NewPagination(total, in.Page, in.Limit),
	}
}

type SearchService struct {
	hadiths data.HadithModel
	cache   ResultCache
	config  SearchConfig
	logger  *slog.Logger
}

// NewSearchService wires the search pipeline. cache may be nil.
func NewSearchService(
	hadiths data.HadithModel,
	cache ResultCache,
	config SearchConfig,
	logger *slog.Logger,
) *SearchService {
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}

	return &SearchService{
		hadiths: hadiths,
		cache:   cache,
		config:  config,
		logger:  logger,
	}
}

// Search runs the full pipeline: validation, cache lookup, numeric or text
// matching, the keyboard layout retry for Russian and the cache write.
// Only infrastructure failures with no tier left return an error.
func (s *SearchService) Search(ctx context.Context, in SearchInput) (*SearchPage, error) {
	in = in.withDefaults()

	if !ValidateSearchQuery(in.Query) {
		return newSearchPage(nil, 0, in), nil
	}

	trimmed := strings.TrimSpace(in.Query)
	if isNumericQuery(trimmed) {
		key := cacheKey(trimmed, in)
		if page, ok := s.cached(ctx, key); ok {
			return page, nil
		}

		page, err := s.searchByNumber(ctx, trimmed, in)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, page)
		return page, nil
	}

	query := NormalizeQuery(in.Query)

	key := cacheKey(query, in)
	if page, ok := s.cached(ctx, key); ok {
		return page, nil
	}

	page, err := s.searchText(ctx, query, in)
	if err != nil {
		return nil, err
	}

	if shouldCorrectLayout(query, in.Language, page.Pagination.Total) {
		corrected, err := s.retryWithLayout(ctx, query, in)
		if err != nil {
			return nil, err
		}
		if corrected != nil {
			return corrected, nil
		}
	}

	s.store(ctx, key, page)
	return page, nil
}

// retryWithLayout reruns the text tiers on the query retyped on the Cyrillic
// layout. It returns nil when the retry finds nothing. A corrected page is
// cached under the corrected query.
func (s *SearchService) retryWithLayout(ctx context.Context, query string, in SearchInput) (*SearchPage, error) {
	corrected := CorrectLayout(query)
	if corrected == query {
		return nil, nil
	}

	key := cacheKey(corrected, in)
	if page, ok := s.cached(ctx, key); ok {
		page.Metadata = &PageMetadata{CorrectedFrom: query}
		return page, nil
	}

	page, err := s.searchText(ctx, corrected, in)
	if err != nil {
		return nil, err
	}
	if page.Pagination.Total == 0 {
		return nil, nil
	}

	s.logger.Info("keyboard layout corrected", "query", query, "corrected", corrected)

	page.Metadata = &PageMetadata{CorrectedFrom: query}
	s.store(ctx, key, page)
	return page, nil
}
