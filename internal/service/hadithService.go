package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/validator"
)

type HadithService struct {
	hadiths     data.HadithModel
	topics      data.TopicModel
	collections data.CollectionModel
	logger      *slog.Logger

	now    func() time.Time
	random func(n int) int
}

func NewHadithService(
	hadiths data.HadithModel,
	topics data.TopicModel,
	collections data.CollectionModel,
	logger *slog.Logger,
) *HadithService {
	return &HadithService{
		hadiths:     hadiths,
		topics:      topics,
		collections: collections,
		logger:      logger,
		now:         time.Now,
		random:      rand.IntN,
	}
}

type ListInput struct {
	Page         int
	Limit        int
	Language     string
	Collection   string
	Grade        string
	BookNumber   int
	HadithNumber int
}

type HadithPage struct {
	Data       []*data.SearchResult `json:"data"`
	Pagination data.Pagination      `json:"pagination"`
}

// List browses the corpus in reference order. Returns a validator when the
// paging or reference fields are out of range.
func (s *HadithService) List(ctx context.Context, in ListInput) (*HadithPage, *validator.Validator, error) {
	if in.Language == "" {
		in.Language = DefaultLanguage
	}
	if in.Page == 0 {
		in.Page = DefaultPage
	}
	if in.Limit == 0 {
		in.Limit = DefaultLimit
	}

	f := data.Filters{Page: in.Page, PageSize: in.Limit}

	v := validator.New()
	f.Validate(v)
	v.Check(in.BookNumber >= 0, "book", "must not be negative")
	v.Check(in.BookNumber <= math.MaxInt32, "book", "must not be more than 2147483647")
	v.Check(in.HadithNumber >= 0, "number", "must not be negative")
	v.Check(in.HadithNumber <= math.MaxInt32, "number", "must not be more than 2147483647")
	if !v.Valid() {
		return nil, v, nil
	}

	lf := data.ListFilters{
		SearchFilters: data.SearchFilters{
			Language:   in.Language,
			Collection: in.Collection,
			Grade:      in.Grade,
		},
		BookNumber:   in.BookNumber,
		HadithNumber: in.HadithNumber,
	}

	results, total, err := s.hadiths.List(ctx, lf, f)
	if err != nil {
		return nil, nil, err
	}
	if results == nil {
		results = []*data.SearchResult{}
	}

	return &HadithPage{
		Data:       results,
		Pagination: data.NewPagination(total, in.Page, in.Limit),
	}, nil, nil
}

func (s *HadithService) Get(ctx context.Context, id int64, language string) (*data.SearchResult, error) {
	if language == "" {
		language = DefaultLanguage
	}

	h, err := s.hadiths.Get(ctx, id, language)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, ErrHadithNotFound
		}
		return nil, err
	}

	return h, nil
}

type RandomInput struct {
	Language   string
	Collection string
	Grade      string
}

// Random picks a uniformly random hadith among those matching the filters.
func (s *HadithService) Random(ctx context.Context, in RandomInput) (*data.SearchResult, error) {
	sf := data.SearchFilters{Language: in.Language, Collection: in.Collection, Grade: in.Grade}
	if sf.Language == "" {
		sf.Language = DefaultLanguage
	}

	return s.pick(ctx, sf, func(count int) int {
		return s.random(count)
	})
}

// Daily returns the hadith of the UTC day. The pick only changes when the day
// or the corpus size does.
func (s *HadithService) Daily(ctx context.Context, language string) (*data.SearchResult, error) {
	if language == "" {
		language = DefaultLanguage
	}

	day := int(s.now().UTC().Unix() / int64(24*time.Hour/time.Second))

	return s.pick(ctx, data.SearchFilters{Language: language}, func(count int) int {
		return day % count
	})
}

func (s *HadithService) pick(ctx context.Context, sf data.SearchFilters, offset func(count int) int) (*data.SearchResult, error) {
	count, err := s.hadiths.Count(ctx, sf)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrHadithNotFound
	}

	h, err := s.hadiths.FindAt(ctx, sf, offset(count))
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			// The corpus shrank between the two reads.
			return nil, ErrHadithNotFound
		}
		return nil, err
	}

	return h, nil
}

func (s *HadithService) Topics(ctx context.Context) ([]*data.Topic, error) {
	return s.topics.List(ctx)
}

func (s *HadithService) Collections(ctx context.Context) ([]*data.Collection, error) {
	return s.collections.List(ctx)
}

func (s *HadithService) Collection(ctx context.Context, slug string) (*data.Collection, error) {
	c, err := s.collections.Get(ctx, slug)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}

	return c, nil
}
