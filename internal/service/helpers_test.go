package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"shuvoedward/hadith_search/internal/data"
)

func ptr(s string) *string {
	return &s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCorpus holds hadith numbers 27, 127 and 270 plus hadith 5 whose
// translation mentions "27".
func newTestCorpus() *data.MemoryStore {
	s := data.NewMemoryStore()

	s.AddCollection(data.Collection{Slug: "bukhari", NameEnglish: "Sahih al-Bukhari"})
	s.AddCollection(data.Collection{Slug: "muslim", NameEnglish: "Sahih Muslim"})

	s.AddHadith(data.Hadith{
		Collection: "Sahih al-Bukhari", CollectionSlug: "bukhari", BookNumber: 1, HadithNumber: 1,
		ArabicText: "إنما الأعمال بالنيات",
		Translations: []data.Translation{
			{LanguageCode: "en", Text: "Actions are judged by intentions", Grade: ptr("Sahih")},
			{LanguageCode: "ru", Text: "Поистине, дела оцениваются по намерениям", Grade: ptr("Sahih")},
		},
	})
	s.AddHadith(data.Hadith{
		Collection: "Sahih Muslim", CollectionSlug: "muslim", BookNumber: 1, HadithNumber: 27,
		ArabicText: "الإيمان بضع وسبعون شعبة",
		Translations: []data.Translation{
			{LanguageCode: "en", Text: "Faith has over seventy branches", Grade: ptr("Sahih")},
		},
	})
	s.AddHadith(data.Hadith{
		Collection: "Sahih al-Bukhari", CollectionSlug: "bukhari", BookNumber: 2, HadithNumber: 127,
		ArabicText: "من صام رمضان",
		Translations: []data.Translation{
			{LanguageCode: "en", Text: "Whoever fasts Ramadan out of faith", Grade: ptr("Sahih")},
			{LanguageCode: "ru", Text: "Кто постился в рамадан с верой", Grade: ptr("Sahih")},
		},
	})
	s.AddHadith(data.Hadith{
		Collection: "Sahih al-Bukhari", CollectionSlug: "bukhari", BookNumber: 1, HadithNumber: 270,
		ArabicText: "الدين النصيحة",
		Translations: []data.Translation{
			{LanguageCode: "en", Text: "Religion is sincere advice", Grade: ptr("Hasan")},
		},
	})
	s.AddHadith(data.Hadith{
		Collection: "Sahih Muslim", CollectionSlug: "muslim", BookNumber: 1, HadithNumber: 5,
		ArabicText: "الطهور شطر الإيمان",
		Translations: []data.Translation{
			{LanguageCode: "en", Text: "Purity is half of faith, see chapter 27"},
		},
	})
	s.AddHadith(data.Hadith{
		Collection: "Sahih al-Bukhari", CollectionSlug: "bukhari", BookNumber: 3, HadithNumber: 12,
		ArabicText: "الإيمان أن تؤمن بالله",
		Translations: []data.Translation{
			{LanguageCode: "en", Text: "Faith is to believe in Allah", Grade: ptr("Hasan")},
		},
	})

	s.AddTopic(data.Topic{Slug: "intentions", NameEnglish: "Intentions", NameRussian: ptr("Намерения")}, 1)
	s.AddTopic(data.Topic{Slug: "ramadan", NameEnglish: "Ramadan", NameRussian: ptr("Рамадан")}, 3)
	s.AddTopic(data.Topic{Slug: "faith", NameEnglish: "Faith"}, 2, 3, 5, 6)

	return s
}

// spyHadiths records the tier calls made against the wrapped model and can
// force tiers to come back empty or fail.
type spyHadiths struct {
	data.HadithModel

	mu             sync.Mutex
	trigramQueries []string
	thresholds     []float64
	keywordCalls   [][]string
	substringCalls []string
	numberCalls    int
	fragmentNums   []int

	emptyTrigram bool
	trigramErr   error
	keywordErr   error
	substringErr error
	numberErr    error
}

func newSpy(store *data.MemoryStore) *spyHadiths {
	return &spyHadiths{HadithModel: store.Models().Hadiths}
}

func (s *spyHadiths) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trigramQueries) + len(s.keywordCalls) + len(s.substringCalls) + s.numberCalls
}

func (s *spyHadiths) TrigramSearch(ctx context.Context, query string, threshold float64, sf data.SearchFilters, f data.Filters) ([]*data.SearchResult, int, error) {
	s.mu.Lock()
	s.trigramQueries = append(s.trigramQueries, query)
	s.thresholds = append(s.thresholds, threshold)
	s.mu.Unlock()

	if s.trigramErr != nil {
		return nil, 0, s.trigramErr
	}
	if s.emptyTrigram {
		return []*data.SearchResult{}, 0, nil
	}
	return s.HadithModel.TrigramSearch(ctx, query, threshold, sf, f)
}

func (s *spyHadiths) KeywordSearch(ctx context.Context, keywords []string, sf data.SearchFilters, f data.Filters) ([]*data.SearchResult, int, error) {
	s.mu.Lock()
	s.keywordCalls = append(s.keywordCalls, keywords)
	s.mu.Unlock()

	if s.keywordErr != nil {
		return nil, 0, s.keywordErr
	}
	return s.HadithModel.KeywordSearch(ctx, keywords, sf, f)
}

func (s *spyHadiths) SubstringSearch(ctx context.Context, query string, sf data.SearchFilters, f data.Filters) ([]*data.SearchResult, int, error) {
	s.mu.Lock()
	s.substringCalls = append(s.substringCalls, query)
	s.mu.Unlock()

	if s.substringErr != nil {
		return nil, 0, s.substringErr
	}
	return s.HadithModel.SubstringSearch(ctx, query, sf, f)
}

func (s *spyHadiths) CountByNumber(ctx context.Context, number int, sf data.SearchFilters) (int, error) {
	s.mu.Lock()
	s.numberCalls++
	s.mu.Unlock()

	if s.numberErr != nil {
		return 0, s.numberErr
	}
	return s.HadithModel.CountByNumber(ctx, number, sf)
}

func (s *spyHadiths) CountByNumberFragment(ctx context.Context, fragment string, number int, sf data.SearchFilters) (int, error) {
	s.mu.Lock()
	s.numberCalls++
	s.fragmentNums = append(s.fragmentNums, number)
	s.mu.Unlock()

	return s.HadithModel.CountByNumberFragment(ctx, fragment, number, sf)
}

// mapCache is a ResultCache held in a map.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newMapCache() *mapCache {
	return &mapCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *mapCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

func (c *mapCache) hasKeyFor(query string) bool {
	for _, k := range c.keys() {
		if strings.HasSuffix(k, ":"+query) {
			return true
		}
	}
	return false
}

func newTestSearch(spy *spyHadiths, cache ResultCache, fuzzy bool) *SearchService {
	return NewSearchService(spy, cache, SearchConfig{FuzzyEnabled: fuzzy}, discardLogger())
}
