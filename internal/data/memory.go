package data

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// MemoryStore keeps the corpus in process and answers the same queries as
// the PostgreSQL models through a TextSimilarityIndex.
type MemoryStore struct {
	mu          sync.RWMutex
	index       TextSimilarityIndex
	hadiths     []Hadith
	collections []Collection
	topics      []Topic
	topicLinks  map[int64][]int64
	nextID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index:      TrigramIndex{},
		topicLinks: make(map[int64][]int64),
	}
}

type memoryFixture struct {
	Collections []Collection `json:"collections"`
	Hadiths     []Hadith     `json:"hadiths"`
	Topics      []struct {
		Topic
		HadithIDs []int64 `json:"hadithIds"`
	} `json:"topics"`
}

// LoadMemoryStore reads a JSON corpus with collections, hadiths and topics.
func LoadMemoryStore(r io.Reader) (*MemoryStore, error) {
	var fixture memoryFixture

	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	s := NewMemoryStore()
	for _, c := range fixture.Collections {
		s.AddCollection(c)
	}
	for _, h := range fixture.Hadiths {
		s.AddHadith(h)
	}
	for _, t := range fixture.Topics {
		s.AddTopic(t.Topic, t.HadithIDs...)
	}

	return s, nil
}

// AddHadith stores h, assigning ids to the hadith and its translations when
// they are zero, and returns the hadith id.
func (s *MemoryStore) AddHadith(h Hadith) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == 0 {
		s.nextID++
		h.ID = s.nextID
	} else if h.ID > s.nextID {
		s.nextID = h.ID
	}

	translations := make([]Translation, len(h.Translations))
	for i, t := range h.Translations {
		if t.ID == 0 {
			t.ID = h.ID*100 + int64(i) + 1
		}
		t.HadithID = h.ID
		translations[i] = t
	}
	h.Translations = translations

	s.hadiths = append(s.hadiths, h)
	slices.SortStableFunc(s.hadiths, func(a, b Hadith) int { return cmp.Compare(a.ID, b.ID) })

	return h.ID
}

func (s *MemoryStore) AddCollection(c Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		c.ID = int64(len(s.collections) + 1)
	}
	s.collections = append(s.collections, c)
}

func (s *MemoryStore) AddTopic(t Topic, hadithIDs ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == 0 {
		t.ID = int64(len(s.topics) + 1)
	}
	s.topics = append(s.topics, t)
	s.topicLinks[t.ID] = append(s.topicLinks[t.ID], hadithIDs...)
}

func (s *MemoryStore) Models() Models {
	return Models{
		Hadiths:     &memoryHadiths{s},
		Topics:      &memoryTopics{s},
		Collections: &memoryCollections{s},
	}
}

func (h *Hadith) translation(language string) *Translation {
	for i := range h.Translations {
		if h.Translations[i].LanguageCode == language {
			return &h.Translations[i]
		}
	}
	return nil
}

func (h *Hadith) result(language string, relevance *float64) *SearchResult {
	r := &SearchResult{
		ID:             h.ID,
		Collection:     h.Collection,
		BookNumber:     h.BookNumber,
		HadithNumber:   h.HadithNumber,
		ArabicText:     h.ArabicText,
		ArabicNarrator: h.ArabicNarrator,
		Metadata:       h.Metadata,
		Relevance:      relevance,
	}
	if t := h.translation(language); t != nil {
		tc := *t
		r.Translation = &tc
	}
	return r
}

func matchesFilters(h *Hadith, sf SearchFilters) bool {
	if sf.Collection != "" && h.Collection != sf.Collection && h.CollectionSlug != sf.Collection {
		return false
	}

	if sf.Grade != "" {
		t := h.translation(sf.Language)
		if t == nil || t.Grade == nil || !strings.EqualFold(*t.Grade, sf.Grade) {
			return false
		}
	}

	return true
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// topN returns the first n items in the order defined by before.
func topN[T any](items []T, n int, before func(a, b T) bool) []T {
	heap := binaryheap.NewWith(func(a, b interface{}) int {
		x, y := a.(T), b.(T)
		switch {
		case before(x, y):
			return -1
		case before(y, x):
			return 1
		}
		return 0
	})

	for _, item := range items {
		heap.Push(item)
	}

	out := make([]T, 0, n)
	for len(out) < n {
		v, ok := heap.Pop()
		if !ok {
			break
		}
		out = append(out, v.(T))
	}

	return out
}

type memoryHadiths struct {
	s *MemoryStore
}

// filter returns the hadiths that pass the filters and the predicate.
// filter returns copies of the matching hadiths, so callers can read them
// after the lock is released while AddHadith reorders the backing slice.
func (m *memoryHadiths) filter(sf SearchFilters, match func(h *Hadith) bool) []*Hadith {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var out []*Hadith
	for i := range m.s.hadiths {
		h := &m.s.hadiths[i]
		if matchesFilters(h, sf) && match(h) {
			hc := *h
			out = append(out, &hc)
		}
	}
	return out
}

func (m *memoryHadiths) results(hadiths []*Hadith, language string) []*SearchResult {
	results := make([]*SearchResult, 0, len(hadiths))
	for _, h := range hadiths {
		results = append(results, h.result(language, nil))
	}
	return results
}

func (m *memoryHadiths) textMatch(h *Hadith, language, query string) bool {
	if m.s.index.MatchSubstring(h.ArabicText, query) {
		return true
	}
	t := h.translation(language)
	return t != nil && m.s.index.MatchSubstring(t.Text, query)
}

func (m *memoryHadiths) TrigramSearch(ctx context.Context, query string, threshold float64, sf SearchFilters, f Filters) ([]*SearchResult, int, error) {
	idx := m.s.index
	scores := make(map[int64]float64)

	matched := m.filter(sf, func(h *Hadith) bool {
		best, ok := -1.0, false

		texts := []string{h.ArabicText}
		if t := h.translation(sf.Language); t != nil {
			texts = append(texts, t.Text)
		}

		for _, text := range texts {
			score := idx.WordSimilarity(query, text)
			if idx.MatchSubstring(text, query) || score >= threshold {
				ok = true
				best = max(best, score)
			}
		}

		if ok {
			scores[h.ID] = best
		}
		return ok
	})

	slices.SortStableFunc(matched, func(a, b *Hadith) int {
		if c := cmp.Compare(scores[b.ID], scores[a.ID]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	page := window(matched, f.offset(), f.limit())
	results := make([]*SearchResult, 0, len(page))
	for _, h := range page {
		score := scores[h.ID]
		results = append(results, h.result(sf.Language, &score))
	}

	return results, len(matched), nil
}

func (m *memoryHadiths) KeywordSearch(ctx context.Context, keywords []string, sf SearchFilters, f Filters) ([]*SearchResult, int, error) {
	if len(keywords) == 0 {
		return []*SearchResult{}, 0, nil
	}

	matched := m.filter(sf, func(h *Hadith) bool {
		for _, kw := range keywords {
			if !m.textMatch(h, sf.Language, kw) {
				return false
			}
		}
		return true
	})

	return m.results(window(matched, f.offset(), f.limit()), sf.Language), len(matched), nil
}

func (m *memoryHadiths) SubstringSearch(ctx context.Context, query string, sf SearchFilters, f Filters) ([]*SearchResult, int, error) {
	matched := m.filter(sf, func(h *Hadith) bool {
		return m.textMatch(h, sf.Language, query)
	})

	return m.results(window(matched, f.offset(), f.limit()), sf.Language), len(matched), nil
}

func byReference(hadiths []*Hadith) {
	slices.SortStableFunc(hadiths, func(a, b *Hadith) int {
		if c := cmp.Compare(a.BookNumber, b.BookNumber); c != 0 {
			return c
		}
		if c := cmp.Compare(a.HadithNumber, b.HadithNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func (m *memoryHadiths) byNumber(number int, sf SearchFilters) []*Hadith {
	matched := m.filter(sf, func(h *Hadith) bool { return h.HadithNumber == number })
	byReference(matched)
	return matched
}

func (m *memoryHadiths) byNumberFragment(fragment string, number int, sf SearchFilters) []*Hadith {
	matched := m.filter(sf, func(h *Hadith) bool {
		if h.HadithNumber == number {
			return false
		}
		return strings.Contains(strconv.Itoa(h.HadithNumber), fragment) || m.textMatch(h, sf.Language, fragment)
	})
	byReference(matched)
	return matched
}

func (m *memoryHadiths) CountByNumber(ctx context.Context, number int, sf SearchFilters) (int, error) {
	return len(m.byNumber(number, sf)), nil
}

func (m *memoryHadiths) FindByNumber(ctx context.Context, number int, sf SearchFilters, offset, limit int) ([]*SearchResult, error) {
	return m.results(window(m.byNumber(number, sf), offset, limit), sf.Language), nil
}

func (m *memoryHadiths) CountByNumberFragment(ctx context.Context, fragment string, number int, sf SearchFilters) (int, error) {
	return len(m.byNumberFragment(fragment, number, sf)), nil
}

func (m *memoryHadiths) FindByNumberFragment(ctx context.Context, fragment string, number int, sf SearchFilters, offset, limit int) ([]*SearchResult, error) {
	return m.results(window(m.byNumberFragment(fragment, number, sf), offset, limit), sf.Language), nil
}

var wordSplitRX = regexp.MustCompile(`[^\w\x{0430}-\x{044F}\x{0451}\x{0600}-\x{06FF}]+`)

func (m *memoryHadiths) SpellWords(ctx context.Context, query, language string, candidateFloor, wordFloor float64, limit int) ([]*WordSuggestion, error) {
	idx := m.s.index
	seen := make(map[string]struct{})
	var candidates []*WordSuggestion

	m.s.mu.RLock()
	for i := range m.s.hadiths {
		t := m.s.hadiths[i].translation(language)
		if t == nil || idx.WordSimilarity(query, t.Text) <= candidateFloor {
			continue
		}

		for _, word := range wordSplitRX.Split(strings.ToLower(t.Text), -1) {
			if _, dup := seen[word]; dup || utf8.RuneCountInString(word) <= 2 {
				continue
			}
			seen[word] = struct{}{}

			if score := idx.WordSimilarity(query, word); score > wordFloor {
				candidates = append(candidates, &WordSuggestion{Word: word, Score: score})
			}
		}
	}
	m.s.mu.RUnlock()

	return topN(candidates, limit, func(a, b *WordSuggestion) bool {
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Word < b.Word
	}), nil
}

func (m *memoryHadiths) list(lf ListFilters) []*Hadith {
	matched := m.filter(lf.SearchFilters, func(h *Hadith) bool {
		if lf.BookNumber > 0 && h.BookNumber != lf.BookNumber {
			return false
		}
		return lf.HadithNumber <= 0 || h.HadithNumber == lf.HadithNumber
	})
	byReference(matched)
	return matched
}

func (m *memoryHadiths) List(ctx context.Context, lf ListFilters, f Filters) ([]*SearchResult, int, error) {
	matched := m.list(lf)
	return m.results(window(matched, f.offset(), f.limit()), lf.Language), len(matched), nil
}

func (m *memoryHadiths) Get(ctx context.Context, id int64, language string) (*SearchResult, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for i := range m.s.hadiths {
		if m.s.hadiths[i].ID == id {
			return m.s.hadiths[i].result(language, nil), nil
		}
	}

	return nil, ErrRecordNotFound
}

func (m *memoryHadiths) Count(ctx context.Context, sf SearchFilters) (int, error) {
	return len(m.list(ListFilters{SearchFilters: sf})), nil
}

func (m *memoryHadiths) FindAt(ctx context.Context, sf SearchFilters, offset int) (*SearchResult, error) {
	matched := m.list(ListFilters{SearchFilters: sf})
	if offset < 0 || offset >= len(matched) {
		return nil, ErrRecordNotFound
	}
	return matched[offset].result(sf.Language, nil), nil
}

type memoryTopics struct {
	s *MemoryStore
}

func localizedName(t *Topic, language string) string {
	var name *string
	switch language {
	case "ru":
		name = t.NameRussian
	case "ar":
		name = t.NameArabic
	}
	if name == nil || *name == "" {
		return t.NameEnglish
	}
	return *name
}

func (m *memoryTopics) List(ctx context.Context) ([]*Topic, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	topics := make([]*Topic, 0, len(m.s.topics))
	for _, t := range m.s.topics {
		t.HadithCount = len(m.s.topicLinks[t.ID])
		topics = append(topics, &t)
	}

	slices.SortFunc(topics, func(a, b *Topic) int { return cmp.Compare(a.NameEnglish, b.NameEnglish) })
	return topics, nil
}

func (m *memoryTopics) Suggest(ctx context.Context, query, language string, floor float64, limit int) ([]*TopicSuggestion, error) {
	idx := m.s.index
	var candidates []*TopicSuggestion

	m.s.mu.RLock()
	for i := range m.s.topics {
		name := localizedName(&m.s.topics[i], language)
		score := idx.WordSimilarity(query, name)
		if score > floor || idx.MatchSubstring(name, query) {
			candidates = append(candidates, &TopicSuggestion{Name: name, Slug: m.s.topics[i].Slug, Score: score})
		}
	}
	m.s.mu.RUnlock()

	return topN(candidates, limit, func(a, b *TopicSuggestion) bool {
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Name < b.Name
	}), nil
}

type memoryCollections struct {
	s *MemoryStore
}

func (m *memoryCollections) withCount(c Collection) *Collection {
	for i := range m.s.hadiths {
		h := &m.s.hadiths[i]
		if h.CollectionSlug == c.Slug || h.Collection == c.Slug {
			c.HadithCount++
		}
	}
	return &c
}

func (m *memoryCollections) List(ctx context.Context) ([]*Collection, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	collections := make([]*Collection, 0, len(m.s.collections))
	for _, c := range m.s.collections {
		collections = append(collections, m.withCount(c))
	}

	slices.SortFunc(collections, func(a, b *Collection) int { return cmp.Compare(a.NameEnglish, b.NameEnglish) })
	return collections, nil
}

func (m *memoryCollections) Get(ctx context.Context, slug string) (*Collection, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, c := range m.s.collections {
		if c.Slug == slug {
			return m.withCount(c), nil
		}
	}

	return nil, ErrRecordNotFound
}
