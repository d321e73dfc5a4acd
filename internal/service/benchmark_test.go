package service

import (
	"context"
	"testing"

	"shuvoedward/hadith_search/internal/cache"
)

func BenchmarkSearchWithoutCache(b *testing.B) {
	s := NewSearchService(newTestCorpus().Models().Hadiths, nil, SearchConfig{FuzzyEnabled: true}, discardLogger())
	in := SearchInput{Query: "intentons", Language: "en"}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := s.Search(context.Background(), in)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchWithCache(b *testing.B) {
	badgerCache, err := cache.NewBadgerCache(cache.BadgerConfig{InMemory: true}, DefaultCacheTTL, discardLogger())
	if err != nil {
		b.Fatalf("failed to open badger: %v", err)
	}
	defer badgerCache.Close()

	s := NewSearchService(newTestCorpus().Models().Hadiths, badgerCache, SearchConfig{FuzzyEnabled: true}, discardLogger())
	in := SearchInput{Query: "intentons", Language: "en"}

	// Warm the cache before timing.
	if _, err := s.Search(context.Background(), in); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := s.Search(context.Background(), in)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNumericSearch(b *testing.B) {
	s := NewSearchService(newTestCorpus().Models().Hadiths, nil, SearchConfig{FuzzyEnabled: true}, discardLogger())
	in := SearchInput{Query: "27", Language: "en"}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := s.Search(context.Background(), in)
		if err != nil {
			b.Fatal(err)
		}
	}
}
