package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuvoedward/hadith_search/internal/data"
)

func newTestHadithService() (*HadithService, data.Models) {
	m := newTestCorpus().Models()
	return NewHadithService(m.Hadiths, m.Topics, m.Collections, discardLogger()), m
}

func TestHadithList(t *testing.T) {
	s, _ := newTestHadithService()

	page, v, err := s.List(context.Background(), ListInput{Collection: "bukhari", Limit: 2})
	require.NoError(t, err)
	require.Nil(t, v)

	assert.Equal(t, []int{1, 270}, hadithNumbers(page.Data))
	assert.Equal(t, 4, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	page, v, err = s.List(context.Background(), ListInput{Collection: "bukhari", BookNumber: 2, Language: "ru"})
	require.NoError(t, err)
	require.Nil(t, v)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "ru", page.Data[0].Translation.LanguageCode)
}

func TestHadithListValidation(t *testing.T) {
	s, _ := newTestHadithService()

	_, v, err := s.List(context.Background(), ListInput{Page: -1, Limit: 101, BookNumber: -2})
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Contains(t, v.Errors, "page")
	assert.Contains(t, v.Errors, "limit")
	assert.Contains(t, v.Errors, "book")

	_, v, err = s.List(context.Background(), ListInput{HadithNumber: 12345678901, BookNumber: 1 << 31})
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Contains(t, v.Errors, "number")
	assert.Contains(t, v.Errors, "book")
}

func TestHadithGet(t *testing.T) {
	s, _ := newTestHadithService()

	h, err := s.Get(context.Background(), 3, "ru")
	require.NoError(t, err)
	assert.Equal(t, 127, h.HadithNumber)
	assert.Equal(t, "ru", h.Translation.LanguageCode)

	_, err = s.Get(context.Background(), 404, "en")
	assert.ErrorIs(t, err, ErrHadithNotFound)
}

func TestHadithRandom(t *testing.T) {
	s, _ := newTestHadithService()
	s.random = func(n int) int { return n - 1 }

	h, err := s.Random(context.Background(), RandomInput{Collection: "muslim"})
	require.NoError(t, err)
	assert.Equal(t, "Sahih Muslim", h.Collection)
	assert.Equal(t, 27, h.HadithNumber)

	_, err = s.Random(context.Background(), RandomInput{Collection: "tirmidhi"})
	assert.ErrorIs(t, err, ErrHadithNotFound)
}

func TestHadithDailyIsStableWithinADay(t *testing.T) {
	s, m := newTestHadithService()
	ctx := context.Background()

	morning := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return morning }
	first, err := s.Daily(ctx, "en")
	require.NoError(t, err)

	s.now = func() time.Time { return morning.Add(15 * time.Hour) }
	later, err := s.Daily(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, later.ID)

	s.now = func() time.Time { return morning.Add(24 * time.Hour) }
	tomorrow, err := s.Daily(ctx, "en")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, tomorrow.ID)

	sf := data.SearchFilters{Language: "en"}
	count, err := m.Hadiths.Count(ctx, sf)
	require.NoError(t, err)
	want, err := m.Hadiths.FindAt(ctx, sf, int(morning.Unix()/86400)%count)
	require.NoError(t, err)
	assert.Equal(t, want.ID, first.ID)
}

func TestCatalogue(t *testing.T) {
	s, _ := newTestHadithService()
	ctx := context.Background()

	topics, err := s.Topics(ctx)
	require.NoError(t, err)
	assert.Len(t, topics, 3)

	collections, err := s.Collections(ctx)
	require.NoError(t, err)
	assert.Len(t, collections, 2)

	c, err := s.Collection(ctx, "muslim")
	require.NoError(t, err)
	assert.Equal(t, 2, c.HadithCount)

	_, err = s.Collection(ctx, "tirmidhi")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}
