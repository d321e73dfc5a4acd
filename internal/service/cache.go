package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultCacheTTL is how long a non-empty search page stays cached.
const DefaultCacheTTL = 24 * time.Hour

// CacheKeyPrefix starts every search page key, so bumping the version
// orphans old entries and purges can target them.
const CacheKeyPrefix = "search:v1:"

// noneSentinel stands in for an absent collection or grade filter.
const noneSentinel = "-"

// ResultCache is a shared key/value store for serialized search pages.
// Implementations live in internal/cache.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cacheKey puts the free text query last so a colon inside it cannot shift
// the validated fields.
func cacheKey(query string, in SearchInput) string {
	collection, grade := in.Collection, in.Grade
	if collection == "" {
		collection = noneSentinel
	}
	if grade == "" {
		grade = noneSentinel
	}

	return fmt.Sprintf("%s%s:%d:%d:%s:%s:%s", CacheKeyPrefix,
		in.Language, in.Page, in.Limit, collection, grade, query)
}

func (s *SearchService) cached(ctx context.Context, key string) (*SearchPage, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var page SearchPage
	if err := json.Unmarshal(raw, &page); err != nil {
		s.logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
		return nil, false
	}

	return &page, true
}

// store writes non-empty pages only.
func (s *SearchService) store(ctx context.Context, key string, page *SearchPage) {
	if s.cache == nil || len(page.Data) == 0 {
		return
	}

	raw, err := json.Marshal(page)
	if err != nil {
		s.logger.Warn("failed to encode search page", "key", key, "error", err)
		return
	}

	if err := s.cache.Set(ctx, key, raw, s.config.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
