package service

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/sync/errgroup"

	"shuvoedward/hadith_search/internal/data"
)

// searchByNumber serves all-digit queries. Hadiths whose number equals the
// query come first; the rest of the page is filled with hadiths whose number
// contains the digits or whose text contains them.
//
// The two counts are independent reads, so under concurrent corpus writes
// the total can drift from the merged row count. The corpus is read-mostly
// and that drift is accepted.
func (s *SearchService) searchByNumber(ctx context.Context, digits string, in SearchInput) (*SearchPage, error) {
	number, err := strconv.Atoi(digits)
	if err != nil || number > math.MaxInt32 {
		// hadith_number is a 32-bit column: nothing can match exactly, and
		// a larger bind parameter would fail the query.
		number = -1
	}
	sf := in.searchFilters()
	offset := in.offset()

	var exactCount, otherCount int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if number < 0 {
			return nil
		}
		n, err := s.hadiths.CountByNumber(gctx, number, sf)
		exactCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.hadiths.CountByNumberFragment(gctx, digits, number, sf)
		otherCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("numeric count failed", "query", digits, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	exactTake := 0
	if offset < exactCount {
		exactTake = min(in.Limit, exactCount-offset)
	}
	spots := in.Limit - exactTake
	otherOffset := max(0, offset-exactCount)

	var exact, others []*data.SearchResult

	g, gctx = errgroup.WithContext(ctx)
	if exactTake > 0 {
		g.Go(func() error {
			rows, err := s.hadiths.FindByNumber(gctx, number, sf, offset, exactTake)
			exact = rows
			return err
		})
	}
	if spots > 0 && otherOffset < otherCount {
		g.Go(func() error {
			rows, err := s.hadiths.FindByNumberFragment(gctx, digits, number, sf, otherOffset, spots)
			others = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("numeric fetch failed", "query", digits, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	results := make([]*data.SearchResult, 0, len(exact)+len(others))
	results = append(results, exact...)
	results = append(results, others...)

	return newSearchPage(results, exactCount+otherCount, in), nil
}
