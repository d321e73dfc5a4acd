package data

import (
	"shuvoedward/hadith_search/internal/validator"
)

type Filters struct {
	Page     int
	PageSize int
}

func (f Filters) limit() int {
	return f.PageSize
}

func (f Filters) offset() int {
	return (f.Page - 1) * f.PageSize
}

// Validate performs generic pagination validation
func (f *Filters) Validate(v *validator.Validator) {
	v.Check(f.Page > 0, "page", "must be at least 1")
	v.Check(f.Page <= 10000, "page", "must be at most 10000")
	v.Check(f.PageSize > 0, "limit", "must be at least 1")
	v.Check(f.PageSize <= 100, "limit", "must be at most 100")
}

// SearchFilters narrows every query to one translation language and,
// optionally, a collection (slug or legacy display name) and a grade.
type SearchFilters struct {
	Language   string
	Collection string
	Grade      string
}

// ListFilters adds the exact reference fields used when browsing.
type ListFilters struct {
	SearchFilters
	BookNumber   int
	HadithNumber int
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
