package service

import (
	"log/slog"

	"shuvoedward/hadith_search/internal/data"
)

// Service contains all business logic services
type Service struct {
	Search  *SearchService
	Suggest *SuggestService
	Hadith  *HadithService
}

// NewServices creates all services with their dependencies. cache may be nil.
func NewServices(
	models data.Models,
	cache ResultCache,
	config SearchConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		Search: NewSearchService(
			models.Hadiths,
			cache,
			config,
			logger,
		),
		Suggest: NewSuggestService(
			models.Hadiths,
			models.Topics,
			logger,
		),
		Hadith: NewHadithService(
			models.Hadiths,
			models.Topics,
			models.Collections,
			logger,
		),
	}
}
