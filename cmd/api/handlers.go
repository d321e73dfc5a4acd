package main

import "shuvoedward/hadith_search/internal/service"

// Handlers contains all HTTP methods
// This is specific to the HTTP API entry point
type Handlers struct {
	Search  *SearchHandler
	Hadith  *HadithHandler
	Catalog *CatalogHandler
}

// NewHandlers creates all HTTP handlers
// Handlers are tied to HTTP - not reusable like services
func NewHandlers(app *application, services *service.Service) *Handlers {
	return &Handlers{
		Search:  NewSearchHandler(app, services.Search, services.Suggest),
		Hadith:  NewHadithHandler(app, services.Hadith),
		Catalog: NewCatalogHandler(app, services.Hadith),
	}
}
