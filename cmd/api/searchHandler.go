package main

import (
	"context"
	"errors"
	"net/http"

	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/service"
	"shuvoedward/hadith_search/internal/validator"

	"github.com/julienschmidt/httprouter"
)

type SearchServiceInterface interface {
	Search(ctx context.Context, in service.SearchInput) (*service.SearchPage, error)
}

type SuggestServiceInterface interface {
	Suggestions(ctx context.Context, query, language string) ([]*data.TopicSuggestion, error)
	Spell(ctx context.Context, query, language string) ([]*data.WordSuggestion, error)
}

type SearchHandler struct {
	app            *application
	searchService  SearchServiceInterface
	suggestService SuggestServiceInterface
}

func NewSearchHandler(
	app *application,
	searchService SearchServiceInterface,
	suggestService SuggestServiceInterface,
) *SearchHandler {
	return &SearchHandler{
		app:            app,
		searchService:  searchService,
		suggestService: suggestService,
	}
}

func (h *SearchHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/v1/search", h.app.rateLimit(h.Search))
	router.HandlerFunc(http.MethodGet, "/v1/search/suggestions", h.app.rateLimit(h.Suggestions))
	router.HandlerFunc(http.MethodGet, "/v1/search/spell", h.app.rateLimit(h.Spell))
}

func (h *SearchHandler) handleSearchError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrSearchFailed):
		h.app.searchUnavailableResponse(w, r, err)
	default:
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary Search hadiths
// @Description Fuzzy search over Arabic text and the translation in the requested language. All-digit queries list exact hadith numbers first, then partial matches. Russian queries typed on a Latin keyboard layout are retried in Cyrillic and carry metadata.correctedFrom.
// @Tags Search
// @Produce json
// @Param q query string true "Search query (e.g. 'intentions', 'намерения', '27')"
// @Param language query string false "Translation language code" default(en)
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Results per page" default(20) minimum(1) maximum(100)
// @Param collection query string false "Collection slug or name (e.g. 'bukhari')"
// @Param grade query string false "Authenticity grade of the translation (e.g. 'sahih')"
// @Success 200 {object} service.SearchPage "Search results; queries that are too short yield an empty page"
// @Failure 422 {object} object{error=map[string]string} "Invalid query parameters"
// @Failure 503 {object} object{error=string} "Search backend unavailable"
// @Router /search [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	in, v := h.app.readSearchInput(r)
	if !v.Valid() {
		h.app.failedValidationResponse(w, r, v.Errors)
		return
	}

	page, err := h.searchService.Search(r.Context(), in)
	if err != nil {
		h.handleSearchError(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, page, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary Suggest topics
// @Description Topic names in the requested language that look like the query.
// @Tags Search
// @Produce json
// @Param q query string true "Partial topic name"
// @Param language query string false "Language code" default(en)
// @Success 200 {object} object{suggestions=[]data.TopicSuggestion}
// @Failure 422 {object} object{error=map[string]string} "Invalid query parameters"
// @Failure 503 {object} object{error=string} "Search backend unavailable"
// @Router /search/suggestions [get]
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query, language, v := h.readShortQuery(r)
	if !v.Valid() {
		h.app.failedValidationResponse(w, r, v.Errors)
		return
	}

	suggestions, err := h.suggestService.Suggestions(r.Context(), query, language)
	if err != nil {
		h.handleSearchError(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"suggestions": suggestions}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary Spelling hints
// @Description Up to three words from translations in the requested language that look like the query.
// @Tags Search
// @Produce json
// @Param q query string true "Possibly misspelled word"
// @Param language query string false "Language code" default(en)
// @Success 200 {object} object{words=[]data.WordSuggestion}
// @Failure 422 {object} object{error=map[string]string} "Invalid query parameters"
// @Failure 503 {object} object{error=string} "Search backend unavailable"
// @Router /search/spell [get]
func (h *SearchHandler) Spell(w http.ResponseWriter, r *http.Request) {
	query, language, v := h.readShortQuery(r)
	if !v.Valid() {
		h.app.failedValidationResponse(w, r, v.Errors)
		return
	}

	words, err := h.suggestService.Spell(r.Context(), query, language)
	if err != nil {
		h.handleSearchError(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"words": words}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

func (h *SearchHandler) readShortQuery(r *http.Request) (string, string, *validator.Validator) {
	qs := r.URL.Query()
	v := validator.New()

	query := qs.Get("q")
	v.Check(qs.Has("q"), "q", "must be provided")
	v.Check(len(query) <= 100, "q", "must not be more than 100 bytes long")

	return query, h.app.readLanguage(qs, v), v
}
