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

type HadithServiceInterface interface {
	List(ctx context.Context, in service.ListInput) (*service.HadithPage, *validator.Validator, error)
	Get(ctx context.Context, id int64, language string) (*data.SearchResult, error)
	Random(ctx context.Context, in service.RandomInput) (*data.SearchResult, error)
	Daily(ctx context.Context, language string) (*data.SearchResult, error)
}

type HadithHandler struct {
	app           *application
	hadithService HadithServiceInterface
}

func NewHadithHandler(app *application, hadithService HadithServiceInterface) *HadithHandler {
	return &HadithHandler{
		app:           app,
		hadithService: hadithService,
	}
}

func (h *HadithHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/v1/hadiths", h.app.rateLimit(h.List))
	router.HandlerFunc(http.MethodGet, "/v1/hadiths/:id", h.app.rateLimit(h.Get))
	router.HandlerFunc(http.MethodGet, "/v1/random", h.app.rateLimit(h.Random))
	router.HandlerFunc(http.MethodGet, "/v1/daily", h.app.rateLimit(h.Daily))
}

func (h *HadithHandler) handleHadithError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrHadithNotFound):
		h.app.notFoundResponse(w, r)
	default:
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary List hadiths
// @Description Browse hadiths in reference order (book number, hadith number).
// @Tags Hadiths
// @Produce json
// @Param language query string false "Translation language code" default(en)
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Results per page" default(20) minimum(1) maximum(100)
// @Param collection query string false "Collection slug or name"
// @Param grade query string false "Authenticity grade"
// @Param book query int false "Book number"
// @Param number query int false "Hadith number"
// @Success 200 {object} service.HadithPage
// @Failure 422 {object} object{error=map[string]string} "Invalid query parameters"
// @Failure 500 {object} object{error=string} "Internal server error"
// @Router /hadiths [get]
func (h *HadithHandler) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	in := service.ListInput{
		Language:     h.app.readLanguage(qs, v),
		BookNumber:   h.app.readInt(qs, "book", 0, v),
		HadithNumber: h.app.readInt(qs, "number", 0, v),
	}
	f := h.app.readPagination(qs, v)
	in.Page, in.Limit = f.Page, f.PageSize
	in.Collection, in.Grade = h.app.readCorpusFilters(qs, v)

	if !v.Valid() {
		h.app.failedValidationResponse(w, r, v.Errors)
		return
	}

	page, v, err := h.hadithService.List(r.Context(), in)
	if v != nil && !v.Valid() {
		h.app.failedValidationResponse(w, r, v.Errors)
		return
	}
	if err != nil {
		h.handleHadithError(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, page, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary Get a hadith
// @Tags Hadiths
// @Produce json
// @Param id path int true "Hadith ID"
// @Param language query string false "Translation language code" default(en)
// @Success 200 {object} object{hadith=data.SearchResult}
// @Failure 404 {object} object{error=string} "Hadith not found"
// @Failure 422 {object} object{error=map[string]string} "Invalid query parameters"
// @Router /hadiths/{id} [get]
func (h *HadithHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.app.readIDParam(r, "id")
	if err != nil {
		h.app.notFoundResponse(w, r)
		return
	}

	v := validator.New()
	language := h.app.readLanguage(r.URL.Query(), v)
	if !v.Valid() {
		h.app.failedValidationResponse(w, r, v.Errors)
		return
	}

	hadith, err := h.hadithService.Get(r.Context(), id, language)
	if err != nil {
		h.handleHadithError(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"hadith": hadith}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary Random hadith
// @Tags Hadiths
// @Produce json
// @Param language query string false "Translation language code" default(en)
// @Param collection query string false "Collection slug or name"
// @Param grade query string false "Authenticity grade"
// @Success 200 {object} object{hadith=data.SearchResult}
// @Failure 404 {object} object{error=string} "No hadith matches the filters"
// @Router /random [get]
func (h *HadithHandler) Random(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	in := service.RandomInput{Language: h.app.readLanguage(qs, v)}
	in.Collection, in.Grade = h.app.readCorpusFilters(qs, v)

	if !v.Valid() {
		h.app.failedValidationResponse(w, r, v.Errors)
		return
	}

	hadith, err := h.hadithService.Random(r.Context(), in)
	if err != nil {
		h.handleHadithError(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"hadith": hadith}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary Hadith of the day
// @Description The same hadith for every request within one UTC day.
// @Tags Hadiths
// @Produce json
// @Param language query string false "Translation language code" default(en)
// @Success 200 {object} object{hadith=data.SearchResult}
// @Failure 404 {object} object{error=string} "Empty corpus"
// @Router /daily [get]
func (h *HadithHandler) Daily(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	language := h.app.readLanguage(r.URL.Query(), v)
	if !v.Valid() {
		h.app.failedValidationResponse(w, r, v.Errors)
		return
	}

	hadith, err := h.hadithService.Daily(r.Context(), language)
	if err != nil {
		h.handleHadithError(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"hadith": hadith}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}
