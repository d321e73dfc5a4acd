package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/service"
	"shuvoedward/hadith_search/internal/validator"

	"github.com/julienschmidt/httprouter"
)

type envelope map[string]any

func (app *application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		return err
	}

	return nil
}

func (app *application) readIDParam(r *http.Request, idName string) (int64, error) {
	param := httprouter.ParamsFromContext(r.Context())

	id, err := strconv.ParseInt(param.ByName(idName), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

func (app *application) readString(qs url.Values, key, defaultValue string) string {
	s := strings.TrimSpace(qs.Get(key))
	if s == "" {
		return defaultValue
	}
	return s
}

func (app *application) readInt(qs url.Values, key string, defaultValue int, v *validator.Validator) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return defaultValue
	}

	return i
}

// readLanguage defaults to English and checks the code shape.
func (app *application) readLanguage(qs url.Values, v *validator.Validator) string {
	language := strings.ToLower(app.readString(qs, "language", service.DefaultLanguage))
	v.Check(validator.Matches(language, validator.LanguageRX), "language", "must be a two or three letter language code")
	return language
}

func (app *application) readCorpusFilters(qs url.Values, v *validator.Validator) (collection, grade string) {
	collection = app.readString(qs, "collection", "")
	grade = app.readString(qs, "grade", "")

	if collection != "" {
		v.Check(len(collection) <= 100, "collection", "must not be more than 100 bytes long")
		v.Check(validator.Matches(collection, validator.SlugRX), "collection", "must be a collection slug or name")
	}
	if grade != "" {
		v.Check(len(grade) <= 50, "grade", "must not be more than 50 bytes long")
		v.Check(validator.Matches(grade, validator.SlugRX), "grade", "must be a grade name")
	}

	return collection, grade
}

// readPagination reads page and limit with the search defaults.
func (app *application) readPagination(qs url.Values, v *validator.Validator) data.Filters {
	f := data.Filters{
		Page:     app.readInt(qs, "page", service.DefaultPage, v),
		PageSize: app.readInt(qs, "limit", service.DefaultLimit, v),
	}
	f.Validate(v)
	return f
}

func (app *application) readSearchInput(r *http.Request) (service.SearchInput, *validator.Validator) {
	qs := r.URL.Query()
	v := validator.New()

	v.Check(qs.Has("q"), "q", "must be provided")
	v.Check(len(qs.Get("q")) <= 500, "q", "must not be more than 500 bytes long")

	in := service.SearchInput{
		Query:    qs.Get("q"),
		Language: app.readLanguage(qs, v),
	}

	f := app.readPagination(qs, v)
	in.Page, in.Limit = f.Page, f.PageSize
	in.Collection, in.Grade = app.readCorpusFilters(qs, v)

	return in, v
}
