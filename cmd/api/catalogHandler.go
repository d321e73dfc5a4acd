package main

import (
	"context"
	"errors"
	"net/http"

	"shuvoedward/hadith_search/internal/data"
	"shuvoedward/hadith_search/internal/service"

	"github.com/julienschmidt/httprouter"
)

type CatalogServiceInterface interface {
	Topics(ctx context.Context) ([]*data.Topic, error)
	Collections(ctx context.Context) ([]*data.Collection, error)
	Collection(ctx context.Context, slug string) (*data.Collection, error)
}

type CatalogHandler struct {
	app            *application
	catalogService CatalogServiceInterface
}

func NewCatalogHandler(app *application, catalogService CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		app:            app,
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/v1/topics", h.app.rateLimit(h.Topics))
	router.HandlerFunc(http.MethodGet, "/v1/collections", h.app.rateLimit(h.Collections))
	router.HandlerFunc(http.MethodGet, "/v1/collections/:slug", h.app.rateLimit(h.Collection))
}

// @Summary List topics
// @Tags Catalogue
// @Produce json
// @Success 200 {object} object{topics=[]data.Topic}
// @Router /topics [get]
func (h *CatalogHandler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.catalogService.Topics(r.Context())
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"topics": topics}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary List collections
// @Tags Catalogue
// @Produce json
// @Success 200 {object} object{collections=[]data.Collection}
// @Router /collections [get]
func (h *CatalogHandler) Collections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.catalogService.Collections(r.Context())
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"collections": collections}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}

// @Summary Get a collection
// @Tags Catalogue
// @Produce json
// @Param slug path string true "Collection slug (e.g. bukhari)"
// @Success 200 {object} object{collection=data.Collection}
// @Failure 404 {object} object{error=string} "Collection not found"
// @Router /collections/{slug} [get]
func (h *CatalogHandler) Collection(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")

	collection, err := h.catalogService.Collection(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCollectionNotFound):
			h.app.notFoundResponse(w, r)
		default:
			h.app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = h.app.writeJSON(w, http.StatusOK, envelope{"collection": collection}, nil)
	if err != nil {
		h.app.serverErrorResponse(w, r, err)
	}
}
