// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// URLParam names the title id segment shared with the nested review routes.
const URLParam = "titleID"

// Handler implements the HTTP layer for /titles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for titles. The reviews handler, when not
// nil, is mounted under /{titleID}/reviews.
func (handler *Handler) Routes(reviews http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.With(middleware.RequireAccess(access.Titles, access.Create)).Post("/", handler.create)

	router.Route("/{"+URLParam+"}", func(titleRoute chi.Router) {
		titleRoute.Get("/", handler.get)
		titleRoute.With(middleware.RequireAccess(access.Titles, access.Update)).Patch("/", handler.patch)
		titleRoute.With(middleware.RequireAccess(access.Titles, access.Delete)).Delete("/", handler.delete)

		if reviews != nil {
			titleRoute.Mount("/reviews", reviews)
		}
	})

	return router
}

/*
GET /api/v1/titles.

Query:
  - genre: genre slug
  - category: category slug
  - name: substring of the title name
  - year: exact year
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	params := pagination.FromRequest(request)

	titles, total, err := handler.service.List(request.Context(), requestutil.Actor(request), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Page(writer, titles, params, total)
}

func filterFromRequest(request *http.Request) (Filter, error) {
	filter := Filter{
		Genre:    requestutil.Query(request, "genre"),
		Category: requestutil.Query(request, "category"),
		Name:     requestutil.Query(request, "name"),
	}

	if raw := requestutil.Query(request, "year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, validate.RequiredError(FieldYear, "Enter a whole number")
		}
		filter.Year = &year
	}
	return filter, nil
}

// create handles POST /api/v1/titles.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

// get handles GET /api/v1/titles/{titleID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, URLParam, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), requestutil.Actor(request), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

// patch handles PATCH /api/v1/titles/{titleID}.
func (handler *Handler) patch(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, URLParam, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input PatchInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Patch(request.Context(), requestutil.Actor(request), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

// delete handles DELETE /api/v1/titles/{titleID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64(request, URLParam, "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
