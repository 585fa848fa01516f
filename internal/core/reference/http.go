// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for one taxonomy.
type Handler struct {
	service  *Service
	resource access.Resource
}

// NewHandler constructs a new reference [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, resource: service.Kind().Resource}
}

// Routes returns a [chi.Router] for /categories or /genres.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.With(middleware.RequireAccess(handler.resource, access.Create)).Post("/", handler.create)
	router.With(middleware.RequireAccess(handler.resource, access.Delete)).Delete("/{slug}", handler.delete)

	return router
}

/*
GET /api/v1/{categories|genres}.

Query:
  - search: substring of name
  - page, limit: pagination
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	terms, total, err := handler.service.List(request.Context(), requestutil.Actor(request), requestutil.Query(request, "search"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Page(writer, terms, params, total)
}

// create handles POST /api/v1/{categories|genres}.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Term
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, term)
}

// delete handles DELETE /api/v1/{categories|genres}/{slug}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
