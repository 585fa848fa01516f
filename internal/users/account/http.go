// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for /users.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] for the users collection.
//
// The /me routes are registered before /{username}; "me" is also a reserved
// username so the two can never collide.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self profile
	router.With(middleware.RequireAuth).Get("/me", handler.getMe)
	router.With(middleware.RequireAuth).Patch("/me", handler.patchMe)

	// Administration
	router.With(middleware.RequireAccess(access.Users, access.Read)).Get("/", handler.list)
	router.With(middleware.RequireAccess(access.Users, access.Create)).Post("/", handler.create)
	router.With(middleware.RequireAccess(access.Users, access.Read)).Get("/{username}", handler.get)
	router.With(middleware.RequireAccess(access.Users, access.Update)).Patch("/{username}", handler.patch)
	router.With(middleware.RequireAccess(access.Users, access.Delete)).Delete("/{username}", handler.delete)

	return router
}

/*
GET /api/v1/users.

Query:
  - search: substring of username
  - page, limit: pagination (default limit 100)
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequestDefault(request, DefaultPageSize)

	users, total, err := handler.accountService.List(
		request.Context(),
		requestutil.Actor(request),
		requestutil.Query(request, "search"),
		params,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Page(writer, users, params, total)
}

// create handles POST /api/v1/users.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// get handles GET /api/v1/users/{username}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.Actor(request), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// patch handles PATCH /api/v1/users/{username}.
func (handler *Handler) patch(writer http.ResponseWriter, request *http.Request) {
	var input PatchInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Patch(request.Context(), requestutil.Actor(request), requestutil.Param(request, "username"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// delete handles DELETE /api/v1/users/{username}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
