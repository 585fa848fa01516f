// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/core/title"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for /titles/{titleID}/reviews.
type Handler struct {
	service *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for reviews. The comments handler, when not
// nil, is mounted under /{reviewID}/comments.
func (handler *Handler) Routes(comments http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{"+URLParam+"}", func(reviewRoute chi.Router) {
		reviewRoute.Get("/", handler.get)
		reviewRoute.Patch("/", handler.patch)
		reviewRoute.Delete("/", handler.delete)

		if comments != nil {
			reviewRoute.Mount("/comments", comments)
		}
	})

	return router
}

func ids(request *http.Request, withReview bool) (titleID, reviewID int64, err error) {
	if titleID, err = requestutil.Int64(request, title.URLParam, "Title"); err != nil {
		return 0, 0, err
	}
	if withReview {
		if reviewID, err = requestutil.Int64(request, URLParam, "Review"); err != nil {
			return 0, 0, err
		}
	}
	return titleID, reviewID, nil
}

// list handles GET /api/v1/titles/{titleID}/reviews (default page size 10).
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID, _, err := ids(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	params := pagination.FromRequestDefault(request, DefaultPageSize)

	reviews, total, err := handler.service.List(request.Context(), requestutil.Actor(request), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Page(writer, reviews, params, total)
}

/*
POST /api/v1/titles/{titleID}/reviews.

Response:
  - 201: Review
  - 400: Invalid score or a second review by the same author
  - 401: Anonymous request
  - 404: Unknown title
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID, _, err := ids(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Create(request.Context(), requestutil.Actor(request), titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// get handles GET /api/v1/titles/{titleID}/reviews/{reviewID}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := ids(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Get(request.Context(), requestutil.Actor(request), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// patch handles PATCH /api/v1/titles/{titleID}/reviews/{reviewID}.
func (handler *Handler) patch(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := ids(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input PatchInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.Patch(request.Context(), requestutil.Actor(request), titleID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// delete handles DELETE /api/v1/titles/{titleID}/reviews/{reviewID}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := ids(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
