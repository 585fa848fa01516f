// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/core/title"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for
// /titles/{titleID}/reviews/{reviewID}/comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] for comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	router.Route("/{"+URLParam+"}", func(commentRoute chi.Router) {
		commentRoute.Get("/", handler.get)
		commentRoute.Patch("/", handler.patch)
		commentRoute.Delete("/", handler.delete)
	})

	return router
}

type path struct {
	titleID, reviewID, commentID int64
}

func parsePath(request *http.Request, withComment bool) (p path, err error) {
	if p.titleID, err = requestutil.Int64(request, title.URLParam, "Title"); err != nil {
		return p, err
	}
	if p.reviewID, err = requestutil.Int64(request, review.URLParam, "Review"); err != nil {
		return p, err
	}
	if withComment {
		p.commentID, err = requestutil.Int64(request, URLParam, "Comment")
	}
	return p, err
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	params := pagination.FromRequestDefault(request, DefaultPageSize)

	comments, total, err := handler.service.List(request.Context(), requestutil.Actor(request), p.titleID, p.reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Page(writer, comments, params, total)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Create(request.Context(), requestutil.Actor(request), p.titleID, p.reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Get(request.Context(), requestutil.Actor(request), p.titleID, p.reviewID, p.commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) patch(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input PatchInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Patch(request.Context(), requestutil.Actor(request), p.titleID, p.reviewID, p.commentID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	p, err := parsePath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), p.titleID, p.reviewID, p.commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
