// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes the yamdb JSON envelopes.
//
// Every body is one of three shapes:
//
//	{"data": ...}                      single resource or status
//	{"data": [...], "meta": {...}}     paginated list
//	{"error": "...", "code": "...", "details": [...]}
//
// Handlers never encode JSON themselves.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const contentType = "application/json; charset=utf-8"

type dataEnvelope struct {
	Data any `json:"data"`
}

type pageEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// fallbackBody is written when a payload cannot be encoded.
var fallbackBody = []byte(`{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}` + "\n")

// write encodes payload before touching the response, so an encoding failure
// still produces a well-formed 500 instead of a truncated body.
func write(writer http.ResponseWriter, request *http.Request, statusCode int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger := slog.Default()
		if request != nil {
			logger = ctxutil.GetLogger(request.Context())
		}
		logger.Error("response_encode_failed", slog.Any("error", err))

		statusCode, body = http.StatusInternalServerError, fallbackBody
	} else {
		body = append(body, '\n')
	}

	writer.Header().Set("Content-Type", contentType)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(body)
}

// Status writes data in the data envelope with an explicit status code.
func Status(writer http.ResponseWriter, statusCode int, data any) {
	write(writer, nil, statusCode, dataEnvelope{Data: data})
}

// OK writes data with 200.
func OK(writer http.ResponseWriter, data any) {
	Status(writer, http.StatusOK, data)
}

// Created writes data with 201.
func Created(writer http.ResponseWriter, data any) {
	Status(writer, http.StatusCreated, data)
}

// Page writes one page of a list together with its pagination block.
// A nil slice is written as [] so clients never see "data": null.
func Page[T any](writer http.ResponseWriter, items []T, params pagination.Params, total int) {
	if items == nil {
		items = []T{}
	}
	write(writer, nil, http.StatusOK, pageEnvelope{
		Data: items,
		Meta: pagination.NewMeta(params.Page, params.Limit, total),
	})
}

// NoContent writes 204 with no body.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error writes err as an error envelope.

An [apperr.AppError] keeps its status, code and details. Anything else is
logged with its cause and answered as INTERNAL_ERROR without leaking the
message. Client errors are logged at debug level only.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx)

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request_failed",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", err),
		)
	} else {
		logger.DebugContext(ctx, "request_rejected",
			slog.String("code", appError.Code),
			slog.Int("status", appError.HTTPStatus),
		)
	}

	write(writer, request, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
