// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

/*
TestPage writes an empty list as [] with its pagination block.
*/
func TestPage(t *testing.T) {
	recorder := httptest.NewRecorder()

	var titles []string
	respond.Page(recorder, titles, pagination.Params{Page: 2, Limit: 10}, 25)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"data":[],"meta":{"page":2,"limit":10,"total":25,"total_pages":3}}`,
		recorder.Body.String(),
	)
}

/*
TestError maps application errors to their envelope and hides everything else.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation",
			err:        apperr.ValidationError("Invalid input", apperr.FieldError{Field: "score", Message: "Must be between 1 and 10"}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid input","code":"VALIDATION_ERROR","details":[{"field":"score","message":"Must be between 1 and 10"}]}`,
		},
		{
			name:       "wrapped_not_found",
			err:        errors.Join(errors.New("lookup"), apperr.NotFound("Title")),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Title not found","code":"NOT_FOUND"}`,
		},
		{
			name:       "plain_error",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, recorder.Body.String())
			} else {
				assert.Contains(t, recorder.Body.String(), `"code":"INTERNAL_ERROR"`)
				assert.NotContains(t, recorder.Body.String(), "connection refused")
			}
		})
	}
}

/*
TestStatus_UnencodablePayload falls back to a well-formed 500.
*/
func TestStatus_UnencodablePayload(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Status(recorder, http.StatusOK, map[string]any{"ch": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`, recorder.Body.String())
}
