// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

/*
TestWrap maps driver errors onto the application error taxonomy.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"unique_violation", &pgconn.PgError{Code: "23505"}, apperr.CodeConflict},
		{"foreign_key", &pgconn.PgError{Code: "23503"}, apperr.CodeValidation},
		{"check", &pgconn.PgError{Code: "23514"}, apperr.CodeValidation},
		{"unknown", errors.New("connection reset"), apperr.CodeInternal},
		{"already_classified", apperr.Forbidden("nope"), apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "test_action")
			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

/*
TestWrap_KeepsCause ensures internal errors still expose the driver error for logs.
*/
func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("boom")

	wrapped := dberr.Wrap(cause, "list_titles")

	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, apperr.As(wrapped).Cause.Error(), "list_titles")
}

/*
TestIsUniqueViolation matches on constraint name.
*/
func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "review_title_author_key"})

	assert.True(t, dberr.IsUniqueViolation(err, "review_title_author_key"))
	assert.True(t, dberr.IsUniqueViolation(err, ""))
	assert.False(t, dberr.IsUniqueViolation(err, "account_email_key"))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain"), ""))
}

/*
TestWrapFor names the resource on missing rows and defers to Wrap otherwise.
*/
func TestWrapFor(t *testing.T) {
	err := dberr.WrapFor(pgx.ErrNoRows, "get_title", "Title")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
	assert.Equal(t, "Title not found", ae.Message)

	assert.Nil(t, dberr.WrapFor(nil, "get_title", "Title"))
	assert.True(t, apperr.HasCode(dberr.WrapFor(&pgconn.PgError{Code: "23505"}, "x", "Title"), apperr.CodeConflict))
}
