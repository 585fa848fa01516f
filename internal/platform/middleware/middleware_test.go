// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (s stubVerifier) VerifyToken(string) (*sec.AuthClaims, error) { return s.claims, s.err }

type stubResolver struct {
	actor access.Actor
	err   error
}

func (s stubResolver) ResolveActor(context.Context, *sec.AuthClaims) (access.Actor, error) {
	return s.actor, s.err
}

type stubConfig struct {
	dev    bool
	suffix string
}

func (c stubConfig) IsDevelopment() bool  { return c.dev }
func (c stubConfig) OriginSuffix() string { return c.suffix }

// echoActor writes the resolved username so tests can see who the handler saw.
func echoActor(writer http.ResponseWriter, request *http.Request) {
	actor := ctxutil.GetActor(request.Context())
	if !actor.Authenticated {
		_, _ = writer.Write([]byte("anonymous"))
		return
	}
	_, _ = writer.Write([]byte(actor.Username))
}

func newAuthRouter(verifier middleware.TokenVerifier, resolver middleware.ActorResolver) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(verifier))
	router.Use(middleware.ResolveActor(resolver))
	router.Get("/whoami", echoActor)
	router.With(middleware.RequireAuth).Get("/private", echoActor)
	router.With(middleware.RequireAccess(access.Titles, access.Create)).Post("/titles", echoActor)
	return router
}

/*
TestAuthentication_Chain runs the Authenticate -> ResolveActor pair end to end.
*/
func TestAuthentication_Chain(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u1", Username: "alice", Role: "user"}
	alice := access.Actor{UserID: "u1", Username: "alice", Role: sec.RoleUser, Authenticated: true}
	admin := access.Actor{UserID: "a1", Username: "root", Role: sec.RoleAdmin, Authenticated: true}

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		verifier   stubVerifier
		resolver   stubResolver
		wantStatus int
		wantBody   string
	}{
		{"anonymous_public", http.MethodGet, "/whoami", "", stubVerifier{}, stubResolver{}, http.StatusOK, "anonymous"},
		{"anonymous_private", http.MethodGet, "/private", "", stubVerifier{}, stubResolver{}, http.StatusUnauthorized, ""},
		{"bad_scheme", http.MethodGet, "/whoami", "Basic abc", stubVerifier{}, stubResolver{}, http.StatusUnauthorized, ""},
		{"bad_token", http.MethodGet, "/whoami", "Bearer abc", stubVerifier{err: errors.New("expired")}, stubResolver{}, http.StatusUnauthorized, ""},
		{"resolved", http.MethodGet, "/private", "Bearer ok", stubVerifier{claims: claims}, stubResolver{actor: alice}, http.StatusOK, "alice"},
		{"deleted_account", http.MethodGet, "/whoami", "Bearer ok", stubVerifier{claims: claims}, stubResolver{err: apperr.Unauthorized("gone")}, http.StatusUnauthorized, ""},
		{"user_cannot_create_title", http.MethodPost, "/titles", "Bearer ok", stubVerifier{claims: claims}, stubResolver{actor: alice}, http.StatusForbidden, ""},
		{"anonymous_cannot_create_title", http.MethodPost, "/titles", "", stubVerifier{}, stubResolver{}, http.StatusUnauthorized, ""},
		{"admin_creates_title", http.MethodPost, "/titles", "Bearer ok", stubVerifier{claims: claims}, stubResolver{actor: admin}, http.StatusOK, "root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(tt.verifier, tt.resolver)

			request := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}

/*
TestCORS checks origin matching against the configured suffix.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(stubConfig{suffix: "yamdb.app"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://www.yamdb.app", true},
		{"https://evil.example", false},
	}

	for _, tt := range tests {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Origin", tt.origin)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		if tt.allowed {
			assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
		} else {
			assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
		}
	}

	// Pre-flight short-circuits with 204
	request := httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set("Origin", "https://www.yamdb.app")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

/*
TestRequestID echoes a client-supplied id and generates one otherwise.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", recorder.Header().Get("X-Request-ID"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.NotEqual(t, "abc", seen)
}

/*
TestPanicRecovery converts a panic into a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apperr.CodeInternal)
}
