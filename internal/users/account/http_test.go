// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
)

func serve(handler *account.Handler, actor access.Actor, method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request = request.WithContext(ctxutil.WithActor(request.Context(), actor))
	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_PatchMeIgnoresRole drops the role field instead of failing.
*/
func TestHandler_PatchMeIgnoresRole(t *testing.T) {
	service, repo, _ := newService()
	handler := account.NewHandler(service)

	recorder := serve(handler, plainUser.Actor(), http.MethodPatch, "/me", `{"role":"admin","bio":"reader"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, sec.RoleUser, repo.users["u1"].Role)
	assert.Equal(t, "reader", repo.users["u1"].Bio)
	assert.Contains(t, recorder.Body.String(), `"role":"user"`)
}

/*
TestHandler_Routes checks status codes through the router.
*/
func TestHandler_Routes(t *testing.T) {
	tests := []struct {
		name   string
		actor  access.Actor
		method string
		path   string
		body   string
		want   int
	}{
		{"me_anonymous", access.Anonymous(), http.MethodGet, "/me", "", http.StatusUnauthorized},
		{"me_user", plainUser.Actor(), http.MethodGet, "/me", "", http.StatusOK},
		{"list_user", plainUser.Actor(), http.MethodGet, "/", "", http.StatusForbidden},
		{"list_admin", adminUser.Actor(), http.MethodGet, "/?search=ali", "", http.StatusOK},
		{"get_missing", adminUser.Actor(), http.MethodGet, "/ghost", "", http.StatusNotFound},
		{"create_admin", adminUser.Actor(), http.MethodPost, "/", `{"username":"bob","email":"bob@example.com"}`, http.StatusCreated},
		{"create_bad_json", adminUser.Actor(), http.MethodPost, "/", `{`, http.StatusBadRequest},
		{"delete_moderator", modUser.Actor(), http.MethodDelete, "/alice", "", http.StatusForbidden},
		{"delete_admin", adminUser.Actor(), http.MethodDelete, "/alice", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newService()
			recorder := serve(account.NewHandler(service), tt.actor, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, recorder.Code, recorder.Body.String())
		})
	}
}
