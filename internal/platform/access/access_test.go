// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

var (
	allActions   = []access.Action{access.Read, access.Create, access.Update, access.Delete}
	allResources = []access.Resource{
		access.Users, access.Self, access.Categories, access.Genres,
		access.Titles, access.Reviews, access.Comments,
	}
)

func actor(id string, role sec.UserRole, superuser bool) access.Actor {
	return access.Actor{UserID: id, Username: id, Role: role, IsSuperuser: superuser, Authenticated: true}
}

func rolePtr(r sec.UserRole) *sec.UserRole { return &r }

/*
TestAuthorize_SuperuserAllowsEverything covers the full grid for a superuser
whose stored role is the plain user role.
*/
func TestAuthorize_SuperuserAllowsEverything(t *testing.T) {
	su := actor("root", sec.RoleUser, true)
	targets := []*access.Target{
		nil,
		{OwnerID: "someone-else"},
		{OwnerID: "someone-else", RequestedRole: rolePtr(sec.RoleAdmin)},
	}

	for _, resource := range allResources {
		for _, action := range allActions {
			for _, target := range targets {
				assert.Equal(t, access.Allow, access.Authorize(su, action, resource, target), "%s %s", action, resource)
			}
		}
	}
}

/*
TestAuthorize_Table checks the individual rows of the policy.
*/
func TestAuthorize_Table(t *testing.T) {
	anon := access.Anonymous()
	user := actor("u1", sec.RoleUser, false)
	mod := actor("m1", sec.RoleModerator, false)
	admin := actor("a1", sec.RoleAdmin, false)

	own := &access.Target{OwnerID: "u1"}
	foreign := &access.Target{OwnerID: "u2"}

	tests := []struct {
		name     string
		actor    access.Actor
		action   access.Action
		resource access.Resource
		target   *access.Target
		want     access.Decision
	}{
		// users
		{"anon_list_users", anon, access.Read, access.Users, nil, access.Deny},
		{"user_list_users", user, access.Read, access.Users, nil, access.Deny},
		{"moderator_list_users", mod, access.Read, access.Users, nil, access.Deny},
		{"admin_list_users", admin, access.Read, access.Users, nil, access.Allow},
		{"admin_change_role", admin, access.Update, access.Users, &access.Target{OwnerID: "u1", RequestedRole: rolePtr(sec.RoleModerator)}, access.Allow},

		// self
		{"anon_self", anon, access.Read, access.Self, nil, access.Deny},
		{"user_read_self", user, access.Read, access.Self, own, access.Allow},
		{"user_update_self", user, access.Update, access.Self, own, access.Allow},
		{"user_update_other_via_self", user, access.Update, access.Self, foreign, access.Deny},
		{"user_escalate_self", user, access.Update, access.Self, &access.Target{OwnerID: "u1", RequestedRole: rolePtr(sec.RoleAdmin)}, access.Deny},
		{"user_same_role_self", user, access.Update, access.Self, &access.Target{OwnerID: "u1", RequestedRole: rolePtr(sec.RoleUser)}, access.Allow},
		{"admin_demote_self", admin, access.Update, access.Self, &access.Target{OwnerID: "a1", RequestedRole: rolePtr(sec.RoleUser)}, access.Deny},

		// catalog
		{"anon_read_titles", anon, access.Read, access.Titles, nil, access.Allow},
		{"anon_create_genre", anon, access.Create, access.Genres, nil, access.Deny},
		{"user_create_category", user, access.Create, access.Categories, nil, access.Deny},
		{"moderator_delete_title", mod, access.Delete, access.Titles, nil, access.Deny},
		{"admin_delete_title", admin, access.Delete, access.Titles, nil, access.Allow},

		// reviews and comments
		{"anon_read_reviews", anon, access.Read, access.Reviews, nil, access.Allow},
		{"anon_create_review", anon, access.Create, access.Reviews, nil, access.Deny},
		{"user_create_comment", user, access.Create, access.Comments, nil, access.Allow},
		{"owner_update_review", user, access.Update, access.Reviews, own, access.Allow},
		{"stranger_update_review", user, access.Update, access.Reviews, foreign, access.Deny},
		{"stranger_collection_update", user, access.Update, access.Reviews, nil, access.Deny},
		{"moderator_delete_comment", mod, access.Delete, access.Comments, foreign, access.Allow},
		{"admin_update_review", admin, access.Update, access.Reviews, foreign, access.Allow},
		{"anon_delete_review", anon, access.Delete, access.Reviews, foreign, access.Deny},

		// unknown resource
		{"unknown_resource", admin, access.Read, access.Resource("payments"), nil, access.Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Authorize(tt.actor, tt.action, tt.resource, tt.target))
		})
	}
}

/*
TestAuthorize_SuperuserFlagIgnoredWhenAnonymous guards against a forged
anonymous actor carrying the superuser bit.
*/
func TestAuthorize_SuperuserFlagIgnoredWhenAnonymous(t *testing.T) {
	forged := access.Actor{IsSuperuser: true}
	assert.Equal(t, access.Deny, access.Authorize(forged, access.Delete, access.Titles, nil))
}

/*
TestEnforce maps denials to Unauthorized or Forbidden.
*/
func TestEnforce(t *testing.T) {
	assert.NoError(t, access.Enforce(access.Anonymous(), access.Read, access.Titles, nil))

	err := access.Enforce(access.Anonymous(), access.Create, access.Reviews, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	err = access.Enforce(actor("u1", sec.RoleUser, false), access.Create, access.Titles, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}
