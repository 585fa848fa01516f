// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides whether an actor may perform an action on a resource.

[Authorize] is a pure function: it reads nothing but its arguments, so the
same policy table is shared by middleware, handlers and tests.

Usage:

	actor := ctxutil.GetActor(ctx)
	if err := access.Enforce(actor, access.Update, access.Reviews, &access.Target{OwnerID: rv.AuthorID}); err != nil {
	    return err
	}

Handlers load the target object before calling [Enforce], so a missing object
is reported as NotFound ahead of any permission check.
*/
package access

import (
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Vocabulary

// Action is what the actor wants to do.
type Action string

const (
	Read   Action = "read"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Safe reports whether the action does not mutate state.
func (a Action) Safe() bool { return a == Read }

// Resource names a family of objects guarded by the same rule.
type Resource string

const (
	Users      Resource = "users"
	Self       Resource = "self"
	Categories Resource = "categories"
	Genres     Resource = "genres"
	Titles     Resource = "titles"
	Reviews    Resource = "reviews"
	Comments   Resource = "comments"
)

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

// # Subjects

// Actor is the identity behind a request. The zero value is anonymous.
type Actor struct {
	UserID        string
	Username      string
	Role          sec.UserRole
	IsSuperuser   bool
	Authenticated bool
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor { return Actor{} }

// Capabilities resolves the actor's role and superuser flag.
func (a Actor) Capabilities() sec.Capabilities {
	if !a.Authenticated {
		return sec.Capabilities{}
	}
	return sec.Resolve(a.Role, a.IsSuperuser)
}

// Target carries the object-level facts a rule may need.
// A nil *Target means a collection-level check.
type Target struct {
	// OwnerID is the author of a review/comment or the id of a user record.
	OwnerID string

	// RequestedRole is set when the request tries to change a role.
	RequestedRole *sec.UserRole
}

// # Policy

// Authorize evaluates the policy table. It never panics and has no side effects.
func Authorize(actor Actor, action Action, resource Resource, target *Target) Decision {
	caps := actor.Capabilities()

	// Superuser short-circuits every rule.
	if actor.Authenticated && actor.IsSuperuser {
		return Allow
	}

	switch resource {
	case Users:
		return Decision(caps.Admin)

	case Self:
		if !actor.Authenticated {
			return Deny
		}
		if target != nil && target.OwnerID != actor.UserID {
			return Deny
		}
		if !action.Safe() && target != nil && target.RequestedRole != nil && *target.RequestedRole != actor.Role {
			return Deny
		}
		return Allow

	case Categories, Genres, Titles:
		if action.Safe() {
			return Allow
		}
		return Decision(caps.Admin)

	case Reviews, Comments:
		switch action {
		case Read:
			return Allow
		case Create:
			return Decision(actor.Authenticated)
		default:
			if !actor.Authenticated {
				return Deny
			}
			if caps.Admin || caps.Moderate {
				return Allow
			}
			return Decision(target != nil && target.OwnerID != "" && target.OwnerID == actor.UserID)
		}
	}

	return Deny
}

// Enforce converts a Deny into the matching application error.
//
// Anonymous actors receive Unauthorized so clients know to authenticate;
// authenticated actors receive Forbidden.
func Enforce(actor Actor, action Action, resource Resource, target *Target) error {
	if Authorize(actor, action, resource, target) == Allow {
		return nil
	}
	if !actor.Authenticated {
		return apperr.Unauthorized("Authentication credentials were not provided")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
