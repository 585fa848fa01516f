// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and the self-service profile.

# Architecture

  - Admin: list, create, read, patch and delete any account by username.
  - Self: read and patch the caller's own record under /users/me.
  - Domain: This package depends on the auth package for the User entity.

Every operation takes the resolved [access.Actor] and is checked by the
access evaluator before anything is written.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Constraints

const (
	// DefaultPageSize is the user listing page size.
	DefaultPageSize = 100

	// NameMaxLength bounds first_name and last_name.
	NameMaxLength = 150

	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldRole      = "role"
)

// # Inputs

// CreateInput carries the fields an admin may set on a new account.
type CreateInput struct {
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`
	Role      sec.UserRole `json:"role"`
}

// PatchInput carries a partial update. Nil fields are left untouched.
type PatchInput struct {
	Username  *string       `json:"username"`
	Email     *string       `json:"email"`
	FirstName *string       `json:"first_name"`
	LastName  *string       `json:"last_name"`
	Bio       *string       `json:"bio"`
	Role      *sec.UserRole `json:"role"`
}

// # Repository Contracts

// Repository defines the persistence contract for account administration.
type Repository interface {
	/*
		List returns one page of accounts ordered by username.

		Parameters:
		  - ctx: context.Context
		  - search: string (case-insensitive substring of username, may be empty)
		  - params: pagination.Params

		Returns:
		  - []*auth.User: The page
		  - int: Total matching accounts
		  - error: Storage failures
	*/
	List(ctx context.Context, search string, params pagination.Params) ([]*auth.User, int, error)

	FindByID(ctx context.Context, id string) (*auth.User, error)
	FindByUsername(ctx context.Context, username string) (*auth.User, error)

	// Create inserts a new account. Duplicates surface as apperr.Conflict.
	Create(ctx context.Context, user *auth.User) error

	// Update writes the mutable profile columns and the role.
	Update(ctx context.Context, user *auth.User) error

	// Delete removes the account; reviews and comments cascade.
	Delete(ctx context.Context, id string) error
}

// ActorCache is notified when a role changes or an account disappears.
type ActorCache interface {
	Forget(userID string)
}
