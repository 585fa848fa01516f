// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for accounts used by the
// registration flow.
type UserRepository interface {

	// FindByID returns the account with the given ID or NotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername returns the account with the given username or NotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail returns the account with the given email or NotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr Conflict when username or email is already taken
	*/
	Create(ctx context.Context, user *User) error

	// MarkConfirmed stamps confirmed_at if it is still empty.
	MarkConfirmed(ctx context.Context, userID string, at time.Time) error
}

// # Volatile Data Access

// CodeStore holds at most one outstanding confirmation-code hash per user.
type CodeStore interface {

	// Save replaces the user's outstanding code hash and restarts its TTL.
	Save(ctx context.Context, userID, codeHash string, ttl time.Duration) error

	// Get returns the outstanding hash, or NotFound when none is pending.
	Get(ctx context.Context, userID string) (string, error)

	/*
		Consume deletes the outstanding hash only if it still equals codeHash.

		Returns:
		  - bool: false when another request redeemed or replaced the code first
	*/
	Consume(ctx context.Context, userID, codeHash string) (bool, error)
}
