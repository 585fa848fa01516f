// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements registration by emailed confirmation code and the
exchange of that code for an access token.

# Flow

  - Signup creates the account (role user) or, for a repeated
    username/email pair, simply issues a fresh code.
  - The code is bcrypt-hashed into Redis with a TTL and handed to a
    [Notifier] for out-of-band delivery.
  - ConfirmAndIssueToken redeems the code exactly once and returns an RS256 JWT.

The package also owns the [User] entity and the [ActorResolver] used by the
HTTP middleware to refresh role and superuser flag on every request.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the yamdb platform.
type User struct {
	ID          string       `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Bio         string       `json:"bio"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"`
	ConfirmedAt *time.Time   `json:"-"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// IsConfirmed reports whether the user has redeemed a confirmation code.
func (user *User) IsConfirmed() bool {
	return user.ConfirmedAt != nil
}

// Actor builds the authenticated [access.Actor] for this user.
func (user *User) Actor() access.Actor {
	return access.Actor{
		UserID:        user.ID,
		Username:      user.Username,
		Role:          user.Role,
		IsSuperuser:   user.IsSuperuser,
		Authenticated: true,
	}
}

// Token is the result of a successful code exchange.
type Token struct {
	AccessToken string    `json:"token"`
	ExpiresAt   time.Time `json:"-"`
}

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
)

// # Constraints

const (
	// UsernameMaxLength bounds the username column.
	UsernameMaxLength = 150

	// EmailMaxLength bounds the email column.
	EmailMaxLength = 254

	// CodeLength is the number of characters in a confirmation code.
	CodeLength = 8
)
