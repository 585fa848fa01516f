// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// RoleUser is the default role for registered accounts.
	RoleUser UserRole = "user"

	// RoleModerator may edit or remove any review and comment.
	RoleModerator UserRole = "moderator"

	// RoleAdmin manages users, categories, genres and titles.
	RoleAdmin UserRole = "admin"
)

// Roles lists every assignable role in display order.
var Roles = []UserRole{RoleUser, RoleModerator, RoleAdmin}

// IsValid reports whether r is one of the assignable role literals.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// String implements [fmt.Stringer].
func (r UserRole) String() string { return string(r) }

// # Capabilities

// Capabilities is the resolved set of permissions an account holds.
//
// Moderate does not imply Admin. Only the superuser flag grants both.
type Capabilities struct {
	Admin    bool
	Moderate bool
	Base     bool
}

// Resolve maps a role and the superuser flag to capabilities.
//
// Precedence, highest first: superuser, admin, moderator, anything else.
// Unknown or empty roles fall back to base capability only.
func Resolve(role UserRole, isSuperuser bool) Capabilities {
	if isSuperuser {
		return Capabilities{Admin: true, Moderate: true, Base: true}
	}

	switch role {
	case RoleAdmin:
		return Capabilities{Admin: true, Base: true}
	case RoleModerator:
		return Capabilities{Moderate: true, Base: true}
	default:
		return Capabilities{Base: true}
	}
}
