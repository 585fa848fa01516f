// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/access"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slice"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Service Layer

// Service orchestrates account administration and the self profile.
type Service struct {
	accountRepository Repository
	actorCache        ActorCache
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo Repository, actorCache ActorCache) *Service {
	return &Service{
		accountRepository: accountRepo,
		actorCache:        actorCache,
	}
}

// # Administration

// List returns a page of accounts. Admin only.
func (service *Service) List(ctx context.Context, actor access.Actor, search string, params pagination.Params) ([]*auth.User, int, error) {
	if err := access.Enforce(actor, access.Read, access.Users, nil); err != nil {
		return nil, 0, err
	}

	users, total, err := service.accountRepository.List(ctx, strings.TrimSpace(search), params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
Create registers an account on behalf of an admin.

The account starts unconfirmed; the user still redeems a code through the
signup flow to obtain a token. An omitted role defaults to user.

Returns:
  - *auth.User: The stored account
  - error: Forbidden, ValidationError or Conflict
*/
func (service *Service) Create(ctx context.Context, actor access.Actor, input CreateInput) (*auth.User, error) {
	if err := access.Enforce(actor, access.Create, access.Users, nil); err != nil {
		return nil, err
	}

	if input.Role == "" {
		input.Role = sec.RoleUser
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(input.Username),
		Email:     strings.TrimSpace(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_created",
		slog.String("user_id", user.ID),
		slog.String("by", actor.UserID),
	)
	return user, nil
}

// Get loads an account by username. Admin only.
func (service *Service) Get(ctx context.Context, actor access.Actor, username string) (*auth.User, error) {
	if err := access.Enforce(actor, access.Read, access.Users, nil); err != nil {
		return nil, err
	}
	return service.accountRepository.FindByUsername(ctx, username)
}

// Patch applies a partial update to any account. Admin only.
func (service *Service) Patch(ctx context.Context, actor access.Actor, username string, input PatchInput) (*auth.User, error) {
	if err := access.Enforce(actor, access.Update, access.Users, nil); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return service.apply(ctx, actor, user, input)
}

// Delete removes an account by username. Admin only.
func (service *Service) Delete(ctx context.Context, actor access.Actor, username string) error {
	if err := access.Enforce(actor, access.Delete, access.Users, nil); err != nil {
		return err
	}

	user, err := service.accountRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := service.accountRepository.Delete(ctx, user.ID); err != nil {
		return err
	}
	service.actorCache.Forget(user.ID)

	ctxutil.GetLogger(ctx).WarnContext(ctx, "user_deleted",
		slog.String("user_id", user.ID),
		slog.String("by", actor.UserID),
	)
	return nil
}

// # Self Profile

// Me returns the caller's own record.
func (service *Service) Me(ctx context.Context, actor access.Actor) (*auth.User, error) {
	if err := access.Enforce(actor, access.Read, access.Self, &access.Target{OwnerID: actor.UserID}); err != nil {
		return nil, err
	}
	return service.accountRepository.FindByID(ctx, actor.UserID)
}

/*
PatchMe applies a partial update to the caller's own record.

A requested role different from the current one is denied by the access
evaluator. The HTTP layer drops the field before it gets here.
*/
func (service *Service) PatchMe(ctx context.Context, actor access.Actor, input PatchInput) (*auth.User, error) {
	target := &access.Target{OwnerID: actor.UserID, RequestedRole: input.Role}
	if err := access.Enforce(actor, access.Update, access.Self, target); err != nil {
		return nil, err
	}

	user, err := service.accountRepository.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	return service.apply(ctx, actor, user, input)
}

// # Helpers

func (service *Service) apply(ctx context.Context, actor access.Actor, user *auth.User, input PatchInput) (*auth.User, error) {
	previousRole := user.Role

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := validateUser(user); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(ctx, user); err != nil {
		return nil, err
	}

	if user.Role != previousRole {
		service.actorCache.Forget(user.ID)
		ctxutil.GetLogger(ctx).InfoContext(ctx, "user_role_changed",
			slog.String("user_id", user.ID),
			slog.String("role", user.Role.String()),
			slog.String("by", actor.UserID),
		)
	}
	return user, nil
}

var roleNames = slice.Map(sec.Roles, sec.UserRole.String)

func validateUser(user *auth.User) error {
	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, user.Username).
		MaxLen(auth.FieldUsername, user.Username, auth.UsernameMaxLength).
		Username(auth.FieldUsername, user.Username).
		Required(auth.FieldEmail, user.Email).
		MaxLen(auth.FieldEmail, user.Email, auth.EmailMaxLength).
		MaxLen(FieldFirstName, user.FirstName, NameMaxLength).
		MaxLen(FieldLastName, user.LastName, NameMaxLength).
		OneOf(FieldRole, string(user.Role), roleNames...)

	if user.Email != "" {
		validator.Email(auth.FieldEmail, user.Email)
	}
	return validator.Err()
}
