// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// deliveryTimeout bounds how long a signup waits on the notifier.
const deliveryTimeout = 5 * time.Second

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID, username, role string, isSuperuser bool, timeToLive time.Duration) (string, error)
}

// Service implements the signup and confirmation use cases.
type Service struct {
	userRepository UserRepository
	codeStore      CodeStore
	tokenProvider  TokenProvider
	notifier       Notifier
	codeTTL        time.Duration
	tokenTTL       time.Duration
	now            func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codes CodeStore,
	tokenProv TokenProvider,
	notifier Notifier,
	codeTTL time.Duration,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeStore:      codes,
		tokenProvider:  tokenProv,
		notifier:       notifier,
		codeTTL:        codeTTL,
		tokenTTL:       tokenTTL,
		now:            time.Now,
	}
}

// SignupInput identifies the (username, email) pair being registered.
type SignupInput struct {
	Username string
	Email    string
}

func (input SignupInput) normalize() SignupInput {
	return SignupInput{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
	}
}

func (input SignupInput) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, UsernameMaxLength).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, EmailMaxLength)

	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}
	return validator.Err()
}

// # Registration Flow

/*
Signup registers a (username, email) pair and sends it a confirmation code.

Description: A fresh pair creates the account in role user. Repeating the
same pair keeps the account and replaces the outstanding code. A username or
email already held by a different identity is a Conflict and changes nothing.

Parameters:
  - ctx: context.Context
  - input: SignupInput

Returns:
  - *User: The new or existing account
  - error: ValidationError, Conflict or internal failures
*/
func (service *Service) Signup(ctx context.Context, input SignupInput) (*User, error) {
	input = input.normalize()
	if err := input.validate(); err != nil {
		metrics.SignupsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}

	user, err := service.matchIdentity(ctx, input)
	if err != nil {
		return nil, err
	}

	outcome := metrics.OutcomeReissued
	if user == nil {
		user, outcome, err = service.createUser(ctx, input)
		if err != nil {
			return nil, err
		}
	}

	if err := service.issueCode(ctx, user); err != nil {
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(outcome).Inc()
	return user, nil
}

// createUser inserts a new account. When a concurrent signup wins the unique
// constraint, the pair is matched again so the loser gets the same answer it
// would have received had it arrived second.
func (service *Service) createUser(ctx context.Context, input SignupInput) (*User, string, error) {
	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	err := service.userRepository.Create(ctx, user)
	if err == nil {
		return user, metrics.OutcomeCreated, nil
	}
	if !apperr.HasCode(err, apperr.CodeConflict) {
		return nil, "", fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	existing, err := service.matchIdentity(ctx, input)
	if err != nil {
		return nil, "", err
	}
	if existing == nil {
		return nil, "", apperr.Conflict("Username or email is already registered")
	}
	return existing, metrics.OutcomeReissued, nil
}

/*
Resend issues a fresh code for an existing (username, email) pair.

Returns:
  - error: NotFound for an unknown username, Conflict when the email differs
*/
func (service *Service) Resend(ctx context.Context, input SignupInput) error {
	input = input.normalize()
	if err := input.validate(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByUsername(ctx, input.Username)
	if err != nil {
		return err
	}
	if user.Email != input.Email {
		return apperr.Conflict("Email does not match this username")
	}

	return service.issueCode(ctx, user)
}

// matchIdentity returns the account owning both username and email, nil when
// neither is taken, or a Conflict when they belong to different identities.
func (service *Service) matchIdentity(ctx context.Context, input SignupInput) (*User, error) {
	byUsername, err := service.findOptional(ctx, service.userRepository.FindByUsername, input.Username)
	if err != nil {
		return nil, err
	}
	byEmail, err := service.findOptional(ctx, service.userRepository.FindByEmail, input.Email)
	if err != nil {
		return nil, err
	}

	switch {
	case byUsername == nil && byEmail == nil:
		return nil, nil
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		return byUsername, nil
	}

	metrics.SignupsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()

	var details []apperr.FieldError
	if byUsername != nil {
		details = append(details, apperr.FieldError{Field: FieldUsername, Message: "Username is registered with a different email"})
	}
	if byEmail != nil {
		details = append(details, apperr.FieldError{Field: FieldEmail, Message: "Email is registered with a different username"})
	}

	conflict := apperr.Conflict("Username or email is already registered")
	conflict.Details = details
	return nil, conflict
}

func (service *Service) findOptional(ctx context.Context, find func(context.Context, string) (*User, error), value string) (*User, error) {
	user, err := find(ctx, value)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}
	return user, nil
}

// issueCode replaces the user's outstanding code and hands it to the notifier.
func (service *Service) issueCode(ctx context.Context, user *User) error {
	code, err := sec.GenerateCode(CodeLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_code_failed: %w", err)
	}

	codeHash, err := sec.HashSecret(code)
	if err != nil {
		return fmt.Errorf("auth_service_hash_code_failed: %w", err)
	}

	if err := service.codeStore.Save(ctx, user.ID, codeHash, service.codeTTL); err != nil {
		return fmt.Errorf("auth_service_save_code_failed: %w", err)
	}

	service.deliver(ctx, ConfirmationCodeMessage{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Code:      code,
		ExpiresAt: service.now().Add(service.codeTTL).UTC(),
	})
	return nil
}

// deliver hands the code to the notifier. Failures are logged and counted,
// never returned: the account stays and the user can ask for a resend.
func (service *Service) deliver(ctx context.Context, message ConfirmationCodeMessage) {
	deliverCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	logger := ctxutil.GetLogger(ctx)
	if err := service.notifier.DeliverCode(deliverCtx, message); err != nil {
		metrics.ConfirmationDeliveriesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		logger.WarnContext(ctx, "confirmation_code_delivery_failed",
			slog.String("user_id", message.UserID),
			slog.Any("error", err),
		)
		return
	}

	metrics.ConfirmationDeliveriesTotal.WithLabelValues(metrics.OutcomeQueued).Inc()
	logger.InfoContext(ctx, "signup_code_issued", slog.String("user_id", message.UserID))
}

// # Confirmation Flow

/*
ConfirmAndIssueToken redeems the outstanding code and returns an access token.

Description: The code is removed with a compare-and-delete on the exact hash
that was verified, so two concurrent redemptions yield one token at most.

Returns:
  - *Token: Signed access token
  - error: NotFound (unknown username), ValidationError (bad code)
*/
func (service *Service) ConfirmAndIssueToken(ctx context.Context, username, code string) (*Token, error) {
	user, codeHash, err := service.verify(ctx, username, code)
	if err != nil {
		return nil, err
	}

	consumed, err := service.codeStore.Consume(ctx, user.ID, codeHash)
	if err != nil {
		return nil, fmt.Errorf("auth_service_consume_code_failed: %w", err)
	}
	if !consumed {
		return nil, errInvalidCode()
	}

	now := service.now().UTC()
	if err := service.userRepository.MarkConfirmed(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("auth_service_confirm_failed: %w", err)
	}

	role := user.Role
	if role == "" {
		role = sec.RoleUser
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(role), user.IsSuperuser, service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "confirmation_code_redeemed", slog.String("user_id", user.ID))

	return &Token{AccessToken: accessToken, ExpiresAt: now.Add(service.tokenTTL)}, nil
}

// ValidateCode checks a code without consuming it.
func (service *Service) ValidateCode(ctx context.Context, username, code string) error {
	_, _, err := service.verify(ctx, username, code)
	return err
}

// verify resolves the user and checks code against the stored hash.
func (service *Service) verify(ctx context.Context, username, code string) (*User, string, error) {
	username = strings.TrimSpace(username)
	code = strings.ToUpper(strings.TrimSpace(code))

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Required(FieldConfirmationCode, code)
	if err := validator.Err(); err != nil {
		return nil, "", err
	}

	user, err := service.userRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	codeHash, err := service.codeStore.Get(ctx, user.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, "", errInvalidCode()
		}
		return nil, "", fmt.Errorf("auth_service_load_code_failed: %w", err)
	}

	if !sec.CheckSecretHash(code, codeHash) {
		return nil, "", errInvalidCode()
	}

	return user, codeHash, nil
}

func errInvalidCode() error {
	return validate.RequiredError(FieldConfirmationCode, "Confirmation code is invalid or has already been used")
}
