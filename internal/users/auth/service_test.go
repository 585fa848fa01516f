// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # In-memory stubs

type memUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User

	// beforeCreate runs inside Create to simulate a concurrent writer.
	beforeCreate func(m *memUsers)
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*auth.User{}} }

func (m *memUsers) put(user *auth.User) {
	copied := *user
	m.users[user.ID] = &copied
}

func (m *memUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.ID == id })
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Username == username })
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Email == email })
}

func (m *memUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeCreate != nil {
		m.beforeCreate(m)
		m.beforeCreate = nil
	}
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.Conflict("Resource already exists")
		}
	}
	m.put(user)
	return nil
}

func (m *memUsers) MarkConfirmed(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	if u.ConfirmedAt == nil {
		u.ConfirmedAt = &at
	}
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type memCodes struct {
	mu     sync.Mutex
	hashes map[string]string
}

func newMemCodes() *memCodes { return &memCodes{hashes: map[string]string{}} }

func (m *memCodes) Save(_ context.Context, userID, codeHash string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashes[userID] = codeHash
	return nil
}

func (m *memCodes) Get(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[userID]
	if !ok {
		return "", apperr.NotFound("Confirmation code")
	}
	return h, nil
}

func (m *memCodes) Consume(_ context.Context, userID, codeHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hashes[userID] != codeHash {
		return false, nil
	}
	delete(m.hashes, userID)
	return true, nil
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, username, role string, isSuperuser bool, _ time.Duration) (string, error) {
	return strings.Join([]string{userID, username, role}, "|"), nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []auth.ConfirmationCodeMessage
	err      error
}

func (r *recordingNotifier) DeliverCode(_ context.Context, message auth.ConfirmationCodeMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return r.err
}

func (r *recordingNotifier) lastCode(t *testing.T) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.messages)
	return r.messages[len(r.messages)-1].Code
}

type fixture struct {
	users    *memUsers
	codes    *memCodes
	notifier *recordingNotifier
	service  *auth.Service
}

func newFixture() *fixture {
	f := &fixture{users: newMemUsers(), codes: newMemCodes(), notifier: &recordingNotifier{}}
	f.service = auth.NewService(f.users, f.codes, stubTokens{}, f.notifier, time.Hour, time.Hour)
	return f
}

func errCode(err error) string {
	if ae := apperr.As(err); ae != nil {
		return ae.Code
	}
	return ""
}

// # Signup

/*
TestSignup_FreshPair creates a user in role user and delivers a code.
*/
func TestSignup_FreshPair(t *testing.T) {
	f := newFixture()

	user, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsConfirmed())
	assert.Equal(t, 1, f.users.count())
	assert.Len(t, f.notifier.lastCode(t), auth.CodeLength)
	assert.Equal(t, "alice@example.com", f.notifier.messages[0].Email)
}

/*
TestSignup_SamePairIsIdempotent reissues the code without a second account.
*/
func TestSignup_SamePairIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	input := auth.SignupInput{Username: "alice", Email: "alice@example.com"}

	first, err := f.service.Signup(ctx, input)
	require.NoError(t, err)
	firstCode := f.notifier.lastCode(t)

	second, err := f.service.Signup(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.users.count())
	assert.Len(t, f.notifier.messages, 2)

	// Only the latest code is outstanding.
	latest := f.notifier.lastCode(t)
	if latest != firstCode {
		assert.True(t, apperr.HasCode(f.service.ValidateCode(ctx, "alice", firstCode), apperr.CodeValidation))
	}
	assert.NoError(t, f.service.ValidateCode(ctx, "alice", latest))
}

/*
TestSignup_Conflict rejects a username or email owned by another identity.
*/
func TestSignup_Conflict(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignupInput
	}{
		{"username_taken", auth.SignupInput{Username: "alice", Email: "other@example.com"}},
		{"email_taken", auth.SignupInput{Username: "bob", Email: "alice@example.com"}},
		{"crossed_pair", auth.SignupInput{Username: "alice", Email: "carol@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			_, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
			require.NoError(t, err)
			_, err = f.service.Signup(ctx, auth.SignupInput{Username: "carol", Email: "carol@example.com"})
			require.NoError(t, err)
			sent := len(f.notifier.messages)

			_, err = f.service.Signup(ctx, tt.input)
			assert.Equal(t, apperr.CodeConflict, errCode(err))
			assert.Equal(t, 2, f.users.count())
			assert.Len(t, f.notifier.messages, sent)
		})
	}
}

/*
TestSignup_Validation rejects malformed input before touching storage.
*/
func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignupInput
	}{
		{"reserved_me", auth.SignupInput{Username: "me", Email: "me@example.com"}},
		{"empty_username", auth.SignupInput{Username: "", Email: "a@example.com"}},
		{"bad_pattern", auth.SignupInput{Username: "a b", Email: "a@example.com"}},
		{"too_long", auth.SignupInput{Username: strings.Repeat("a", 151), Email: "a@example.com"}},
		{"bad_email", auth.SignupInput{Username: "alice", Email: "not-an-email"}},
		{"empty_email", auth.SignupInput{Username: "alice", Email: ""}},
		{"display_name_email", auth.SignupInput{Username: "mallory", Email: "Alice <alice@example.com>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.service.Signup(context.Background(), tt.input)
			assert.Equal(t, apperr.CodeValidation, errCode(err))
			assert.Zero(t, f.users.count())
			assert.Empty(t, f.notifier.messages)
		})
	}
}

/*
TestSignup_DisplayNameCannotShareMailbox keeps one mailbox per identity when
the second attempt wraps the same address in a display name.
*/
func TestSignup_DisplayNameCannotShareMailbox(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = f.service.Signup(ctx, auth.SignupInput{Username: "mallory", Email: "Alice <alice@example.com>"})
	assert.Equal(t, apperr.CodeValidation, errCode(err))
	assert.Equal(t, 1, f.users.count())
	assert.Len(t, f.notifier.messages, 1)
}

/*
TestSignup_DeliveryFailureKeepsUser checks that delivery is best effort.
*/
func TestSignup_DeliveryFailureKeepsUser(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("broker down")

	_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.users.count())

	// The code was stored and is redeemable once the user gets it.
	_, err = f.service.ConfirmAndIssueToken(context.Background(), "alice", f.notifier.lastCode(t))
	assert.NoError(t, err)
}

/*
TestSignup_LostCreateRace re-resolves the pair after a unique violation.
*/
func TestSignup_LostCreateRace(t *testing.T) {
	f := newFixture()
	racer := &auth.User{ID: "racer-id", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	f.users.beforeCreate = func(m *memUsers) { m.put(racer) }

	user, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "racer-id", user.ID)
	assert.Equal(t, 1, f.users.count())
}

// # Resend

/*
TestResend covers the three outcomes of a resend.
*/
func TestResend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, f.service.Resend(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"}))
	assert.Len(t, f.notifier.messages, 2)

	err = f.service.Resend(ctx, auth.SignupInput{Username: "nobody", Email: "nobody@example.com"})
	assert.Equal(t, apperr.CodeNotFound, errCode(err))

	err = f.service.Resend(ctx, auth.SignupInput{Username: "alice", Email: "wrong@example.com"})
	assert.Equal(t, apperr.CodeConflict, errCode(err))
}

// # Confirmation

/*
TestConfirmAndIssueToken_SingleUse issues one token per code.
*/
func TestConfirmAndIssueToken_SingleUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	code := f.notifier.lastCode(t)

	token, err := f.service.ConfirmAndIssueToken(ctx, "alice", strings.ToLower(code))
	require.NoError(t, err)
	assert.Equal(t, user.ID+"|alice|user", token.AccessToken)

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsConfirmed())

	_, err = f.service.ConfirmAndIssueToken(ctx, "alice", code)
	assert.Equal(t, apperr.CodeValidation, errCode(err))
}

/*
TestConfirmAndIssueToken_Rejections covers wrong codes and unknown users.
*/
func TestConfirmAndIssueToken_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = f.service.ConfirmAndIssueToken(ctx, "alice", "WRONG000")
	assert.Equal(t, apperr.CodeValidation, errCode(err))
	assert.Equal(t, auth.FieldConfirmationCode, apperr.As(err).Details[0].Field)

	_, err = f.service.ConfirmAndIssueToken(ctx, "ghost", "ABCDEFGH")
	assert.Equal(t, apperr.CodeNotFound, errCode(err))

	_, err = f.service.ConfirmAndIssueToken(ctx, "alice", "")
	assert.Equal(t, apperr.CodeValidation, errCode(err))

	// The right code still works after failed attempts.
	_, err = f.service.ConfirmAndIssueToken(ctx, "alice", f.notifier.lastCode(t))
	assert.NoError(t, err)
}

/*
TestConfirmAndIssueToken_Concurrent lets several goroutines race one code.
*/
func TestConfirmAndIssueToken_Concurrent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	code := f.notifier.lastCode(t)

	const workers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.ConfirmAndIssueToken(ctx, "alice", code); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

/*
TestValidateCode does not consume the code.
*/
func TestValidateCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	code := f.notifier.lastCode(t)

	require.NoError(t, f.service.ValidateCode(ctx, "alice", code))
	require.NoError(t, f.service.ValidateCode(ctx, "alice", code))

	_, err = f.service.ConfirmAndIssueToken(ctx, "alice", code)
	require.NoError(t, err)

	assert.Equal(t, apperr.CodeValidation, errCode(f.service.ValidateCode(ctx, "alice", code)))
}
