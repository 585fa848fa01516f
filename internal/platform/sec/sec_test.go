// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

/*
TestResolve walks the capability precedence table.
*/
func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		role      sec.UserRole
		superuser bool
		want      sec.Capabilities
	}{
		{"user", sec.RoleUser, false, sec.Capabilities{Base: true}},
		{"moderator", sec.RoleModerator, false, sec.Capabilities{Moderate: true, Base: true}},
		{"admin", sec.RoleAdmin, false, sec.Capabilities{Admin: true, Base: true}},
		{"empty_role", "", false, sec.Capabilities{Base: true}},
		{"unknown_role", "owner", false, sec.Capabilities{Base: true}},
		{"superuser_plain_role", sec.RoleUser, true, sec.Capabilities{Admin: true, Moderate: true, Base: true}},
		{"superuser_empty_role", "", true, sec.Capabilities{Admin: true, Moderate: true, Base: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.Resolve(tt.role, tt.superuser))
		})
	}
}

/*
TestUserRole_IsValid accepts only the three literals.
*/
func TestUserRole_IsValid(t *testing.T) {
	for _, role := range sec.Roles {
		assert.True(t, role.IsValid(), role)
	}
	assert.False(t, sec.UserRole("").IsValid())
	assert.False(t, sec.UserRole("ADMIN").IsValid())
}

/*
TestGenerateCode checks length and alphabet of confirmation codes.
*/
func TestGenerateCode(t *testing.T) {
	code, err := sec.GenerateCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.Equal(t, strings.ToUpper(code), code)
	assert.NotContains(t, code, "0")
	assert.NotContains(t, code, "O")

	_, err = sec.GenerateCode(0)
	assert.Error(t, err)
}

/*
TestSecretHash round-trips a code through bcrypt.
*/
func TestSecretHash(t *testing.T) {
	hash, err := sec.HashSecret("K7M2QX9P")
	require.NoError(t, err)

	assert.True(t, sec.CheckSecretHash("K7M2QX9P", hash))
	assert.False(t, sec.CheckSecretHash("K7M2QX9Q", hash))
}

/*
TestTokenService signs and verifies a token with freshly generated keys.
*/
func TestTokenService(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "yamdb.test")

	signed, err := tokens.GenerateAccessToken("u-1", "alice", "moderator", true, time.Minute)
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "moderator", claims.Role)
	assert.True(t, claims.IsSuperuser)

	// Different issuer is rejected
	other := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "someone.else")
	_, err = other.VerifyToken(signed)
	assert.Error(t, err)

	// Expired token is rejected
	expired, err := tokens.GenerateAccessToken("u-1", "alice", "user", false, -time.Minute)
	require.NoError(t, err)
	_, err = tokens.VerifyToken(expired)
	assert.Error(t, err)
}
