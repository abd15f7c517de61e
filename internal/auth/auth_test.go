package auth

import (
	"testing"
	"time"

	"github.com/NgigiN/lomba17/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	u := &storage.User{Model: storage.Model{ID: 42}, Email: "admin@lomba17.com", Role: storage.RoleAdmin}

	token, err := iss.Issue(u)
	require.NoError(t, err)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, storage.RoleAdmin, claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret", time.Hour).Issue(&storage.User{Model: storage.Model{ID: 1}, Role: storage.RoleGuest})
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseRejectsExpired(t *testing.T) {
	iss := NewIssuer("secret", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := iss.Issue(&storage.User{Model: storage.Model{ID: 1}, Role: storage.RoleGuest})
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Minute).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("merdeka45")
	require.NoError(t, err)
	assert.NotEqual(t, "merdeka45", hash)
	assert.True(t, CheckPassword("merdeka45", hash))
	assert.False(t, CheckPassword("merdeka46", hash))
}
