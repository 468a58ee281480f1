package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"smsportal/internal/models"
)

func newTestAuth(t *testing.T) (*memAccounts, AuthService) {
	t.Helper()
	repo := newMemAccounts()
	return repo, NewAuthService(repo, bcrypt.MinCost)
}

func seedAccount(t *testing.T, repo *memAccounts, auth AuthService, email, password string, active bool, role models.Role) *models.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	acc := &models.Account{Email: email, PasswordHash: hash, Role: role, IsActive: active}
	require.NoError(t, repo.Create(context.Background(), acc))
	return acc
}

func TestAuthService_HashAndCheck(t *testing.T) {
	_, auth := newTestAuth(t)

	h1, err := auth.HashPassword("p")
	require.NoError(t, err)
	h2, err := auth.HashPassword("p")
	require.NoError(t, err)

	assert.NotEqual(t, "p", h1)
	assert.NotEqual(t, h1, h2, "hashes are salted")
	assert.True(t, auth.CheckPassword("p", h1))
	assert.False(t, auth.CheckPassword("q", h1))
	assert.False(t, auth.CheckPassword("p", ""))

	_, err = auth.HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestAuthService_Login(t *testing.T) {
	repo, auth := newTestAuth(t)
	seedAccount(t, repo, auth, "active@x.com", "right", true, models.RoleUser)
	seedAccount(t, repo, auth, "pending@x.com", "right", false, models.RoleUser)
	ctx := context.Background()

	acc, err := auth.Login(ctx, "active@x.com", "right")
	require.NoError(t, err)
	assert.Equal(t, "active@x.com", acc.Email)

	acc, err = auth.Login(ctx, " active@x.com ", "right")
	require.NoError(t, err, "surrounding whitespace is trimmed")
	assert.NotNil(t, acc)

	_, err = auth.Login(ctx, "active@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@x.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email looks like a bad password")

	_, err = auth.Login(ctx, "pending@x.com", "right")
	assert.ErrorIs(t, err, ErrAccountNotActive)

	_, err = auth.Login(ctx, "pending@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "inactive status is not revealed without the password")

	_, err = auth.Login(ctx, "Active@x.com", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "emails compare case-sensitively")
}
