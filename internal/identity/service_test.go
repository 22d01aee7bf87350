package identity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "careline/pkg/domainerrors"
)

func newLoginService(t *testing.T) (*Service, *JWTService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	store := NewInMemoryEmployeeStore()
	store.Seed(Employee{
		ID:           7,
		Username:     "jsmith",
		FullName:     "Jane Smith",
		PasswordHash: string(hash),
		RoleID:       RoleStandard,
		RoleName:     "Standard",
	})

	tokens := NewJWTService("test-signing-key", "careline", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, tokens, logger), tokens
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newLoginService(t)

	token, caller, err := svc.Login(ctx, "jsmith", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), caller.EmployeeID)
	assert.Equal(t, "Standard", caller.RoleName)

	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, caller, claims.Caller())
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLoginService(t)

	_, _, err := svc.Login(ctx, "jsmith", "wrong")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	assert.Equal(t, "invalid credentials", dErrors.MessageOf(err))
}

func TestLoginUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLoginService(t)

	_, _, err := svc.Login(ctx, "nobody", "s3cret")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	assert.Equal(t, "invalid credentials", dErrors.MessageOf(err))
}

func TestLoginMissingFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLoginService(t)

	for _, tc := range []struct{ username, password string }{
		{"", "s3cret"},
		{"jsmith", ""},
		{"", ""},
	} {
		_, _, err := svc.Login(ctx, tc.username, tc.password)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
	}
}
