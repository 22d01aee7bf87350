package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careline/internal/identity"
	"careline/pkg/requestcontext"
)

type stubRevocationChecker struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocationChecker) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[jti], nil
}

func newTokenService() *identity.JWTService {
	return identity.NewJWTService("test-signing-key", "careline", time.Hour)
}

func guarded(tokens *identity.JWTService, checker RevocationChecker, inner http.Handler) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return RequireAuth(tokens, checker, logger)(inner)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func doAuthRequest(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/complaints", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuthMissingToken(t *testing.T) {
	handler := guarded(newTokenService(), nil, okHandler())

	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(handler, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(handler, "Basic dXNlcg==").Code)
	assert.Equal(t, http.StatusUnauthorized, doAuthRequest(handler, "Bearer ").Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	handler := guarded(newTokenService(), nil, okHandler())

	rec := doAuthRequest(handler, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized","error_description":"invalid or expired token"}`, rec.Body.String())
}

func TestRequireAuthAttachesCaller(t *testing.T) {
	tokens := newTokenService()

	var seen identity.Caller
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requestcontext.Caller(r.Context())
		require.True(t, ok)
		seen = caller
		w.WriteHeader(http.StatusOK)
	})
	handler := guarded(tokens, nil, inner)

	token, err := tokens.GenerateAccessToken(identity.Employee{
		ID: 7, Username: "jsmith", RoleID: identity.RoleStandard, RoleName: "Standard",
	})
	require.NoError(t, err)

	rec := doAuthRequest(handler, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), seen.EmployeeID)
	assert.Equal(t, "jsmith", seen.Username)
	assert.False(t, seen.IsAdmin())
}

func TestRequireAuthRevokedToken(t *testing.T) {
	tokens := newTokenService()

	token, err := tokens.GenerateAccessToken(identity.Employee{ID: 7, Username: "jsmith", RoleID: identity.RoleStandard})
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(token)
	require.NoError(t, err)

	checker := &stubRevocationChecker{revoked: map[string]bool{claims.ID: true}}
	handler := guarded(tokens, checker, okHandler())

	rec := doAuthRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized","error_description":"token revoked"}`, rec.Body.String())
}

func TestRequireAuthCheckerOutageFailsOpen(t *testing.T) {
	tokens := newTokenService()

	token, err := tokens.GenerateAccessToken(identity.Employee{ID: 7, Username: "jsmith", RoleID: identity.RoleStandard})
	require.NoError(t, err)

	checker := &stubRevocationChecker{err: assert.AnError}
	handler := guarded(tokens, checker, okHandler())

	assert.Equal(t, http.StatusOK, doAuthRequest(handler, "Bearer "+token).Code)
}
