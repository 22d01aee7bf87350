package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"careline/internal/identity"
	"careline/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*identity.Claims, error)
}

// RevocationChecker reports whether a token ID has been revoked. Nil checker
// means revocation is not configured for this deployment.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "unauthorized",
		"error_description": message,
	})
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// resolved caller identity to the request context. Every scoped operation
// downstream reads the caller from context explicitly; there is no ambient
// user object.
func RequireAuth(validator TokenValidator, revocation RevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if revocation != nil && claims.ID != "" {
				revoked, err := revocation.IsTokenRevoked(ctx, claims.ID)
				if err != nil {
					// Checker outage fails open; the signature was already verified.
					logger.WarnContext(ctx, "revocation check failed",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
				} else if revoked {
					writeAuthError(w, http.StatusUnauthorized, "token revoked")
					return
				}
			}

			ctx = requestcontext.WithCaller(ctx, claims.Caller())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
