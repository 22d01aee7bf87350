package identity

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "careline/pkg/domainerrors"
	"careline/pkg/platform/httputil"
)

// Authenticator defines the login operation the handler needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, Caller, error)
}

// Revoker invalidates a token id before its natural expiry. Optional; a nil
// Revoker disables logout.
type Revoker interface {
	Revoke(ctx context.Context, jti string) error
}

// Handler serves the authentication endpoints.
type Handler struct {
	auth    Authenticator
	tokens  *JWTService
	revoker Revoker
	logger  *slog.Logger
}

func NewHandler(auth Authenticator, tokens *JWTService, revoker Revoker, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, tokens: tokens, revoker: revoker, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[loginRequest](w, r, h.logger)
	if !ok {
		return
	}

	token, caller, err := h.auth.Login(ctx, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			h.logger.WarnContext(ctx, "login rejected", "username", req.Username)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		Username: caller.Username,
		RoleID:   caller.RoleID,
		RoleName: caller.RoleName,
	})
}

// handleLogout revokes the presented token. Without a revocation store the
// endpoint answers 204 anyway; the token then simply ages out.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
		return
	}
	claims, err := h.tokens.ValidateToken(raw)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if h.revoker != nil {
		if err := h.revoker.Revoke(ctx, claims.ID); err != nil {
			h.logger.ErrorContext(ctx, "token revocation failed", "error", err)
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "logout failed"))
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
