package identity

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	dErrors "careline/pkg/domainerrors"
	"careline/pkg/platform/sentinel"
)

// Service authenticates employees and issues access tokens. It is the
// concrete authenticator collaborator the lifecycle engine assumes upstream.
type Service struct {
	store  EmployeeStore
	tokens *JWTService
	logger *slog.Logger
}

func NewService(store EmployeeStore, tokens *JWTService, logger *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, logger: logger}
}

// Login verifies credentials and returns a signed access token plus the
// resolved caller. Unknown usernames and bad passwords are indistinguishable
// to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, Caller, error) {
	if username == "" || password == "" {
		return "", Caller{}, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}

	emp, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", Caller{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		s.logger.ErrorContext(ctx, "employee lookup failed", "error", err)
		return "", Caller{}, dErrors.Wrap(err, dErrors.CodeInternal, "login failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return "", Caller{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(*emp)
	if err != nil {
		s.logger.ErrorContext(ctx, "token generation failed", "error", err)
		return "", Caller{}, dErrors.Wrap(err, dErrors.CodeInternal, "login failed")
	}

	caller := Caller{
		EmployeeID: emp.ID,
		Username:   emp.Username,
		RoleID:     emp.RoleID,
		RoleName:   emp.RoleName,
	}
	return token, caller, nil
}
