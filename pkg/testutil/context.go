package testutil

import (
	"context"
	"net/http"
	"time"

	"careline/internal/identity"
	"careline/pkg/requestcontext"
)

// WithCaller attaches an authenticated caller to the request context,
// simulating what the auth middleware does for real requests.
func WithCaller(req *http.Request, caller identity.Caller) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), caller))
}

// AdminCaller is a ready-made administrator identity for tests.
func AdminCaller() identity.Caller {
	return identity.Caller{EmployeeID: 1, Username: "admin", RoleID: identity.RoleAdmin, RoleName: "Administrator"}
}

// StandardCaller is a ready-made non-admin identity for tests.
func StandardCaller(employeeID int64) identity.Caller {
	return identity.Caller{EmployeeID: employeeID, Username: "staff", RoleID: identity.RoleStandard, RoleName: "Staff"}
}

// WithRequestTime pins the request-scoped clock so timestamps are
// deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
