package identity

// Aliases exposing request/response payload types to external tests.
type (
	LoginRequest  = loginRequest
	LoginResponse = loginResponse
)
