package errors

// Error codes for standardized error responses
const (
	// Caller identity
	ErrCodeUnauthenticated = "unauthenticated"
	ErrCodeInvalidToken    = "invalid_token"

	// Caller input
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeInvalidArgument = "invalid_argument"

	// Accounts
	ErrCodeRegistrationFailed = "registration_failed"
	ErrCodeLoginFailed        = "login_failed"
	ErrCodeRefreshFailed      = "refresh_failed"

	// Server errors
	ErrCodeInternal      = "internal"
	ErrCodeUpstreamError = "upstream_error"
)
