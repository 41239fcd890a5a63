package domain

import "errors"

// Identity and registration.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateIdentity  = errors.New("email is already in use")
	ErrAccountNotFound    = errors.New("account not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrConfiguration      = errors.New("role vocabulary is not seeded")
	ErrAlreadyActive      = errors.New("account is already active")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is not activated")
	ErrAccountLocked      = errors.New("account is locked")
)

// Secondary tokens.
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenConsumed = errors.New("token has already been used")
)

// Session tokens.
var (
	ErrMalformedToken = errors.New("malformed session token")
	ErrBadSignature   = errors.New("session token signature mismatch")
	ErrSessionExpired = errors.New("session token has expired")
)

// Authorization.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
)

// Collaborators.
var (
	ErrMailDispatch       = errors.New("failed to send email")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrSubmissionNotFound = errors.New("exam submission not found")
	ErrInvalidMarks       = errors.New("marks must be between 0 and 100")
)
