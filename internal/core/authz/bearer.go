package authz

import (
	"errors"
	"strings"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

const bearerPrefix = "bearer "

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. A missing value or prefix yields domain.ErrUnauthenticated.
func BearerToken(value string) (string, error) {
	if len(value) <= len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return "", domain.ErrUnauthenticated
	}
	token := strings.TrimSpace(value[len(bearerPrefix):])
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}

// Reason names a gate failure for logs and metrics. Callers only ever see
// "unauthenticated" or "forbidden".
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return "expired"
	case errors.Is(err, domain.ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, domain.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "missing"
	default:
		return "error"
	}
}
