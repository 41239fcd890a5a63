package ports

import (
	"context"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

// PasswordHasher is a one-way salted credential hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns nil when password matches hash.
	Verify(password, hash string) error
}

// SessionCodec mints and verifies stateless session tokens.
type SessionCodec interface {
	Mint(p domain.Principal) (string, error)
	// Verify returns domain.ErrMalformedToken, domain.ErrBadSignature or
	// domain.ErrSessionExpired on failure.
	Verify(token string) (*domain.Principal, error)
}

// PrincipalResolver reloads a token's principal from the credential store.
type PrincipalResolver interface {
	// Resolve returns the caller with its current roles,
	// domain.ErrUnauthenticated when the account is gone, or
	// domain.ErrForbidden when it is disabled or locked.
	Resolve(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
}
