// Package authz holds the single authorization decision shared by every
// transport. Gates verify the session token, build a domain.Principal and
// ask Authorize whether the call may proceed.
package authz

import "github.com/learnhub/lms-platform/internal/core/domain"

// Requirement describes what a route or RPC method demands of its caller.
// The zero value is an open route.
type Requirement struct {
	Authenticated bool
	AnyOf         []domain.Role
}

// Open admits any caller, including anonymous ones.
func Open() Requirement { return Requirement{} }

// Authenticated admits any caller with a valid session token.
func Authenticated() Requirement { return Requirement{Authenticated: true} }

// AnyRole admits callers holding at least one of roles.
func AnyRole(roles ...domain.Role) Requirement {
	return Requirement{Authenticated: true, AnyOf: roles}
}

// IsOpen reports whether the requirement admits anonymous callers.
func (r Requirement) IsOpen() bool {
	return !r.Authenticated && len(r.AnyOf) == 0
}

// Authorize returns nil when p satisfies req, domain.ErrUnauthenticated when
// a caller is required but p is nil, and domain.ErrForbidden on role mismatch.
func Authorize(p *domain.Principal, req Requirement) error {
	if req.IsOpen() {
		return nil
	}
	if p == nil {
		return domain.ErrUnauthenticated
	}
	if len(req.AnyOf) == 0 {
		return nil
	}
	for _, r := range req.AnyOf {
		if p.HasRole(r) {
			return nil
		}
	}
	return domain.ErrForbidden
}
