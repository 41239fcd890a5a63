package domain

import "strings"

// Role is a named capability group. The vocabulary is closed.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// AllRoles is the seeded vocabulary, in seeding order.
var AllRoles = []Role{RoleStudent, RoleAdmin, RoleInstructor}

// ParseRole resolves an externally supplied role name.
func ParseRole(name string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(name)))
	for _, known := range AllRoles {
		if r == known {
			return r, nil
		}
	}
	return "", ErrRoleNotFound
}

func (r Role) String() string { return string(r) }

// RoleSet is the vocabulary that was actually seeded into the store at
// bootstrap. It is read-only after startup.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether r was seeded.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}
