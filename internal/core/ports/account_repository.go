package ports

import (
	"context"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

// AccountRepository is the credential store.
type AccountRepository interface {
	// Create inserts a new account and returns it with its ID populated.
	// Returns domain.ErrDuplicateIdentity when the email is taken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	List(ctx context.Context) ([]*domain.Account, error)
	Delete(ctx context.Context, id string) error
	// ExistsWithRole reports whether at least one account holds role.
	ExistsWithRole(ctx context.Context, role domain.Role) (bool, error)
}

// RoleRepository persists the seeded role vocabulary.
type RoleRepository interface {
	// Seed inserts any missing roles and returns the full stored vocabulary.
	Seed(ctx context.Context, roles []domain.Role) (domain.RoleSet, error)
}

// TxRunner runs fn atomically when the backing store supports it.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
