package ports

import (
	"context"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

// RegistrationInput carries the fields of a new account.
type RegistrationInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// AuthService covers registration, activation, password reset and session
// issuance.
type AuthService interface {
	Register(ctx context.Context, in RegistrationInput) (*domain.Account, error)
	RegisterByAdmin(ctx context.Context, in RegistrationInput, role domain.Role) (*domain.Account, error)
	CreateAdmin(ctx context.Context, in RegistrationInput) (*domain.Account, error)
	Activate(ctx context.Context, token string) error
	ResendActivation(ctx context.Context, email string) error
	Authenticate(ctx context.Context, email, password string) (string, error)
	InitiateReset(ctx context.Context, email string) error
	CompleteReset(ctx context.Context, token, newPassword string) error
}

// AccountService covers profile self-service and administrator account
// management. Every call receives the verified caller explicitly.
type AccountService interface {
	Profile(ctx context.Context, caller *domain.Principal) (*domain.Account, error)
	UpdateProfile(ctx context.Context, caller *domain.Principal, upd domain.ProfileUpdate) (*domain.Account, error)
	ChangePassword(ctx context.Context, caller *domain.Principal, current, next string) error

	List(ctx context.Context, caller *domain.Principal) ([]*domain.Account, error)
	Get(ctx context.Context, caller *domain.Principal, id string) (*domain.Account, error)
	Update(ctx context.Context, caller *domain.Principal, id string, upd domain.AdminUpdate) (*domain.Account, error)
	Delete(ctx context.Context, caller *domain.Principal, id string) error
}
