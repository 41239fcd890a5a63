package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

type principalResolver struct {
	accounts ports.AccountRepository
}

// NewPrincipalResolver returns a resolver backed by the credential store.
func NewPrincipalResolver(accounts ports.AccountRepository) ports.PrincipalResolver {
	return &principalResolver{accounts: accounts}
}

func (r *principalResolver) Resolve(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	acc, err := r.accounts.FindByEmail(ctx, p.Subject)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	if !acc.Enabled || acc.Locked {
		return nil, domain.ErrForbidden
	}
	return &domain.Principal{
		Subject:  acc.Email,
		FullName: acc.FullName(),
		Roles:    append([]domain.Role(nil), acc.Roles...),
	}, nil
}
