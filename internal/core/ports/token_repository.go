package ports

import (
	"context"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

// TokenRepository is the secondary (activation / reset) token store.
type TokenRepository interface {
	// Save inserts or replaces the record keyed by token value.
	Save(ctx context.Context, token *domain.SecondaryToken) error
	// FindByToken returns domain.ErrInvalidToken when no record exists.
	FindByToken(ctx context.Context, token string) (*domain.SecondaryToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByAccount(ctx context.Context, accountID string) error
}
