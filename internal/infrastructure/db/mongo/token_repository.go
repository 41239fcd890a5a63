package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/learnhub/lms-platform/internal/core/domain"
	"github.com/learnhub/lms-platform/internal/core/ports"
)

// TokenRepository implements ports.TokenRepository using MongoDB.
type TokenRepository struct {
	col *mongo.Collection
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *mongo.Database) ports.TokenRepository {
	return &TokenRepository{col: db.Collection(collectionTokens)}
}

type tokenDoc struct {
	Token       string     `bson:"token"`
	AccountID   string     `bson:"account_id"`
	CreatedAt   time.Time  `bson:"created_at"`
	ExpiresAt   time.Time  `bson:"expires_at"`
	ValidatedAt *time.Time `bson:"validated_at"`
}

// Save upserts the record keyed by its token value.
func (r *TokenRepository) Save(ctx context.Context, tok *domain.SecondaryToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := tokenDoc{
		Token:       tok.Token,
		AccountID:   tok.AccountID,
		CreatedAt:   tok.CreatedAt.UTC(),
		ExpiresAt:   tok.ExpiresAt.UTC(),
		ValidatedAt: tok.ConsumedAt,
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"token": tok.Token}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*domain.SecondaryToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tokenDoc
	if err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	tok := &domain.SecondaryToken{
		Token:     doc.Token,
		AccountID: doc.AccountID,
		CreatedAt: doc.CreatedAt.UTC(),
		ExpiresAt: doc.ExpiresAt.UTC(),
	}
	if doc.ValidatedAt != nil {
		at := doc.ValidatedAt.UTC()
		tok.ConsumedAt = &at
	}
	return tok, nil
}

func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("delete tokens: %w", err)
	}
	return nil
}
