package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/learnhub/lms-platform/internal/core/domain"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestTokenRepository_FindByToken_Missing(t *testing.T) {
	mt := newMock(t)

	mt.Run("no document", func(mt *mtest.T) {
		repo := &TokenRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.FindByToken(context.Background(), "123456")
		if !errors.Is(err, domain.ErrInvalidToken) {
			mt.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestTokenRepository_SaveKeepsValidatedAt(t *testing.T) {
	mt := newMock(t)

	mt.Run("round trip", func(mt *mtest.T) {
		repo := &TokenRepository{col: mt.Coll}
		created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		validated := created.Add(5 * time.Minute)
		tok := &domain.SecondaryToken{
			Token:      "482913",
			AccountID:  "acc-1",
			CreatedAt:  created,
			ExpiresAt:  created.Add(time.Hour),
			ConsumedAt: &validated,
		}

		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		if err := repo.Save(context.Background(), tok); err != nil {
			mt.Fatalf("Save: %v", err)
		}

		// Serve back the replacement document the driver sent.
		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "update" {
			mt.Fatalf("expected an update command, got %+v", started)
		}
		updates, err := started.Command.Lookup("updates").Array().Values()
		if err != nil || len(updates) != 1 {
			mt.Fatalf("updates: %v (%d)", err, len(updates))
		}
		update := updates[0].Document()
		if upsert, _ := update.Lookup("upsert").BooleanOK(); !upsert {
			mt.Fatal("save must upsert")
		}
		var stored bson.D
		if err := bson.Unmarshal(update.Lookup("u").Document(), &stored); err != nil {
			mt.Fatalf("decode replacement: %v", err)
		}

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, stored))
		got, err := repo.FindByToken(context.Background(), tok.Token)
		if err != nil {
			mt.Fatalf("FindByToken: %v", err)
		}
		if got.ConsumedAt == nil || !got.ConsumedAt.Equal(validated) {
			mt.Fatalf("expected validated_at %v, got %v", validated, got.ConsumedAt)
		}
		if got.AccountID != tok.AccountID || !got.ExpiresAt.Equal(tok.ExpiresAt) {
			mt.Fatalf("unexpected token %+v", got)
		}
	})

	mt.Run("pending", func(mt *mtest.T) {
		repo := &TokenRepository{col: mt.Coll}
		doc := bson.D{
			{Key: "token", Value: "482913"},
			{Key: "account_id", Value: "acc-1"},
			{Key: "created_at", Value: time.Now().UTC()},
			{Key: "expires_at", Value: time.Now().Add(time.Hour).UTC()},
			{Key: "validated_at", Value: nil},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, doc))

		got, err := repo.FindByToken(context.Background(), "482913")
		if err != nil {
			mt.Fatalf("FindByToken: %v", err)
		}
		if got.ConsumedAt != nil {
			mt.Fatalf("expected pending token, got validated_at %v", got.ConsumedAt)
		}
	})
}

func TestAccountRepository_Create_Duplicate(t *testing.T) {
	mt := newMock(t)

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := &AccountRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: lms.accounts index: email_1",
		}))

		_, err := repo.Create(context.Background(), &domain.Account{Email: "alice@example.com"})
		if !errors.Is(err, domain.ErrDuplicateIdentity) {
			mt.Fatalf("expected ErrDuplicateIdentity, got %v", err)
		}
	})

	mt.Run("other write error", func(mt *mtest.T) {
		repo := &AccountRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 121, Message: "Document failed validation"}))

		_, err := repo.Create(context.Background(), &domain.Account{Email: "alice@example.com"})
		if err == nil || errors.Is(err, domain.ErrDuplicateIdentity) {
			mt.Fatalf("expected a wrapped write error, got %v", err)
		}
	})
}

func TestAccountRepository_FindByEmail_Missing(t *testing.T) {
	mt := newMock(t)

	mt.Run("no document", func(mt *mtest.T) {
		repo := &AccountRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		if !errors.Is(err, domain.ErrAccountNotFound) {
			mt.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}
