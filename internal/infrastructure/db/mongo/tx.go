package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnhub/lms-platform/internal/core/ports"
)

// TxRunner implements ports.TxRunner. Session transactions need a replica
// set, so they are opt-in; when disabled fn runs directly.
type TxRunner struct {
	client  *mongo.Client
	enabled bool
}

// NewTxRunner creates a TxRunner over client.
func NewTxRunner(client *mongo.Client, enabled bool) ports.TxRunner {
	return &TxRunner{client: client, enabled: enabled}
}

func (t *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled || t.client == nil {
		return fn(ctx)
	}

	sess, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
