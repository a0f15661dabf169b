package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTxn runs fn inside a single MongoDB transaction. Every read and write
// in fn must use the session context it receives, or it escapes the unit of
// work. The transaction commits only when fn returns nil and is aborted on
// any error.
func WithTxn(ctx context.Context, client *mongo.Client, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
