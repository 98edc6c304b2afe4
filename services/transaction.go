package services

import (
	"context"
	"fmt"

	"github.com/upb/yamdb/repositories"
)

// WithTransaction executes fn within a database transaction. Repository calls
// made with the ctx passed to fn run on that transaction. Commits on success,
// rolls back on error or panic.
func WithTransaction(ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) error) error {
	return txMgr.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("transaction aborted: %v", p)
			}
		}()
		return fn(txCtx)
	})
}

// WithTransactionResult executes fn within a database transaction and returns its result.
func WithTransactionResult[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := WithTransaction(ctx, txMgr, func(txCtx context.Context) error {
		var err error
		result, err = fn(txCtx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
