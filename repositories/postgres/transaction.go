package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

type txKey struct{}

// Executor is satisfied by both *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TransactionManager opens transactions on the pool and carries them through
// the context so repositories pick them up via GetExecutor.
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

func NewTransactionManager(db *DB, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{db: db, logger: logger.Named("tx")}
}

func (m *TransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	sqlTx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	t := &Transaction{tx: sqlTx, started: time.Now(), logger: m.logger}
	t.ctx = context.WithValue(ctx, txKey{}, t)
	return t, nil
}

// InTransaction runs fn on a transaction. When ctx already carries one, fn
// joins it and the outermost caller decides whether to commit.
func (m *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	if outer, ok := txFrom(ctx); ok {
		return fn(ctx, outer)
	}

	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx.Context(), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			m.logger.Error("rollback failed", zap.Error(rbErr), zap.NamedError("cause", err))
		}
		return err
	}
	return tx.Commit()
}

// Transaction wraps *sql.Tx together with the context that routes repository
// calls onto it.
type Transaction struct {
	tx      *sql.Tx
	ctx     context.Context
	started time.Time
	logger  *zap.Logger
}

func (t *Transaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	t.logger.Debug("committed", zap.Duration("elapsed", time.Since(t.started)))
	return nil
}

// Rollback is a no-op on a transaction that already finished.
func (t *Transaction) Rollback() error {
	err := t.tx.Rollback()
	switch {
	case errors.Is(err, sql.ErrTxDone):
		return nil
	case err != nil:
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	t.logger.Debug("rolled back", zap.Duration("elapsed", time.Since(t.started)))
	return nil
}

func (t *Transaction) Context() context.Context { return t.ctx }

func (t *Transaction) GetTx() *sql.Tx { return t.tx }

func txFrom(ctx context.Context) (*Transaction, bool) {
	t, ok := ctx.Value(txKey{}).(*Transaction)
	return t, ok
}

// GetTransactionFromContext reports the transaction ctx is bound to, if any.
func GetTransactionFromContext(ctx context.Context) (repositories.Transaction, bool) {
	t, ok := txFrom(ctx)
	if !ok {
		return nil, false
	}
	return t, true
}

// GetExecutor returns the transaction bound to ctx, falling back to the pool.
func GetExecutor(ctx context.Context, db *DB) Executor {
	if t, ok := txFrom(ctx); ok {
		return t.tx
	}
	return db.DB
}
