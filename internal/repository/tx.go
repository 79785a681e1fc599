package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// withTx executes fn within a transaction if the repository was created
// with a pool, or reuses the transaction the repository was created with.
func withTx[T any](ctx context.Context, db DB, fn func(tx pgx.Tx) (T, error)) (_ T, txErr error) {
	var zero T

	// Already in a transaction, just use it.
	if tx, ok := db.(pgx.Tx); ok {
		return fn(tx)
	}

	pool, ok := db.(*pgxpool.Pool)
	if !ok {
		return zero, fmt.Errorf("db is neither pgx.Tx nor *pgxpool.Pool: %T", db)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, err
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, err
	}

	return result, nil
}
