// Package migrations embeds the schema DDL. The statements are
// idempotent, so Apply is safe to run on every start.
package migrations

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("pool.Exec schema: %w", err)
	}
	return nil
}
