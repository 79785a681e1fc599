package repository_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/abdulrehan17773/am-backend/internal/repository/migrations"
)

const postgresImage = "postgres:17-alpine"

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("store"),
		postgres.WithUsername("store"),
		postgres.WithPassword("store"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

// newTestPool starts a container, connects and applies the schema.
func newTestPool(ctx context.Context) (testcontainers.Container, *pgxpool.Pool, error) {
	container, connStr, err := startPostgres(ctx)
	if err != nil {
		return container, nil, err
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return container, nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := migrations.Apply(ctx, pool); err != nil {
		return container, pool, fmt.Errorf("migrations.Apply: %w", err)
	}

	return container, pool, nil
}
