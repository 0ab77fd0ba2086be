package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// NewPool creates a PostgreSQL pool from dsn, applies the cache
// migrations and pings for fail-fast validation.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// goose needs database/sql. The wrapper borrows pool connections and
	// must not keep idle ones after migrating.
	db := stdlib.OpenDBFromPool(pool)
	db.SetMaxIdleConns(0)

	if err := MigratePostgres(ctx, db); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
