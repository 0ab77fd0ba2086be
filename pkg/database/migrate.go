package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateSQLite applies the embedded SQLite migrations.
func MigrateSQLite(db *sql.DB) error {
	return migrate(context.Background(), goose.DialectSQLite3, db, "migrations/sqlite")
}

// MigratePostgres applies the embedded Postgres migrations.
func MigratePostgres(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, goose.DialectPostgres, db, "migrations/postgres")
}

func migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB, dir string) error {
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migrations dir %s: %w", dir, err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
