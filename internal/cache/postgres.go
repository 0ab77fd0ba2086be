package cache

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore keeps entries in the cache_entries table of a
// PostgreSQL database reached through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Has(ctx context.Context, key string) (bool, error) {
	query, args, err := psql.Select("1").From(tableName).Where(sq.Eq{"key": key}).Limit(1).ToSql()
	if err != nil {
		return false, storeErr("has", key, err)
	}

	var one int
	err = s.pool.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("has", key, err)
	}
	return true, nil
}

func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psql.Select("payload").From(tableName).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, storeErr("load", key, err)
	}

	var payload []byte
	err = s.pool.QueryRow(ctx, query, args...).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("load", key, err)
	}
	return payload, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, payload []byte) error {
	query, args, err := psql.Insert(tableName).
		Columns("key", "payload").
		Values(key, payload).
		Suffix("ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, created_at = now()").
		ToSql()
	if err != nil {
		return storeErr("save", key, err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return storeErr("save", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query, args, err := psql.Delete(tableName).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return storeErr("delete", key, err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return storeErr("delete", key, err)
	}
	return nil
}
