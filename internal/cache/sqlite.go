package cache

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
)

const tableName = "cache_entries"

// SQLiteStore keeps entries in the cache_entries table of a SQLite
// database opened and migrated by pkg/database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Has(ctx context.Context, key string) (bool, error) {
	query, args, err := sq.Select("1").From(tableName).Where(sq.Eq{"key": key}).Limit(1).ToSql()
	if err != nil {
		return false, storeErr("has", key, err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("has", key, err)
	}
	return true, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	query, args, err := sq.Select("payload").From(tableName).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, storeErr("load", key, err)
	}

	var payload []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("load", key, err)
	}
	return payload, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, payload []byte) error {
	query, args, err := sq.Insert(tableName).
		Columns("key", "payload").
		Values(key, payload).
		Suffix("ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return storeErr("save", key, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("save", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	query, args, err := sq.Delete(tableName).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return storeErr("delete", key, err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("delete", key, err)
	}
	return nil
}
