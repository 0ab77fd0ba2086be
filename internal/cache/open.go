package cache

import (
	"context"
	"fmt"

	"contacthub/pkg/config"
	"contacthub/pkg/database"
)

// Open returns the Store selected by cfg.Backend and a func that
// releases it.
func Open(ctx context.Context, cfg config.CacheConfig) (Store, func(), error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Dir), func() {}, nil

	case "sqlite":
		dbCfg := database.DefaultConfig()
		if cfg.SQLitePath != "" {
			dbCfg.Path = cfg.SQLitePath
		}
		db, err := database.OpenAndMigrate(dbCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return NewSQLiteStore(db), func() { _ = db.Close() }, nil

	case "postgres":
		pool, err := database.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres cache: %w", err)
		}
		return NewPostgresStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
