package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"contacthub/internal/cache"
	"contacthub/internal/mirror"
	"contacthub/internal/scraper"
	"contacthub/pkg/config"
	"contacthub/pkg/logger"
	"contacthub/pkg/models"
)

// export-mirror writes the cached scrape data as a mirror-server fixture.
func main() {
	var (
		configPath = flag.String("config", "", "YAML config path (default $CONFIG_PATH or ./config.yaml)")
		outPath    = flag.String("out", "data/mirror.json", "output fixture path")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	ctx := context.Background()
	store, closeStore, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		log.Error("open cache failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	a4m, err := cached[models.A4MRecord](ctx, "a4m", store, log)
	if err != nil {
		log.Error("read a4m cache failed", "error", err)
		os.Exit(1)
	}
	aanp, err := cached[models.AANPRecord](ctx, "aanp", store, log)
	if err != nil {
		log.Error("read aanp cache failed", "error", err)
		os.Exit(1)
	}

	fixture := mirror.FromRecords(a4m, aanp)
	if err := fixture.Save(*outPath); err != nil {
		log.Error("write fixture failed", "error", err)
		os.Exit(1)
	}
	log.Info("exported mirror fixture",
		"path", *outPath,
		"a4m_listings", len(fixture.A4M),
		"aanp_practitioners", len(fixture.AANP),
	)
}

// cached reads one source's stored result; a cold cache yields nil.
func cached[R any](ctx context.Context, name string, store cache.Store, log *logger.Logger) (*models.Records[R], error) {
	p := cache.NewProxy[R](scraper.NewOfflineSource[R](name), store, log)
	recs, err := p.FetchAll(ctx)
	if errors.Is(err, scraper.ErrOffline) {
		log.Warn("no cached scrape data", "source", name)
		return nil, nil
	}
	return recs, err
}
