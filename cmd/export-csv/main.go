package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"contacthub/internal/cache"
	"contacthub/internal/export"
	"contacthub/internal/scraper"
	"contacthub/pkg/config"
	"contacthub/pkg/logger"
)

// export-csv rebuilds the CSV from cached scrape data only. A source
// whose cache is cold is reported, never fetched.
func main() {
	var (
		configPath = flag.String("config", "", "YAML config path (default $CONFIG_PATH or ./config.yaml)")
		outPath    = flag.String("out", "", "export CSV path (default from config)")
		mode       = flag.String("mode", "", "export mode: truncate or append (default from config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *outPath != "" {
		cfg.Export.Path = *outPath
	}
	if *mode != "" {
		cfg.Export.Mode = *mode
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

	names := cfg.Sources.EnabledSources()
	for _, name := range names {
		ok, err := store.Has(ctx, cache.Key(name))
		if err != nil {
			log.Error("cache check failed", "source", name, "error", err)
			continue
		}
		if !ok {
			log.Warn("no cached scrape data; run the scraper first", "source", name)
		}
	}

	collectors, err := scraper.Collectors(names, store, nil, cfg.Sources, true, log)
	if err != nil {
		log.Error("build sources failed", "error", err)
		os.Exit(1)
	}
	res, runErr := scraper.NewAggregator(log, collectors...).Run(ctx)

	m, err := export.ParseMode(cfg.Export.Mode)
	if err != nil {
		log.Error("invalid export mode", "error", err)
		os.Exit(2)
	}
	n, err := export.WriteFile(cfg.Export.Path, m, res.Contacts)
	if err != nil {
		log.Error("export failed", "error", err)
		os.Exit(1)
	}
	log.Info("exported contacts", "path", cfg.Export.Path, "rows", n)

	if runErr != nil {
		log.Sync()
		os.Exit(1)
	}
}
