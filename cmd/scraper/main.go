package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"contacthub/internal/cache"
	"contacthub/internal/export"
	"contacthub/internal/scraper"
	"contacthub/pkg/config"
	"contacthub/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config path (default $CONFIG_PATH or ./config.yaml)")
		sources    = flag.String("sources", "", "comma-separated sources to run (default from config)")
		invalidate = flag.String("invalidate", "", "comma-separated sources whose cached data is deleted first")
		outPath    = flag.String("out", "", "export CSV path (default from config)")
		mode       = flag.String("mode", "", "export mode: truncate or append (default from config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *sources != "" {
		cfg.Sources.Enabled = *sources
	}
	if *outPath != "" {
		cfg.Export.Path = *outPath
	}
	if *mode != "" {
		cfg.Export.Mode = *mode
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()
	log = log.With("run_id", uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, config.SplitList(*invalidate), log); err != nil {
		log.Error("scrape run failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, invalidate []string, log *logger.Logger) error {
	store, closeStore, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, name := range invalidate {
		if err := store.Delete(ctx, cache.Key(name)); err != nil {
			return fmt.Errorf("invalidate %s: %w", name, err)
		}
		log.Info("invalidated cached scrape data", "key", cache.Key(name))
	}

	client := scraper.NewClient(cfg.HTTP, log)
	collectors, err := scraper.Collectors(cfg.Sources.EnabledSources(), store, client, cfg.Sources, false, log)
	if err != nil {
		return err
	}

	res, runErr := scraper.NewAggregator(log, collectors...).Run(ctx)

	mode, err := export.ParseMode(cfg.Export.Mode)
	if err != nil {
		return err
	}
	n, err := export.WriteFile(cfg.Export.Path, mode, res.Contacts)
	if err != nil {
		return err
	}
	log.Info("exported contacts", "path", cfg.Export.Path, "mode", string(mode), "rows", n)

	// partial results are still exported; failures decide the exit code
	return runErr
}
