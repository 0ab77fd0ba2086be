package main

import (
	"flag"
	"fmt"
	"os"

	"contacthub/internal/mirror"
	"contacthub/pkg/logger"
)

// mirror-server replays a recorded fixture over the A4M and AANP
// endpoints. Point sources.a4m_base_url and sources.aanp_base_url at it.
func main() {
	var (
		dataPath = flag.String("data", "data/mirror.json", "fixture written by export-mirror")
		addr     = flag.String("addr", ":9000", "listen address")
	)
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	fixture, err := mirror.LoadFixture(*dataPath)
	if err != nil {
		log.Error("load fixture failed", "path", *dataPath, "error", err)
		os.Exit(1)
	}

	log.Info("mirror-server listening",
		"addr", *addr,
		"a4m_listings", len(fixture.A4M),
		"aanp_practitioners", len(fixture.AANP),
	)
	if err := mirror.NewRouter(fixture).Run(*addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
