package scraper

import (
	"fmt"

	"contacthub/internal/cache"
	"contacthub/pkg/config"
	"contacthub/pkg/logger"
	"contacthub/pkg/models"
)

// Provenance tags written to the Dataset column.
const (
	TagA4M  = "a4m"
	TagAANP = "AANP"
)

// Collectors builds one cached job per enabled source name, in the given
// order. When offline is set the sources never hit the network and only
// cached results are served.
func Collectors(names []string, store cache.Store, client *Client, cfg config.SourcesConfig, offline bool, log *logger.Logger) ([]Collector, error) {
	if log == nil {
		log = logger.NewNop()
	}

	out := make([]Collector, 0, len(names))
	for _, name := range names {
		switch name {
		case "a4m":
			var src Source[models.A4MRecord] = NewOfflineSource[models.A4MRecord](name)
			if !offline {
				src = NewA4MSource(cfg.A4MBaseURL, client, log)
			}
			out = append(out, NewJob[models.A4MRecord](cache.NewProxy[models.A4MRecord](src, store, log), TagA4M))
		case "aanp":
			var src Source[models.AANPRecord] = NewOfflineSource[models.AANPRecord](name)
			if !offline {
				src = NewAANPSource(cfg.AANPBaseURL, client, log)
			}
			out = append(out, NewJob[models.AANPRecord](cache.NewProxy[models.AANPRecord](src, store, log), TagAANP))
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}
	return out, nil
}
