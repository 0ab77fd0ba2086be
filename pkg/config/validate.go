package config

import (
	"fmt"
	"net/url"
)

var knownSources = map[string]bool{"a4m": true, "aanp": true}

// Validate checks enum and range settings. Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file":
		if c.Cache.Dir == "" {
			return fmt.Errorf("cache.dir is required for the file backend")
		}
	case "sqlite":
	case "postgres":
		if c.Cache.PostgresDSN == "" {
			return fmt.Errorf("cache.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("cache.backend must be file, sqlite or postgres (got %q)", c.Cache.Backend)
	}

	if c.Export.Mode != "truncate" && c.Export.Mode != "append" {
		return fmt.Errorf("export.mode must be truncate or append (got %q)", c.Export.Mode)
	}
	if c.Export.Path == "" {
		return fmt.Errorf("export.path is required")
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0 (got %v)", c.HTTP.Timeout)
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must be >= 0 (got %v)", c.HTTP.RequestsPerSecond)
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0 (got %d)", c.HTTP.MaxRetries)
	}

	enabled := c.Sources.EnabledSources()
	if len(enabled) == 0 {
		return fmt.Errorf("sources.enabled must name at least one source")
	}
	for _, name := range enabled {
		if !knownSources[name] {
			return fmt.Errorf("sources.enabled: unknown source %q", name)
		}
	}
	for field, raw := range map[string]string{
		"sources.a4m_base_url":  c.Sources.A4MBaseURL,
		"sources.aanp_base_url": c.Sources.AANPBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL (got %q)", field, raw)
		}
	}

	return nil
}
