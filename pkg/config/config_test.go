package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, "scrapecache", cfg.Cache.Dir)
	assert.Equal(t, "sources.csv", cfg.Export.Path)
	assert.Equal(t, "truncate", cfg.Export.Mode)
	assert.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.HTTP.RetryBaseDelay)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.Equal(t, []string{"a4m", "aanp"}, cfg.Sources.EnabledSources())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	path := writeYAML(t, `
cache:
  backend: sqlite
  sqlite_path: /tmp/cache.db
export:
  path: out.csv
  mode: append
sources:
  enabled: aanp
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CONTACTHUB_EXPORT_PATH", "override.csv")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "/tmp/cache.db", cfg.Cache.SQLitePath)
	assert.Equal(t, "append", cfg.Export.Mode)
	assert.Equal(t, "override.csv", cfg.Export.Path)
	assert.Equal(t, []string{"aanp"}, cfg.Sources.EnabledSources())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CONTACTHUB_EXPORT_MODE", "overwrite")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.mode")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Cache:  CacheConfig{Backend: "file", Dir: "c"},
			Export: ExportConfig{Path: "o.csv", Mode: "truncate"},
			HTTP:   HTTPConfig{Timeout: time.Second, RequestsPerSecond: 1},
			Sources: SourcesConfig{
				Enabled:     "a4m,aanp",
				A4MBaseURL:  "https://www.a4m.com",
				AANPBaseURL: "https://my.aanp.org",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }, "cache.backend"},
		{"postgres without dsn", func(c *Config) { c.Cache.Backend = "postgres" }, "postgres_dsn"},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, "http.timeout"},
		{"negative retries", func(c *Config) { c.HTTP.MaxRetries = -1 }, "max_retries"},
		{"no sources", func(c *Config) { c.Sources.Enabled = " , " }, "at least one"},
		{"unknown source", func(c *Config) { c.Sources.Enabled = "a4m,npi" }, "npi"},
		{"relative url", func(c *Config) { c.Sources.A4MBaseURL = "/listing" }, "a4m_base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a4m", "aanp"}, SplitList(" A4M, aanp ,a4m,,"))
	assert.Nil(t, SplitList(""))
}
