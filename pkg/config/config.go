package config

import (
	"strings"
	"time"
)

// Config is the root configuration of the contact scraper.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Export  ExportConfig  `yaml:"export"`
	HTTP    HTTPConfig    `yaml:"http"`
	Sources SourcesConfig `yaml:"sources"`
	Log     LogConfig     `yaml:"log"`
}

// CacheConfig selects where raw per-source results are persisted.
type CacheConfig struct {
	Backend     string `yaml:"backend"      env:"CONTACTHUB_CACHE_BACKEND"      env-default:"file"`
	Dir         string `yaml:"dir"          env:"CONTACTHUB_CACHE_DIR"          env-default:"scrapecache"`
	SQLitePath  string `yaml:"sqlite_path"  env:"CONTACTHUB_CACHE_SQLITE_PATH"`
	PostgresDSN string `yaml:"postgres_dsn" env:"CONTACTHUB_CACHE_POSTGRES_DSN"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	Path string `yaml:"path" env:"CONTACTHUB_EXPORT_PATH" env-default:"sources.csv"`
	Mode string `yaml:"mode" env:"CONTACTHUB_EXPORT_MODE" env-default:"truncate"`
}

// HTTPConfig holds settings shared by every source client.
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout"             env:"CONTACTHUB_HTTP_TIMEOUT"             env-default:"20s"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"CONTACTHUB_HTTP_RPS"                 env-default:"2"`
	MaxRetries        int           `yaml:"max_retries"         env:"CONTACTHUB_HTTP_MAX_RETRIES"         env-default:"2"`
	RetryBaseDelay    time.Duration `yaml:"retry_base_delay"    env:"CONTACTHUB_HTTP_RETRY_BASE_DELAY"    env-default:"500ms"`
	UserAgent         string        `yaml:"user_agent"          env:"CONTACTHUB_HTTP_USER_AGENT"          env-default:"contacthub/1.0"`
}

// SourcesConfig lists enabled sources and their endpoints.
type SourcesConfig struct {
	Enabled     string `yaml:"enabled"       env:"CONTACTHUB_SOURCES"       env-default:"a4m,aanp"`
	A4MBaseURL  string `yaml:"a4m_base_url"  env:"CONTACTHUB_A4M_BASE_URL"  env-default:"https://www.a4m.com"`
	AANPBaseURL string `yaml:"aanp_base_url" env:"CONTACTHUB_AANP_BASE_URL" env-default:"https://my.aanp.org"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode"  env:"LOG_MODE"  env-default:"dev"`
}

// EnabledSources returns the configured source names, lower-cased,
// in the order given, without blanks or repeats.
func (s SourcesConfig) EnabledSources() []string {
	return SplitList(s.Enabled)
}

// SplitList parses a comma-separated list ("a4m, AANP") into
// lower-cased unique names.
func SplitList(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
