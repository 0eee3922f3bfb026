package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neer-farm/neer/cascade"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, cascade.DefaultConfig(), cfg.Cascade)
	assert.Equal(t, "gemini", cfg.Provider.Provider)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("TEST_NEER_KEY", "secret-from-env")
	path := writeFile(t, "neer.yaml", `
cascade:
  models: [gemini-2.0-flash, gemini-2.5-flash]
  max_retries: 1
  retry_delay: 3s
provider:
  api_key: ${TEST_NEER_KEY}
  timeout: 45s
  options:
    temperature: 0.2
data:
  disease_kb: data/kb.json
  schemes: data/schemes.json
  watch_schemes: true
cache:
  path: cache.db
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.0-flash", "gemini-2.5-flash"}, cfg.Cascade.Models)
	assert.Equal(t, 1, cfg.Cascade.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.Cascade.RetryDelay)
	assert.Equal(t, "secret-from-env", cfg.Provider.APIKey)
	assert.Equal(t, "gemini", cfg.Provider.Provider, "unset fields keep defaults")
	assert.Equal(t, 45*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 0.2, cfg.Provider.GetFloatOption("temperature", 0))
	assert.Equal(t, "data/kb.json", cfg.Data.DiseaseKB)
	assert.True(t, cfg.Data.WatchSchemes)
	assert.Equal(t, "cache.db", cfg.Cache.Path)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "neer.toml", `
log_level = "warn"

[cascade]
models = ["gemini-2.0-flash-lite"]
max_retries = 0
retry_delay = "250ms"

[provider]
provider = "gemini"
base_url = "http://localhost:9999"

[data]
crop_calendar = "data/crop_calendar.json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.0-flash-lite"}, cfg.Cascade.Models)
	assert.Equal(t, 0, cfg.Cascade.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Cascade.RetryDelay)
	assert.Equal(t, "http://localhost:9999", cfg.Provider.BaseURL)
	assert.Equal(t, "data/crop_calendar.json", cfg.Data.CropCalendar)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeFile(t, "neer.json", `{}`))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "neer.yml", "cascade: [unclosed"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeFile(t, "neer.toml", "cascade = = 1"))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NEER_MODELS", " gemini-2.5-flash , ,gemini-2.0-flash")
	t.Setenv("NEER_MAX_RETRIES", "4")
	t.Setenv("NEER_RETRY_DELAY", "1m")
	t.Setenv("NEER_DISEASE_KB", "/srv/kb.json")
	t.Setenv("NEER_SCHEMES", "/srv/schemes.json")
	t.Setenv("NEER_CROP_CALENDAR", "/srv/calendar.json")
	t.Setenv("NEER_WATCH_SCHEMES", "true")
	t.Setenv("NEER_CACHE_PATH", "/var/lib/neer/cache.db")
	t.Setenv("NEER_LOG_LEVEL", "error")
	t.Setenv("NEER_API_KEY", "env-key")

	cfg := FromEnv()
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash"}, cfg.Cascade.Models)
	assert.Equal(t, 4, cfg.Cascade.MaxRetries)
	assert.Equal(t, time.Minute, cfg.Cascade.RetryDelay)
	assert.Equal(t, DataConfig{
		DiseaseKB:    "/srv/kb.json",
		Schemes:      "/srv/schemes.json",
		CropCalendar: "/srv/calendar.json",
		WatchSchemes: true,
	}, cfg.Data)
	assert.Equal(t, "/var/lib/neer/cache.db", cfg.Cache.Path)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "env-key", cfg.Provider.APIKey)
}

func TestLoadFromEnv_IgnoresMalformed(t *testing.T) {
	t.Setenv("NEER_MAX_RETRIES", "many")
	t.Setenv("NEER_RETRY_DELAY", "soon")
	t.Setenv("NEER_WATCH_SCHEMES", "maybe")

	cfg := FromEnv()
	assert.Equal(t, cascade.DefaultMaxRetries, cfg.Cascade.MaxRetries)
	assert.Equal(t, cascade.DefaultRetryDelay, cfg.Cascade.RetryDelay)
	assert.False(t, cfg.Data.WatchSchemes)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		want string
	}{
		{"no models", func(c *Config) { c.Cascade.Models = nil }, "cascade"},
		{"negative retries", func(c *Config) { c.Cascade.MaxRetries = -1 }, "max_retries"},
		{"no provider", func(c *Config) { c.Provider.Provider = "" }, "provider"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	cfg := Default()
	cfg.LogLevel = ""
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
