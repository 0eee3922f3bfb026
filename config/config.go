// Package config loads the application configuration from YAML or TOML
// files and NEER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/neer-farm/neer/cascade"
	"github.com/neer-farm/neer/provider"
)

// ErrUnsupportedFormat is returned by Load for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the root application configuration.
type Config struct {
	Cascade  cascade.Config  `json:"cascade" yaml:"cascade" toml:"cascade"`
	Provider provider.Config `json:"provider" yaml:"provider" toml:"provider"`
	Data     DataConfig      `json:"data" yaml:"data" toml:"data"`
	Cache    CacheConfig     `json:"cache" yaml:"cache" toml:"cache"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// DataConfig points at the static data files. Blank paths leave the
// matching component empty.
type DataConfig struct {
	DiseaseKB    string `json:"disease_kb" yaml:"disease_kb" toml:"disease_kb"`
	Schemes      string `json:"schemes" yaml:"schemes" toml:"schemes"`
	CropCalendar string `json:"crop_calendar" yaml:"crop_calendar" toml:"crop_calendar"`

	// WatchSchemes reloads the scheme file when it changes.
	WatchSchemes bool `json:"watch_schemes" yaml:"watch_schemes" toml:"watch_schemes"`
}

// CacheConfig controls the crop calendar cache.
type CacheConfig struct {
	// Path is the SQLite file. Empty keeps the cache in memory.
	Path string `json:"path" yaml:"path" toml:"path"`
}

// Default returns a Config with the production cascade and Gemini defaults.
func Default() Config {
	return Config{
		Cascade:  cascade.DefaultConfig(),
		Provider: provider.DefaultConfig(),
		LogLevel: "info",
	}
}

// Load reads a config file over Default. The format follows the extension:
// .yaml/.yml or .toml. ${VAR} references are expanded before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal([]byte(expanded), &cfg)
	case ".toml":
		_, err = toml.Decode(expanded, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv overlays environment variables. Set variables take
// precedence over existing values; malformed numbers are ignored.
//
// Supported variables, besides those read by provider.Config.LoadFromEnv:
//   - NEER_MODELS: comma-separated cascade
//   - NEER_MAX_RETRIES: extra rounds
//   - NEER_RETRY_DELAY: pause between rounds (e.g. "5s")
//   - NEER_DISEASE_KB, NEER_SCHEMES, NEER_CROP_CALENDAR: data files
//   - NEER_WATCH_SCHEMES: "true" to reload the scheme file on change
//   - NEER_CACHE_PATH: SQLite cache file
//   - NEER_LOG_LEVEL: log level
func (c *Config) LoadFromEnv() {
	c.Provider.LoadFromEnv()

	if v := os.Getenv("NEER_MODELS"); v != "" {
		var models []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		c.Cascade.Models = models
	}
	if v := os.Getenv("NEER_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cascade.MaxRetries = n
		}
	}
	if v := os.Getenv("NEER_RETRY_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cascade.RetryDelay = d
		}
	}
	if v := os.Getenv("NEER_DISEASE_KB"); v != "" {
		c.Data.DiseaseKB = v
	}
	if v := os.Getenv("NEER_SCHEMES"); v != "" {
		c.Data.Schemes = v
	}
	if v := os.Getenv("NEER_CROP_CALENDAR"); v != "" {
		c.Data.CropCalendar = v
	}
	if v := os.Getenv("NEER_WATCH_SCHEMES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Data.WatchSchemes = b
		}
	}
	if v := os.Getenv("NEER_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("NEER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// FromEnv returns Default overlaid with the environment.
func FromEnv() Config {
	cfg := Default()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Cascade.Validate(); err != nil {
		return fmt.Errorf("cascade: %w", err)
	}
	if err := c.Provider.Validate(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. Empty means info.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
