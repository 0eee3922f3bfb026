package provider

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for creating a provider client.
// Common fields apply to all providers; use Options for provider-specific settings.
type Config struct {
	// Provider is the name of the provider to use.
	// Required. Values: "gemini"
	Provider string `json:"provider" yaml:"provider" toml:"provider"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key"`

	// BaseURL overrides the provider's default endpoint.
	// Optional.
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url"`

	// Timeout is the maximum duration for a single completion request.
	// 0 uses the provider default. The cascade imposes no timeout of its own.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`

	// UserAgent is sent with every request when non-empty.
	UserAgent string `json:"user_agent" yaml:"user_agent" toml:"user_agent"`

	// Options holds provider-specific configuration.
	//
	// Gemini:
	//   - "api_key_in_query": bool (send key as ?key= instead of header)
	//   - "response_mime_type": string (e.g. "application/json")
	//   - "temperature": float64
	Options map[string]any `json:"options" yaml:"options" toml:"options"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "gemini",
		Timeout:   60 * time.Second,
		UserAgent: "NEER-FarmerAI/1.0",
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables take precedence over existing values.
//
// Supported variables:
//   - NEER_PROVIDER: Provider name
//   - NEER_API_KEY, then GOOGLE_API_KEY: API key
//   - NEER_BASE_URL: Endpoint override
//   - NEER_TIMEOUT: Timeout duration (e.g., "30s")
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("NEER_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("NEER_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv("NEER_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("NEER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		} else if n, err := strconv.Atoi(v); err == nil {
			c.Timeout = time.Duration(n) * time.Second
		}
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithAPIKey returns a copy of the config with the specified API key.
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = key
	return c
}

// WithOption returns a copy of the config with the specified option set.
func (c Config) WithOption(key string, value any) Config {
	newOpts := make(map[string]any, len(c.Options)+1)
	for k, v := range c.Options {
		newOpts[k] = v
	}
	newOpts[key] = value
	c.Options = newOpts
	return c
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}

// GetFloatOption retrieves a numeric option, returning defaultVal if not set.
func (c Config) GetFloatOption(key string, defaultVal float64) float64 {
	switch v := c.Options[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultVal
}
