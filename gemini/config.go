package gemini

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the public Generative Language API root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Config holds configuration for a Gemini client.
// Zero values use sensible defaults where noted.
type Config struct {
	// APIKey authenticates every request. Required.
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key"`

	// BaseURL is the API root.
	// Default: DefaultBaseURL
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url"`

	// Timeout bounds one HTTP request.
	// 0 uses the default (60 seconds).
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`

	// UserAgent is sent with every request when non-empty.
	UserAgent string `json:"user_agent" yaml:"user_agent" toml:"user_agent"`

	// APIKeyInQuery sends the key as ?key= instead of the x-goog-api-key header.
	APIKeyInQuery bool `json:"api_key_in_query" yaml:"api_key_in_query" toml:"api_key_in_query"`

	// ResponseMIMEType asks the model for a specific output type,
	// e.g. "application/json". Empty leaves the model default.
	ResponseMIMEType string `json:"response_mime_type" yaml:"response_mime_type" toml:"response_mime_type"`

	// Temperature overrides sampling temperature when non-nil.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" toml:"temperature,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 60 * time.Second,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the GEMINI_ prefix and take precedence over
// existing values. GOOGLE_API_KEY is used when GEMINI_API_KEY is unset and
// no key is configured.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("GOOGLE_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("GEMINI_RESPONSE_MIME_TYPE"); v != "" {
		c.ResponseMIMEType = v
	}
	if v := os.Getenv("GEMINI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = &f
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
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("temperature must be in [0, 2], got %v", *c.Temperature)
	}
	return nil
}

// ToOptions converts the config to functional options.
// This enables mixing Config with additional options.
func (c *Config) ToOptions() []Option {
	opts := make([]Option, 0, 8)

	if c.APIKey != "" {
		opts = append(opts, WithAPIKey(c.APIKey))
	}
	if c.BaseURL != "" {
		opts = append(opts, WithBaseURL(c.BaseURL))
	}
	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}
	if c.UserAgent != "" {
		opts = append(opts, WithUserAgent(c.UserAgent))
	}
	if c.APIKeyInQuery {
		opts = append(opts, WithAPIKeyInQuery())
	}
	if c.ResponseMIMEType != "" {
		opts = append(opts, WithResponseMIMEType(c.ResponseMIMEType))
	}
	if c.Temperature != nil {
		opts = append(opts, WithTemperature(*c.Temperature))
	}

	return opts
}
