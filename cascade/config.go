package cascade

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neer-farm/neer/model"
)

// Default values for Config.
const (
	DefaultMaxRetries = 2
	DefaultRetryDelay = 5 * time.Second
)

// Config controls one Dispatcher. It is read once at construction.
type Config struct {
	// Models is the ordered cascade. Required, no blank entries.
	Models []string `json:"models" yaml:"models" toml:"models"`

	// MaxRetries is the number of extra rounds after the first. 0 disables retry.
	MaxRetries int `json:"max_retries" yaml:"max_retries" toml:"max_retries"`

	// RetryDelay is the pause between rounds.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" toml:"retry_delay"`
}

// DefaultConfig returns the production cascade.
func DefaultConfig() Config {
	return Config{
		Models:     model.Strings(model.DefaultCascade()),
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// ErrNoModels is returned by Validate when the cascade is empty.
var ErrNoModels = errors.New("cascade requires at least one model")

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if len(c.Models) == 0 {
		return ErrNoModels
	}
	for i, m := range c.Models {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("model %d is blank", i)
		}
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0, got %v", c.RetryDelay)
	}
	return nil
}

// MaxAttempts returns the upper bound on calls for one dispatch.
func (c Config) MaxAttempts() int {
	return len(c.Models) * (1 + c.MaxRetries)
}

// WithModels returns a copy of the config with the given cascade.
func (c Config) WithModels(models ...string) Config {
	c.Models = append([]string(nil), models...)
	return c
}

// WithRetry returns a copy of the config with the given retry policy.
func (c Config) WithRetry(maxRetries int, delay time.Duration) Config {
	c.MaxRetries = maxRetries
	c.RetryDelay = delay
	return c
}
