package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.UserAgent)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid config", Config{Provider: "gemini"}, false},
		{"missing provider", Config{}, true},
		{"negative timeout", Config{Provider: "gemini", Timeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("NEER_PROVIDER", "gemini")
	t.Setenv("NEER_API_KEY", "neer-key")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("NEER_BASE_URL", "http://localhost:9999")
	t.Setenv("NEER_TIMEOUT", "10s")

	cfg := Config{}
	cfg.LoadFromEnv()

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "neer-key", cfg.APIKey, "NEER_API_KEY takes precedence")
	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestConfig_LoadFromEnv_GoogleKeyFallback(t *testing.T) {
	t.Setenv("NEER_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("NEER_TIMEOUT", "15")

	cfg := Config{}
	cfg.LoadFromEnv()

	assert.Equal(t, "google-key", cfg.APIKey)
	assert.Equal(t, 15*time.Second, cfg.Timeout, "bare integers are seconds")

	cfg = Config{APIKey: "from-file"}
	cfg.LoadFromEnv()
	assert.Equal(t, "from-file", cfg.APIKey, "GOOGLE_API_KEY does not override a configured key")
}

func TestConfig_Options(t *testing.T) {
	base := Config{Provider: "gemini"}
	cfg := base.WithOption("api_key_in_query", true).
		WithOption("response_mime_type", "application/json").
		WithOption("temperature", 0.2)

	require.Nil(t, base.Options, "WithOption must not mutate the receiver")
	assert.True(t, cfg.GetBoolOption("api_key_in_query", false))
	assert.Equal(t, "application/json", cfg.GetStringOption("response_mime_type", ""))
	assert.InDelta(t, 0.2, cfg.GetFloatOption("temperature", 1), 1e-9)
	assert.Equal(t, "fallback", cfg.GetStringOption("missing", "fallback"))
	assert.InDelta(t, 1.0, Config{}.GetFloatOption("temperature", 1), 1e-9)
}

func TestConfig_WithMethods(t *testing.T) {
	cfg := Config{}.WithProvider("gemini").WithAPIKey("k")

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "k", cfg.APIKey)
}
