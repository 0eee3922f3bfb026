package gemini

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.APIKey)
	assert.Error(t, cfg.Validate(), "api key is required")
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("GEMINI_BASE_URL", "http://localhost:9999")
	t.Setenv("GEMINI_TIMEOUT", "15s")
	t.Setenv("GEMINI_RESPONSE_MIME_TYPE", "application/json")
	t.Setenv("GEMINI_TEMPERATURE", "0.4")

	cfg := FromEnv()

	assert.Equal(t, "gem-key", cfg.APIKey)
	assert.Equal(t, "http://localhost:9999", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.4, *cfg.Temperature, 1e-9)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromEnv_GoogleKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	assert.Equal(t, "google-key", cfg.APIKey)

	cfg = DefaultConfig()
	cfg.APIKey = "configured"
	cfg.LoadFromEnv()
	assert.Equal(t, "configured", cfg.APIKey)
}

func TestConfig_Validate(t *testing.T) {
	hot := 3.0
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{APIKey: "k"}, false},
		{"missing key", Config{}, true},
		{"negative timeout", Config{APIKey: "k", Timeout: -time.Second}, true},
		{"temperature out of range", Config{APIKey: "k", Temperature: &hot}, true},
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

func TestConfig_ToOptions(t *testing.T) {
	temp := 0.7
	cfg := Config{
		APIKey:           "k",
		BaseURL:          "http://example.test",
		Timeout:          5 * time.Second,
		UserAgent:        "ua",
		APIKeyInQuery:    true,
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
	}

	c, err := NewFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "k", c.apiKey)
	assert.Equal(t, "http://example.test", c.baseURL)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Equal(t, "ua", c.userAgent)
	assert.True(t, c.keyInQuery)
	assert.Equal(t, "application/json", c.responseMIMEType)
	require.NotNil(t, c.temperature)
	assert.InDelta(t, 0.7, *c.temperature, 1e-9)

	_, err = NewFromConfig(Config{})
	assert.Error(t, err)
}
