package gemini_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neer-farm/neer/cascade"
	"github.com/neer-farm/neer/gemini"
	"github.com/neer-farm/neer/provider"
)

func TestGeminiProviderRegistration(t *testing.T) {
	assert.True(t, provider.IsRegistered("gemini"), "gemini provider should be registered")
	assert.Contains(t, provider.Available(), "gemini")
}

func TestGeminiProviderNew(t *testing.T) {
	cfg := provider.DefaultConfig().
		WithAPIKey("k").
		WithOption("api_key_in_query", true).
		WithOption("temperature", 0.3)

	client, err := provider.FromConfig(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	assert.Equal(t, "gemini", client.Provider())
	_, ok := client.(*gemini.Client)
	assert.True(t, ok)
}

func TestGeminiProviderNew_MissingKey(t *testing.T) {
	_, err := provider.New("gemini", provider.DefaultConfig())
	assert.Error(t, err)
}

// TestCascadeOverGemini runs the dispatcher against a fake endpoint that
// refuses the first model for quota and answers on the second.
func TestCascadeOverGemini(t *testing.T) {
	var mu sync.Mutex
	var paths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "gemini-2.0-flash:") {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error": {"code": 429, "message": "Resource has been exhausted (e.g. check quota).", "status": "RESOURCE_EXHAUSTED"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"candidates": [{"content": {"parts": [{"text": "\n{\"ok\": true}\n"}]}}]}`)
	}))
	defer srv.Close()

	client, err := provider.New("gemini", provider.Config{Provider: "gemini", APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	d, err := cascade.New(client, cascade.DefaultConfig(), cascade.WithSleeper(cascade.NoSleep))
	require.NoError(t, err)

	text, err := d.GenerateText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, text)
	assert.Equal(t, []string{
		"/models/gemini-2.0-flash:generateContent",
		"/models/gemini-2.0-flash-lite:generateContent",
	}, paths)
}

func TestCascadeOverGemini_AuthErrorStopsCascade(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error": {"code": 403, "message": "API key not valid.", "status": "PERMISSION_DENIED"}}`)
	}))
	defer srv.Close()

	client, err := provider.New("gemini", provider.Config{Provider: "gemini", APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	d, err := cascade.New(client, cascade.DefaultConfig(), cascade.WithSleeper(cascade.NoSleep))
	require.NoError(t, err)

	_, err = d.GenerateText(context.Background(), "hello")
	assert.ErrorIs(t, err, provider.ErrAuth)
	assert.Equal(t, 1, calls)
}
