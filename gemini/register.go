package gemini

import (
	"github.com/neer-farm/neer/provider"
)

func init() {
	provider.Register(providerName, newFromProviderConfig)
}

// newFromProviderConfig creates a Client from a provider.Config.
// This is the factory function registered with the provider registry.
func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gc := DefaultConfig()
	gc.APIKey = cfg.APIKey
	if cfg.BaseURL != "" {
		gc.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		gc.Timeout = cfg.Timeout
	}
	gc.UserAgent = cfg.UserAgent

	// Map Gemini-specific options from Options map
	if cfg.Options != nil {
		gc.APIKeyInQuery = cfg.GetBoolOption("api_key_in_query", false)
		gc.ResponseMIMEType = cfg.GetStringOption("response_mime_type", "")
		if _, ok := cfg.Options["temperature"]; ok {
			t := cfg.GetFloatOption("temperature", 0)
			gc.Temperature = &t
		}
	}

	client, err := NewFromConfig(gc)
	if err != nil {
		return nil, err
	}
	return client, nil
}
