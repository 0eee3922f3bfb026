// Package gemini implements provider.Client over the Gemini
// generateContent REST endpoint.
//
// One Complete call is one HTTP request to one model. The client never
// retries; rate-limit and quota refusals surface as *provider.Error values
// wrapping provider.ErrRateLimited so the cascade can move to the next
// model.
//
// # Basic Usage
//
//	client := gemini.New(
//	    gemini.WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
//	    gemini.WithTimeout(60*time.Second),
//	)
//
//	resp, err := client.Complete(ctx, provider.NewAttachmentRequest(
//	    "gemini-2.0-flash", "Diagnose this leaf.", image, "image/jpeg",
//	))
//
// # Provider Registry Usage
//
//	import (
//	    "github.com/neer-farm/neer/provider"
//	    _ "github.com/neer-farm/neer/gemini" // Register provider
//	)
//
//	client, err := provider.New("gemini", provider.Config{
//	    Provider: "gemini",
//	    APIKey:   key,
//	})
//
// # Error Mapping
//
//   - 429 or status RESOURCE_EXHAUSTED: provider.ErrRateLimited
//   - 401, 403: provider.ErrAuth
//   - 400, 404: provider.ErrInvalidRequest
//   - 5xx: provider.ErrUnavailable
//   - no candidate text: provider.ErrEmptyResponse
package gemini
