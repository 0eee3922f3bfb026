// Package provider defines the endpoint contract used by the model cascade.
//
// A Client sends one prompt to one named model and returns its text. The
// cascade package decides which model to call and what to do when a call
// fails; a Client never retries on its own.
//
// # Usage
//
// Create a client using the registry:
//
//	client, err := provider.New("gemini", provider.Config{
//	    APIKey:  os.Getenv("GOOGLE_API_KEY"),
//	    Timeout: 60 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Complete(ctx, provider.NewTextRequest("gemini-2.0-flash", "Hello"))
//
// # Available Providers
//
//   - "gemini": Google Generative Language REST API
package provider

import "context"

// Client is the interface every model endpoint implements.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete sends a request to the model named in req.Model and returns
	// the full response. The context controls cancellation and timeouts.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Provider returns the provider name (e.g., "gemini").
	Provider() string

	// Close releases any resources held by the client.
	Close() error
}

// ClientFunc adapts an ordinary function to the Client interface.
// Useful for tests and for wrapping SDKs that expose a single call.
type ClientFunc func(ctx context.Context, req Request) (*Response, error)

// Complete calls f(ctx, req).
func (f ClientFunc) Complete(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Provider returns "func".
func (f ClientFunc) Provider() string { return "func" }

// Close is a no-op.
func (f ClientFunc) Close() error { return nil }
