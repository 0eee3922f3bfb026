package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnavailable indicates the model service is unavailable.
	ErrUnavailable = errors.New("model service unavailable")

	// ErrRateLimited indicates the request was refused for rate or quota reasons.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidRequest indicates the request is malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAuth indicates the credentials were missing or rejected.
	ErrAuth = errors.New("authentication failed")

	// ErrEmptyResponse indicates the model returned no usable text.
	ErrEmptyResponse = errors.New("empty response")
)

// Error wraps provider errors with context.
type Error struct {
	Provider   string // Provider name ("gemini")
	Op         string // Operation that failed ("complete")
	Model      string // Model the call was addressed to
	StatusCode int    // Upstream HTTP status, 0 if none
	Status     string // Upstream status text (e.g. "RESOURCE_EXHAUSTED")
	Err        error  // Underlying error
	Retryable  bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil provider error>"
	}
	var head string
	switch {
	case e.Provider != "" && e.Model != "":
		head = fmt.Sprintf("%s %s %s", e.Provider, e.Op, e.Model)
	case e.Provider != "":
		head = fmt.Sprintf("%s %s", e.Provider, e.Op)
	default:
		head = e.Op
	}
	switch {
	case e.StatusCode != 0 && e.Status != "":
		return fmt.Sprintf("%s: %d %s: %v", head, e.StatusCode, e.Status, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %d: %v", head, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", head, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError creates a new provider error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) && provErr != nil {
		return provErr.Retryable
	}

	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}
