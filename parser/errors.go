package parser

import (
	"errors"
	"fmt"
)

// ErrNoJSON is matched by every extraction failure.
var ErrNoJSON = errors.New("no JSON value found")

// ErrNullValue is the decode error recorded for a reply that is just null.
var ErrNullValue = errors.New("reply is a bare null")

// ErrInvalidTarget is returned by ExtractInto when the destination is not a
// non-nil pointer.
var ErrInvalidTarget = errors.New("extract target must be a non-nil pointer")

// ParseError reports that no candidate slice decoded.
type ParseError struct {
	// Snippet is a bounded-length prefix of the working text.
	Snippet string

	// Err is the decode error from the first candidate attempted.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("model returned invalid JSON: %v (snippet: %q)", e.Err, e.Snippet)
}

// Unwrap exposes both ErrNoJSON and the decode error to errors.Is/As.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNoJSON}
	}
	return []error{ErrNoJSON, e.Err}
}
