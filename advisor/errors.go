package advisor

import "errors"

var (
	// ErrEmptyMessage is returned by Chat for a blank message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy wraps a failure caused by every model being rate limited.
	ErrBusy = errors.New("all models are temporarily busy, wait 30 seconds and try again")

	// ErrMissingField is returned when a required request field is blank.
	ErrMissingField = errors.New("missing required field")

	// ErrCalendarShape is returned when a generated calendar does not have
	// one entry per month.
	ErrCalendarShape = errors.New("calendar must have 12 months")
)
