package cascade

// State is a step of the dispatch state machine.
type State int

const (
	StateSelecting State = iota
	StateAwaiting
	StateRoundExhausted
	StateWaiting
	StateSucceeded
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateAwaiting:
		return "awaiting"
	case StateRoundExhausted:
		return "round_exhausted"
	case StateWaiting:
		return "waiting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}
