package truncate

import (
	"strings"

	"github.com/neer-farm/neer/tokens"
)

// Strategy selects which part of the text survives.
type Strategy int

const (
	// KeepStart drops the tail.
	KeepStart Strategy = iota

	// KeepEnds drops the middle.
	KeepEnds
)

// Default markers inserted where text was removed.
const (
	DefaultTailMarker   = "..."
	DefaultMiddleMarker = "\n...[truncated]...\n"
)

// Truncator cuts text to a token budget. It is immutable and safe for
// concurrent use.
type Truncator struct {
	counter  tokens.Counter
	strategy Strategy
	marker   string
}

// Option configures a Truncator.
type Option func(*Truncator)

// WithCounter sets the token counter. Default: tokens.NewEstimatingCounter.
func WithCounter(c tokens.Counter) Option {
	return func(t *Truncator) {
		if c != nil {
			t.counter = c
		}
	}
}

// WithMarker sets the text inserted at the cut.
func WithMarker(m string) Option {
	return func(t *Truncator) { t.marker = m }
}

// New creates a Truncator for strategy.
func New(strategy Strategy, opts ...Option) *Truncator {
	t := &Truncator{
		counter:  tokens.NewEstimatingCounter(),
		strategy: strategy,
		marker:   DefaultTailMarker,
	}
	if strategy == KeepEnds {
		t.marker = DefaultMiddleMarker
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Truncate returns text cut to at most maxTokens, marker included, and
// whether anything was removed. When the marker alone does not fit, the
// marker is returned.
func (t *Truncator) Truncate(text string, maxTokens int) (string, bool) {
	if t.counter.FitsInLimit(text, maxTokens) {
		return text, false
	}
	budget := maxTokens - t.counter.Count(t.marker)
	if budget <= 0 {
		return t.marker, true
	}

	runes := []rune(text)
	if t.strategy == KeepEnds {
		head := t.prefixFitting(runes, budget/2)
		tail := t.suffixFitting(runes[head:], budget-budget/2)
		var sb strings.Builder
		sb.WriteString(string(runes[:head]))
		sb.WriteString(t.marker)
		sb.WriteString(string(runes[len(runes)-tail:]))
		return sb.String(), true
	}

	n := t.prefixFitting(runes, budget)
	if n == 0 {
		return t.marker, true
	}
	return string(runes[:n]) + t.marker, true
}

// prefixFitting returns the longest prefix length that fits in budget.
func (t *Truncator) prefixFitting(runes []rune, budget int) int {
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.counter.FitsInLimit(string(runes[:mid]), budget) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// suffixFitting returns the longest suffix length that fits in budget.
func (t *Truncator) suffixFitting(runes []rune, budget int) int {
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.counter.FitsInLimit(string(runes[len(runes)-mid:]), budget) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
