// Package ratelimit decides whether an endpoint failure is a transient
// rate-limit or quota rejection.
//
// Error types are not uniform across model providers, so classification
// works on the lower-cased error text: a failure is rate-limited when its
// message contains any recognised marker. The marker set is data; add
// provider-specific markers with NewClassifier rather than new branches.
//
//	c := ratelimit.NewClassifier(append(ratelimit.DefaultMarkers, "overloaded")...)
//	if c.IsRateLimited(err) {
//	    // try the next model
//	}
package ratelimit

import (
	"errors"
	"strings"

	"github.com/neer-farm/neer/provider"
)

// DefaultMarkers are the substrings that identify a rate-limit or quota
// failure. Matching is case-insensitive.
var DefaultMarkers = []string{
	"429",
	"quota",
	"resource_exhausted",
	"too many requests",
	"rate limit",
}

// Classifier matches failure text against a fixed marker set.
// A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	markers []string
}

// NewClassifier creates a classifier for the given markers.
// Markers are lower-cased and blank markers dropped. With no usable
// markers the classifier falls back to DefaultMarkers.
func NewClassifier(markers ...string) *Classifier {
	normalized := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			normalized = append(normalized, m)
		}
	}
	if len(normalized) == 0 {
		for _, m := range DefaultMarkers {
			normalized = append(normalized, strings.ToLower(m))
		}
	}
	return &Classifier{markers: normalized}
}

// Markers returns a copy of the normalised marker set.
func (c *Classifier) Markers() []string {
	out := make([]string, len(c.markers))
	copy(out, c.markers)
	return out
}

// IsRateLimited reports whether err is a rate-limit or quota failure.
// A nil error is never rate-limited. Errors wrapping provider.ErrRateLimited
// are rate-limited regardless of their text. An error whose Error method
// panics, such as a typed nil, is not rate-limited.
func (c *Classifier) IsRateLimited(err error) (limited bool) {
	if err == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			limited = false
		}
	}()
	if errors.Is(err, provider.ErrRateLimited) {
		return true
	}
	return c.MatchText(err.Error())
}

// MatchText reports whether text contains any marker, ignoring case.
func (c *Classifier) MatchText(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range c.markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

var defaultClassifier = NewClassifier(DefaultMarkers...)

// IsRateLimited classifies err with DefaultMarkers.
func IsRateLimited(err error) bool {
	return defaultClassifier.IsRateLimited(err)
}
