package tokens

import (
	"strings"
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio.
const DefaultCharsPerToken = 4.0

// AttachmentTokens is the flat token cost Gemini charges per inline image.
const AttachmentTokens = 258

// Counter estimates token counts for text.
type Counter interface {
	// Count estimates the number of tokens in the given text.
	Count(text string) int

	// FitsInLimit returns true if the text fits within the token limit.
	FitsInLimit(text string, limit int) bool
}

// EstimatingCounter uses a character-to-token ratio for estimation.
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token.
	CharsPerToken float64
}

// NewEstimatingCounter creates a token counter with default settings.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{CharsPerToken: DefaultCharsPerToken}
}

// NewEstimatingCounterWithRatio creates a token counter with a custom ratio.
// If charsPerToken is <= 0, the default ratio is used.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{CharsPerToken: charsPerToken}
}

// Count estimates the number of tokens in the given text.
// Runes are counted rather than bytes so Devanagari prompts are not
// overestimated fourfold.
func (c *EstimatingCounter) Count(text string) int {
	runeCount := utf8.RuneCountInString(text)
	return int(float64(runeCount)/c.CharsPerToken + 0.5)
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// EstimateTokens is a convenience function using the default estimator.
func EstimateTokens(text string) int {
	return NewEstimatingCounter().Count(text)
}

// EstimateRequest estimates a prompt plus an optional inline attachment.
func EstimateRequest(prompt string, hasAttachment bool) int {
	n := EstimateTokens(prompt)
	if hasAttachment {
		n += AttachmentTokens
	}
	return n
}

// ModelLimits contains input context window sizes for Gemini models.
var ModelLimits = map[string]int{
	"gemini-2.0-flash":      1048576,
	"gemini-2.0-flash-lite": 1048576,
	"gemini-2.5-flash":      1048576,
	"gemini-2.5-flash-lite": 1048576,
	"gemini-2.5-pro":        1048576,

	"default": 32768,
}

// GetModelLimit returns the token limit for a model, or a default if not found.
// A "models/" prefix is ignored.
func GetModelLimit(model string) int {
	if limit, ok := ModelLimits[strings.TrimPrefix(model, "models/")]; ok {
		return limit
	}
	return ModelLimits["default"]
}
