package model

import "strings"

// ModelName is a provider-specific model identifier.
type ModelName string

// Gemini model constants.
const (
	GeminiFlash20     ModelName = "gemini-2.0-flash"      // 15 RPM, 1500 RPD
	GeminiFlashLite20 ModelName = "gemini-2.0-flash-lite" // 30 RPM, 1500 RPD
	GeminiFlash25     ModelName = "gemini-2.5-flash"
	GeminiFlashLite25 ModelName = "gemini-2.5-flash-lite" // 30 RPM, 1500 RPD
	GeminiPro25       ModelName = "gemini-2.5-pro"
)

// DefaultCascade returns the default model order. The slice is fresh on
// every call.
func DefaultCascade() []ModelName {
	return []ModelName{GeminiFlash20, GeminiFlashLite20, GeminiFlashLite25}
}

// Strings converts model names to plain strings.
func Strings(models []ModelName) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = string(m)
	}
	return out
}

// Tier represents a model capability tier.
type Tier int

// Tier constants representing model capability levels.
const (
	TierFast Tier = iota
	TierDefault
	TierThinking
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierFast:
		return "fast"
	case TierDefault:
		return "default"
	case TierThinking:
		return "thinking"
	default:
		return "unknown"
	}
}

// TierForModel returns the tier for a given model.
// Lite variants are fast, pro variants are thinking, everything else default.
func TierForModel(name ModelName) Tier {
	lower := string(NormalizeModelName(string(name)))
	switch {
	case strings.Contains(lower, "-lite"):
		return TierFast
	case strings.Contains(lower, "-pro"):
		return TierThinking
	default:
		return TierDefault
	}
}

// NormalizeModelName trims whitespace, lower-cases the name and strips the
// "models/" resource prefix the REST API uses in responses.
func NormalizeModelName(name string) ModelName {
	lower := strings.ToLower(strings.TrimSpace(name))
	return ModelName(strings.TrimPrefix(lower, "models/"))
}
