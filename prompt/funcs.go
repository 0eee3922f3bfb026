package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"json":     toJSON,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"trim":     strings.TrimSpace,
		"join":     strings.Join,
		"first":    first,
		"truncate": truncate,
		"default":  defaultValue,
		"indent":   indent,
		"bullets":  bullets,
	}
}

// toJSON encodes v compactly. On failure it falls back to %v.
func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// first returns at most n leading items.
func first(n int, items []string) []string {
	if n < 0 {
		n = 0
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// truncate cuts s to maxRunes runes, ending with "..." when cut.
func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:max(maxRunes, 0)])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// defaultValue returns defaultVal if val is nil or an empty string.
func defaultValue(val, defaultVal any) any {
	if val == nil {
		return defaultVal
	}
	if s, ok := val.(string); ok && s == "" {
		return defaultVal
	}
	return val
}

func indent(s string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "  • " + item
	}
	return strings.Join(lines, "\n")
}
