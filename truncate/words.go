package truncate

import "unicode"

// Words cuts text to at most maxRunes runes. It prefers to end after a
// sentence mark (. ! ? ।) and otherwise at a space followed by "...", as
// long as the cut keeps more than half the limit. Failing both, it cuts
// hard and appends "...".
func Words(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}

	limit := maxRunes - 3
	for i := limit; i > maxRunes/2; i-- {
		switch runes[i] {
		case '.', '!', '?', '।':
			return string(runes[:i+1])
		}
	}
	for i := limit; i > maxRunes/2; i-- {
		if unicode.IsSpace(runes[i]) {
			return string(runes[:i]) + "..."
		}
	}
	return string(runes[:limit]) + "..."
}
