package parser

import "strings"

// Strategy is one named, pure text transformation. Apply must never panic;
// it returns ok=false when the strategy does not apply to the input.
type Strategy struct {
	Name  string
	Apply func(text string) (string, bool)
}

// Narrowing strategies. Each one that applies replaces the working text.
var (
	BracketSpan = Strategy{Name: "bracket-span", Apply: bracketSpan}
	FencedBlock = Strategy{Name: "fenced-block", Apply: fencedBlock}
)

// Candidate strategies. The first whose output decodes wins.
var (
	Direct      = Strategy{Name: "direct", Apply: direct}
	OuterBraces = Strategy{Name: "outer-braces", Apply: outerBraces}
)

// DefaultNarrowers returns the narrowing chain in application order.
func DefaultNarrowers() []Strategy {
	return []Strategy{BracketSpan, FencedBlock}
}

// DefaultCandidates returns the candidate chain in attempt order.
func DefaultCandidates() []Strategy {
	return []Strategy{Direct, OuterBraces}
}

const (
	fence     = "```"
	jsonFence = "```json"
)

// bracketSpan returns the first span that opens with '{' or '[' and runs to
// the last matching closer after it. Scanning stops at the earliest opener
// that has a closer somewhere to its right.
func bracketSpan(text string) (string, bool) {
	lastBrace := strings.LastIndexByte(text, '}')
	lastBracket := strings.LastIndexByte(text, ']')

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if lastBrace > i {
				return text[i : lastBrace+1], true
			}
		case '[':
			if lastBracket > i {
				return text[i : lastBracket+1], true
			}
		}
	}
	return "", false
}

// fencedBlock returns the content of the first ```json block, or failing
// that the first unlabeled ``` block. A missing closing fence takes the
// rest of the text.
func fencedBlock(text string) (string, bool) {
	if i := strings.Index(text, jsonFence); i >= 0 {
		return untilFence(text[i+len(jsonFence):]), true
	}
	if i := strings.Index(text, fence); i >= 0 {
		return untilFence(text[i+len(fence):]), true
	}
	return "", false
}

func untilFence(rest string) string {
	if j := strings.Index(rest, fence); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

func direct(text string) (string, bool) {
	return text, true
}

// outerBraces returns the slice from the first '{' through the last '}'.
func outerBraces(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
