package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"
)

// DefaultSnippetLength bounds ParseError.Snippet, in runes.
const DefaultSnippetLength = 200

// Extractor recovers JSON values from model output.
// An Extractor is immutable and safe for concurrent use.
type Extractor struct {
	narrowers  []Strategy
	candidates []Strategy
	snippetLen int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNarrowers replaces the narrowing chain.
func WithNarrowers(s ...Strategy) Option {
	return func(e *Extractor) { e.narrowers = append([]Strategy(nil), s...) }
}

// WithCandidates replaces the candidate chain.
func WithCandidates(s ...Strategy) Option {
	return func(e *Extractor) { e.candidates = append([]Strategy(nil), s...) }
}

// WithSnippetLength sets the rune limit for ParseError snippets.
func WithSnippetLength(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.snippetLen = n
		}
	}
}

// NewExtractor creates an extractor with the default strategy chains.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		narrowers:  DefaultNarrowers(),
		candidates: DefaultCandidates(),
		snippetLen: DefaultSnippetLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Narrow applies the narrowing chain to raw and returns the working text.
func (e *Extractor) Narrow(raw string) string {
	text := strings.TrimSpace(raw)
	for _, s := range e.narrowers {
		if narrowed, ok := s.Apply(text); ok {
			text = narrowed
		}
	}
	return text
}

// Candidates returns the slices that will be decoded, in order.
func (e *Extractor) Candidates(raw string) []string {
	working := e.Narrow(raw)
	out := make([]string, 0, len(e.candidates))
	for _, s := range e.candidates {
		if c, ok := s.Apply(working); ok {
			out = append(out, c)
		}
	}
	return out
}

// Extract returns the first candidate that decodes as JSON. Objects decode
// to map[string]any and arrays to []any. Numbers decode to float64, except
// integers too large for a float64 to hold exactly, which stay json.Number.
func (e *Extractor) Extract(raw string) (any, error) {
	var v any
	if err := e.extract(raw, &v, true); err != nil {
		return nil, err
	}
	return exactNumbers(v), nil
}

// ExtractInto decodes the first matching candidate into target, which must
// be a non-nil pointer. Each attempt decodes into a fresh value; target is
// written only on success. A bare null is not a payload and fails like
// unparseable text.
func (e *Extractor) ExtractInto(raw string, target any) error {
	return e.extract(raw, target, false)
}

func (e *Extractor) extract(raw string, target any, useNumber bool) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	elemType := rv.Elem().Type()

	working := e.Narrow(raw)
	var firstErr error
	for _, s := range e.candidates {
		candidate, ok := s.Apply(working)
		if !ok {
			continue
		}
		fresh := reflect.New(elemType)
		err := decode(candidate, fresh.Interface(), useNumber)
		if err == nil {
			rv.Elem().Set(fresh.Elem())
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return &ParseError{Snippet: truncateRunes(working, e.snippetLen), Err: firstErr}
}

func decode(candidate string, v any, useNumber bool) error {
	if strings.TrimSpace(candidate) == "null" {
		return ErrNullValue
	}
	if !useNumber {
		return json.Unmarshal([]byte(candidate), v)
	}
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if rest := strings.TrimSpace(candidate[dec.InputOffset():]); rest != "" {
		return fmt.Errorf("invalid character %q after top-level value", rest[0])
	}
	return nil
}

// maxExactInt is the largest integer magnitude a float64 holds exactly.
const maxExactInt = 1 << 53

// exactNumbers turns json.Number values into float64 unless that would
// lose integer precision.
func exactNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			i, err := t.Int64()
			if err != nil || i > maxExactInt || i < -maxExactInt {
				return t
			}
		}
		if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) {
			return f
		}
		return t
	case map[string]any:
		for k, x := range t {
			t[k] = exactNumbers(x)
		}
	case []any:
		for i, x := range t {
			t[i] = exactNumbers(x)
		}
	}
	return v
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

var defaultExtractor = NewExtractor()

// Extract is a convenience function using the default extractor.
func Extract(raw string) (any, error) {
	return defaultExtractor.Extract(raw)
}

// ExtractInto is a convenience function using the default extractor.
func ExtractInto(raw string, target any) error {
	return defaultExtractor.ExtractInto(raw, target)
}
