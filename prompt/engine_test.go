package prompt

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RenderString(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		tmpl string
		data any
		want string
	}{
		{
			name: "struct field",
			tmpl: "Crop: {{.Crop}}",
			data: struct{ Crop string }{"Wheat"},
			want: "Crop: Wheat",
		},
		{
			name: "map access",
			tmpl: "{{.state}}, India",
			data: map[string]any{"state": "Punjab"},
			want: "Punjab, India",
		},
		{
			name: "conditional",
			tmpl: "{{if .Hint}}Crop is {{.Hint}}.{{else}}No hint.{{end}}",
			data: struct{ Hint string }{""},
			want: "No hint.",
		},
		{
			name: "range",
			tmpl: "{{range .}}[{{.}}]{{end}}",
			data: []string{"a", "b"},
			want: "[a][b]",
		},
		{
			name: "nil data",
			tmpl: "static",
			data: nil,
			want: "static",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.RenderString(tt.tmpl, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Errors(t *testing.T) {
	e := NewEngine()

	_, err := e.RenderString("", nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = e.RenderString("  \n ", nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = e.RenderString("{{if}}", nil)
	assert.ErrorIs(t, err, ErrParse)

	_, err = e.RenderString("{{.Missing}}", struct{}{})
	assert.ErrorIs(t, err, ErrExecute)

	_, err = e.Render("never-registered", nil)
	assert.ErrorIs(t, err, ErrUnknown)

	assert.ErrorIs(t, e.Register("bad", "{{end}}"), ErrParse)
}

func TestEngine_RegisterAndRender(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Register("greet", "Hello, {{.}}!"))
	require.NoError(t, e.Register("bye", "Bye, {{.}}."))

	got, err := e.Render("greet", "Kisan")
	require.NoError(t, err)
	assert.Equal(t, "Hello, Kisan!", got)

	// Re-registering replaces.
	require.NoError(t, e.Register("greet", "Namaste, {{.}}!"))
	got, err = e.Render("greet", "Kisan")
	require.NoError(t, err)
	assert.Equal(t, "Namaste, Kisan!", got)

	assert.Equal(t, []string{"bye", "greet"}, e.Names())
}

func TestEngine_MustRegisterPanics(t *testing.T) {
	e := NewEngine()
	assert.Panics(t, func() { e.MustRegister("bad", "{{if}}") })
	assert.NotPanics(t, func() { e.MustRegister("ok", "fine") })
}

func TestEngine_AddFunc(t *testing.T) {
	e := NewEngine()
	e.AddFunc("double", func(s string) string { return s + s })

	got, err := e.RenderString(`{{double "ha"}}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "haha", got)
}

func TestEngine_ConcurrentRender(t *testing.T) {
	e := NewEngine()
	e.MustRegister("n", "{{.}}")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := e.Render("n", i)
			assert.NoError(t, err)
			assert.NotEmpty(t, got)
		}(i)
	}
	wg.Wait()
}

// =============================================================================
// Function Tests
// =============================================================================

func TestFuncs(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		tmpl string
		data any
		want string
	}{
		{"json", "{{json .}}", []string{"yellow spots", "wilting"}, `["yellow spots","wilting"]`},
		{"upper", "{{upper .}}", "irrigation", "IRRIGATION"},
		{"lower", "{{lower .}}", "PUNJAB", "punjab"},
		{"trim", "[{{trim .}}]", "  x  ", "[x]"},
		{"join", `{{join . "; "}}`, []string{"a", "b", "c"}, "a; b; c"},
		{"first", `{{join (first 2 .) "; "}}`, []string{"a", "b", "c"}, "a; b"},
		{"first more than len", `{{join (first 5 .) ","}}`, []string{"a"}, "a"},
		{"truncate", "{{truncate . 8}}", "abcdefghijkl", "abcde..."},
		{"truncate short", "{{truncate . 8}}", "abc", "abc"},
		{"default empty", `{{default . "Unknown"}}`, "", "Unknown"},
		{"default set", `{{default . "Unknown"}}`, "Rice", "Rice"},
		{"indent", "{{indent . 2}}", "a\nb", "  a\n  b"},
		{"bullets", "{{bullets .}}", []string{"Rust", "Blight"}, "  • Rust\n  • Blight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.RenderString(tt.tmpl, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate_Runes(t *testing.T) {
	assert.Equal(t, "पा", truncate("पाला", 2))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "", truncate("abc", -1))
}

func TestFirst_Negative(t *testing.T) {
	assert.Empty(t, first(-1, []string{"a"}))
}

// =============================================================================
// Schema Tests
// =============================================================================

type sampleResponse struct {
	Name       string   `json:"name"`
	Confidence int      `json:"confidence_percentage"`
	Symptoms   []string `json:"symptoms"`
	Note       string   `json:"note,omitempty"`
}

func TestSchema(t *testing.T) {
	s, err := Schema(sampleResponse{})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &doc))

	assert.Equal(t, "object", doc["type"])
	assert.NotContains(t, doc, "$schema")
	assert.NotContains(t, doc, "$ref")
	assert.NotContains(t, doc, "$id")

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "confidence_percentage")
	assert.Contains(t, props, "symptoms")

	required, ok := doc["required"].([]any)
	require.True(t, ok)
	assert.Contains(t, required, "name")
	assert.NotContains(t, required, "note")

	assert.True(t, strings.Contains(s, "\n  "), "schema should be indented")
}

func TestMustSchema(t *testing.T) {
	assert.NotPanics(t, func() { MustSchema(sampleResponse{}) })
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{ErrEmpty, ErrParse, ErrExecute, ErrUnknown}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b))
			}
		}
	}
}
