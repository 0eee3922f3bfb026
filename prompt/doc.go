// Package prompt renders the instruction text sent to models.
//
// Prompts are Go text/template sources registered under a name and
// rendered with a data value, usually a struct owned by the pipeline that
// builds the prompt:
//
//	engine := prompt.NewEngine()
//	engine.MustRegister("advisory", advisoryTemplate)
//	text, err := engine.Render("advisory", advisoryData{City: "Jaipur"})
//
// # Built-in Functions
//
//   - json(v any) string - Compact JSON encoding
//   - upper(s string) string, lower(s string) string, trim(s string) string
//   - join(items []string, sep string) string
//   - first(n int, items []string) []string - Leading n items
//   - truncate(s string, maxRunes int) string - Cut with ellipsis
//   - default(val, defaultVal any) any - Fallback for nil or ""
//   - indent(s string, spaces int) string
//   - bullets(items []string) string - One "  • item" line per entry
//
// Schema renders a JSON Schema for a response type so prompts can state the
// exact shape the parser will decode.
package prompt
