package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns an indented JSON Schema describing v's type. Definitions
// are inlined so the result can be pasted into a prompt as is.
func Schema(v any) (string, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Anonymous:      true,
	}
	s := r.Reflect(v)
	s.Version = ""

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(b), nil
}

// MustSchema is Schema that panics on error.
func MustSchema(v any) string {
	s, err := Schema(v)
	if err != nil {
		panic(err)
	}
	return s
}
