package prompt

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

// Engine compiles and renders named prompt templates.
// Register and Render may be called concurrently.
type Engine struct {
	mu        sync.RWMutex
	funcs     template.FuncMap
	templates map[string]*template.Template
}

// NewEngine creates a new engine with the default helper functions.
func NewEngine() *Engine {
	return &Engine{
		funcs:     defaultFuncs(),
		templates: make(map[string]*template.Template),
	}
}

// AddFunc adds a helper function. It applies to templates registered
// afterwards.
func (e *Engine) AddFunc(name string, fn any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.funcs[name] = fn
}

// Register parses text and stores it under name, replacing any previous
// template with that name.
func (e *Engine) Register(name, text string) error {
	tmpl, err := e.parse(name, text)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[name] = tmpl
	return nil
}

// MustRegister is Register that panics on error. Intended for package-level
// template constants.
func (e *Engine) MustRegister(name, text string) {
	if err := e.Register(name, text); err != nil {
		panic(fmt.Sprintf("prompt.MustRegister(%q): %v", name, err))
	}
}

// Render executes the named template with data.
func (e *Engine) Render(name string, data any) (string, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return execute(tmpl, data)
}

// RenderString parses and executes text in one step.
func (e *Engine) RenderString(text string, data any) (string, error) {
	tmpl, err := e.parse("inline", text)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data)
}

// Names returns the registered template names in sorted order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) parse(name, text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}

	e.mu.RLock()
	funcs := make(template.FuncMap, len(e.funcs))
	for k, v := range e.funcs {
		funcs[k] = v
	}
	e.mu.RUnlock()

	tmpl, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecute, err)
	}
	return buf.String(), nil
}
