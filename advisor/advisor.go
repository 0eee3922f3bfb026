package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/neer-farm/neer/parser"
	"github.com/neer-farm/neer/prompt"
	"github.com/neer-farm/neer/ratelimit"
	"github.com/neer-farm/neer/truncate"
)

// Hindi selects Hindi answers where a language note is used.
const Hindi = "Hindi"

// MaxContextTokens bounds the chat context pasted into the prompt.
const MaxContextTokens = 1500

// TextGenerator is the model surface an Advisor needs. *cascade.Dispatcher
// satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Advisor runs the single-call assistants. Safe for concurrent use.
type Advisor struct {
	gen        TextGenerator
	cache      Cache
	prompts    *prompt.Engine
	extractor  *parser.Extractor
	classifier *ratelimit.Classifier
	truncator  *truncate.Truncator
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithCache sets the crop calendar cache. Default: a MemoryCache.
func WithCache(c Cache) Option {
	return func(a *Advisor) {
		if c != nil {
			a.cache = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Advisor) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock sets the time source for calendar timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) {
		if now != nil {
			a.now = now
		}
	}
}

// WithClassifier sets the classifier used to report ErrBusy.
func WithClassifier(c *ratelimit.Classifier) Option {
	return func(a *Advisor) {
		if c != nil {
			a.classifier = c
		}
	}
}

// New creates an Advisor.
func New(gen TextGenerator, opts ...Option) *Advisor {
	a := &Advisor{
		gen:        gen,
		cache:      NewMemoryCache(),
		prompts:    prompt.NewEngine(),
		extractor:  parser.NewExtractor(),
		classifier: ratelimit.NewClassifier(),
		truncator:  truncate.New(truncate.KeepEnds),
		logger:     slog.Default(),
		now:        time.Now,
	}
	a.prompts.AddFunc("opt", optional)
	a.prompts.AddFunc("num", num)
	a.prompts.MustRegister(chatPrompt, chatTemplate)
	a.prompts.MustRegister(calendarPrompt, calendarTemplate)
	a.prompts.MustRegister(farmPrompt, farmTemplate)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ChatRequest is one chat turn.
type ChatRequest struct {
	Message string `json:"message"`

	// Context is text the user was just looking at, such as scheme results.
	Context string `json:"context,omitempty"`
}

// Chat answers a free-form question.
func (a *Advisor) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}
	if c, cut := a.truncator.Truncate(req.Context, MaxContextTokens); cut {
		a.logger.Debug("chat context truncated", slog.Int("max_tokens", MaxContextTokens))
		req.Context = c
	}
	text, err := a.prompts.Render(chatPrompt, req)
	if err != nil {
		return "", err
	}
	out, err := a.gen.GenerateText(ctx, text)
	if err != nil {
		return "", a.wrap("chat", err)
	}
	return out, nil
}

// wrap adds ErrBusy to rate-limit failures so callers can tell the user to
// wait.
func (a *Advisor) wrap(op string, err error) error {
	if a.classifier.IsRateLimited(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrBusy, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func languageNote(lang string) string {
	if lang == Hindi {
		return "Respond in Hindi."
	}
	return "Respond in English."
}

// optional renders a missing number as n/a.
func optional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return num(*v)
}
