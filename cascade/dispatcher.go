package cascade

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"

	"github.com/neer-farm/neer/model"
	"github.com/neer-farm/neer/provider"
	"github.com/neer-farm/neer/ratelimit"
	"github.com/neer-farm/neer/tokens"
)

// ErrNilClient is returned by New when no client is supplied.
var ErrNilClient = errors.New("cascade requires a provider client")

// Dispatcher runs prompts through the model cascade.
// A Dispatcher holds only read-only configuration and is safe for
// concurrent use; every dispatch owns its own state.
type Dispatcher struct {
	client     provider.Client
	models     []string
	maxRetries int
	retryDelay time.Duration

	classifier *ratelimit.Classifier
	sleeper    Sleeper
	logger     *slog.Logger
	observer   func(Transition)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClassifier sets the rate-limit classifier.
func WithClassifier(c *ratelimit.Classifier) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.classifier = c
		}
	}
}

// WithSleeper sets the primitive used to wait between rounds.
func WithSleeper(s Sleeper) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.sleeper = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithObserver registers fn to receive every state transition.
// fn runs synchronously on the dispatching goroutine.
func WithObserver(fn func(Transition)) Option {
	return func(d *Dispatcher) { d.observer = fn }
}

// Transition describes one step of a dispatch.
type Transition struct {
	DispatchID string
	From       State
	To         State
	Model      string
	Round      int
	Attempt    int
}

// Result is the outcome of a successful dispatch.
type Result struct {
	// Text is the model output with surrounding whitespace removed.
	Text string

	// Model is the model that answered.
	Model string

	// Attempts is the number of calls made, including the successful one.
	Attempts int

	// Round is the zero-based round the answer came from.
	Round int

	// Usage is the token usage reported for the successful call.
	Usage provider.TokenUsage
}

// New creates a Dispatcher. The model list is copied.
func New(client provider.Client, cfg Config, opts ...Option) (*Dispatcher, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		client:     client,
		models:     append([]string(nil), cfg.Models...),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		classifier: ratelimit.NewClassifier(),
		sleeper:    TimerSleeper{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Models returns a copy of the cascade order.
func (d *Dispatcher) Models() []string {
	return append([]string(nil), d.models...)
}

// MaxAttempts returns the upper bound on calls for one dispatch.
func (d *Dispatcher) MaxAttempts() int {
	return len(d.models) * (1 + d.maxRetries)
}

// GenerateText dispatches a text-only prompt and returns the model's text.
func (d *Dispatcher) GenerateText(ctx context.Context, prompt string) (string, error) {
	res, err := d.Dispatch(ctx, provider.NewTextRequest("", prompt))
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateWithAttachment dispatches a prompt with one binary attachment
// (typically an image) and returns the model's text.
func (d *Dispatcher) GenerateWithAttachment(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	res, err := d.Dispatch(ctx, provider.NewAttachmentRequest("", prompt, data, mimeType))
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Dispatch runs req through the cascade. req.Model is ignored; each attempt
// addresses the model selected by the cascade.
//
// On failure the returned error is exactly the error the client produced:
// the first non-rate-limited error, or the last rate-limited one once every
// round is spent. A context cancelled while waiting between rounds returns
// ctx.Err().
func (d *Dispatcher) Dispatch(ctx context.Context, req provider.Request) (*Result, error) {
	r := &run{
		d:       d,
		ctx:     ctx,
		id:      uuid.New().String(),
		req:     req,
		started: time.Now(),
		tokens:  tokens.EstimateRequest(req.Prompt, req.HasAttachment()),
	}

	d.logger.Debug("cascade dispatch started",
		slog.String("dispatch_id", r.id),
		slog.Int("models", len(d.models)),
		slog.Int("max_attempts", d.MaxAttempts()),
		slog.Int("estimated_tokens", r.tokens),
		slog.Bool("attachment", req.HasAttachment()),
	)

	for !r.state.Terminal() {
		r.step()
	}

	if r.state == StateFailed {
		return nil, r.err
	}
	return r.result, nil
}

// run is the state of a single dispatch.
type run struct {
	d   *Dispatcher
	ctx context.Context

	id      string
	req     provider.Request
	started time.Time
	tokens  int

	state    State
	index    int
	round    int
	attempts int
	model    string

	lastRateLimited error
	err             error
	result          *Result
}

func (r *run) step() {
	switch r.state {
	case StateSelecting:
		r.model = r.d.models[r.index]
		r.attempts++
		if limit := tokens.GetModelLimit(r.model); r.tokens > limit {
			r.d.logger.Warn("prompt may exceed model context",
				slog.String("dispatch_id", r.id),
				slog.String("model", r.model),
				slog.Int("estimated_tokens", r.tokens),
				slog.Int("limit", limit),
			)
		}
		r.d.logger.Debug("calling model",
			slog.String("dispatch_id", r.id),
			slog.String("model", r.model),
			slog.String("tier", model.TierForModel(model.ModelName(r.model)).String()),
			slog.Int("attempt", r.attempts),
		)
		capitan.Info(r.ctx, AttemptStarted,
			DispatchIDKey.Field(r.id),
			ModelKey.Field(r.model),
			RoundKey.Field(r.round),
			AttemptKey.Field(r.attempts),
		)
		r.transition(StateAwaiting)

	case StateAwaiting:
		r.await()

	case StateRoundExhausted:
		if r.round < r.d.maxRetries {
			r.transition(StateWaiting)
			return
		}
		r.fail(r.lastRateLimited)

	case StateWaiting:
		r.d.logger.Warn("all models rate limited, retrying cascade",
			slog.String("dispatch_id", r.id),
			slog.Int("round", r.round+1),
			slog.Int("max_retries", r.d.maxRetries),
			slog.Duration("delay", r.d.retryDelay),
		)
		if err := r.d.sleeper.Sleep(r.ctx, r.d.retryDelay); err != nil {
			r.fail(err)
			return
		}
		r.index = 0
		r.round++
		r.transition(StateSelecting)
	}
}

func (r *run) await() {
	resp, err := r.d.client.Complete(r.ctx, r.req.WithModel(r.model))
	if err == nil {
		r.succeed(resp)
		return
	}

	if !r.d.classifier.IsRateLimited(err) {
		r.d.logger.Debug("model call failed",
			slog.String("dispatch_id", r.id),
			slog.String("model", r.model),
			slog.Any("error", err),
		)
		r.fail(err)
		return
	}

	r.lastRateLimited = err
	r.d.logger.Warn("model rate limited, trying next",
		slog.String("dispatch_id", r.id),
		slog.String("model", r.model),
		slog.Int("round", r.round),
		slog.Any("error", err),
	)
	capitan.Info(r.ctx, AttemptRateLimited,
		DispatchIDKey.Field(r.id),
		ModelKey.Field(r.model),
		RoundKey.Field(r.round),
		AttemptKey.Field(r.attempts),
		ErrorKey.Field(err.Error()),
	)

	r.index++
	if r.index < len(r.d.models) {
		r.transition(StateSelecting)
		return
	}
	capitan.Info(r.ctx, RoundExhausted,
		DispatchIDKey.Field(r.id),
		RoundKey.Field(r.round),
		AttemptKey.Field(r.attempts),
	)
	r.transition(StateRoundExhausted)
}

func (r *run) succeed(resp *provider.Response) {
	res := &Result{
		Model:    r.model,
		Attempts: r.attempts,
		Round:    r.round,
	}
	if resp != nil {
		res.Text = strings.TrimSpace(resp.Content)
		res.Usage = resp.Usage
	}
	r.result = res

	elapsed := time.Since(r.started)
	r.d.logger.Debug("cascade dispatch succeeded",
		slog.String("dispatch_id", r.id),
		slog.String("model", r.model),
		slog.Int("attempts", r.attempts),
		slog.Duration("elapsed", elapsed),
	)
	capitan.Info(r.ctx, DispatchCompleted,
		DispatchIDKey.Field(r.id),
		ModelKey.Field(r.model),
		RoundKey.Field(r.round),
		AttemptKey.Field(r.attempts),
		DurationMsKey.Field(int(elapsed.Milliseconds())),
	)
	r.transition(StateSucceeded)
}

func (r *run) fail(err error) {
	r.err = err
	elapsed := time.Since(r.started)
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	capitan.Error(r.ctx, DispatchFailed,
		DispatchIDKey.Field(r.id),
		ModelKey.Field(r.model),
		RoundKey.Field(r.round),
		AttemptKey.Field(r.attempts),
		ErrorKey.Field(msg),
		DurationMsKey.Field(int(elapsed.Milliseconds())),
	)
	r.transition(StateFailed)
}

func (r *run) transition(to State) {
	from := r.state
	r.state = to
	if r.d.observer != nil {
		r.d.observer(Transition{
			DispatchID: r.id,
			From:       from,
			To:         to,
			Model:      r.model,
			Round:      r.round,
			Attempt:    r.attempts,
		})
	}
}
