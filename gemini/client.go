package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/neer-farm/neer/model"
	"github.com/neer-farm/neer/provider"
)

const (
	providerName = "gemini"
	opComplete   = "complete"

	// maxErrorBody bounds how much of an error body is read.
	maxErrorBody = 4 << 10
)

// Client implements provider.Client using the Gemini REST API.
// A Client is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	keyInQuery bool
	userAgent  string

	responseMIMEType string
	temperature      *float64

	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures Client.
type Option func(*Client)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL sets the API root (useful for tests and proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithAPIKeyInQuery sends the key as a query parameter instead of a header.
func WithAPIKeyInQuery() Option {
	return func(c *Client) { c.keyInQuery = true }
}

// WithResponseMIMEType requests a specific response type, e.g. "application/json".
func WithResponseMIMEType(mime string) Option {
	return func(c *Client) { c.responseMIMEType = mime }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = &t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Gemini REST client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig validates cfg and creates a client from it.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(append(cfg.ToOptions(), opts...)...), nil
}

// Provider returns the provider name.
// Implements provider.Client.
func (c *Client) Provider() string {
	return providerName
}

// Close releases idle connections.
// Implements provider.Client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Complete sends one generateContent request to req.Model.
// Implements provider.Client.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	modelName := string(model.NormalizeModelName(req.Model))
	if modelName == "" {
		return nil, c.newError(modelName, 0, "", fmt.Errorf("%w: model is required", provider.ErrInvalidRequest), false)
	}
	if c.apiKey == "" {
		return nil, c.newError(modelName, 0, "", fmt.Errorf("%w: api key is required", provider.ErrAuth), false)
	}

	start := time.Now()
	capitan.Info(ctx, CallStarted, ModelKey.Field(modelName))

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, c.newError(modelName, 0, "", fmt.Errorf("marshal request: %w", err), false)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(modelName), bytes.NewReader(body))
	if err != nil {
		return nil, c.newError(modelName, 0, "", fmt.Errorf("%w: %v", provider.ErrInvalidRequest, err), false)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if !c.keyInQuery {
		httpReq.Header.Set("x-goog-api-key", c.apiKey)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("gemini request",
		slog.String("model", modelName),
		slog.Int("prompt_chars", len(req.Prompt)),
		slog.Bool("attachment", req.HasAttachment()),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.emitFailed(ctx, modelName, 0, "", ctxErr, start)
			return nil, ctxErr
		}
		perr := c.newError(modelName, 0, "", fmt.Errorf("request failed: %w", err), true)
		c.emitFailed(ctx, modelName, 0, "", perr, start)
		return nil, perr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		perr := c.statusError(modelName, resp)
		c.emitFailed(ctx, modelName, resp.StatusCode, perr.Status, perr, start)
		return nil, perr
	}

	var gr generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		perr := c.newError(modelName, resp.StatusCode, "", fmt.Errorf("decode response: %w", err), false)
		c.emitFailed(ctx, modelName, resp.StatusCode, "", perr, start)
		return nil, perr
	}

	text, ok := gr.text()
	if !ok {
		reason := "no candidates"
		if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
			reason = "blocked: " + gr.PromptFeedback.BlockReason
		} else if len(gr.Candidates) > 0 && gr.Candidates[0].FinishReason != "" {
			reason = "finish reason " + gr.Candidates[0].FinishReason
		}
		perr := c.newError(modelName, resp.StatusCode, "", fmt.Errorf("%w: %s", provider.ErrEmptyResponse, reason), false)
		c.emitFailed(ctx, modelName, resp.StatusCode, "", perr, start)
		return nil, perr
	}

	out := &provider.Response{
		Content: text,
		Model:   modelName,
		Usage: provider.TokenUsage{
			InputTokens:  gr.UsageMetadata.PromptTokenCount,
			OutputTokens: gr.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  gr.UsageMetadata.TotalTokenCount,
		},
		Duration: time.Since(start),
	}
	if len(gr.Candidates) > 0 {
		out.FinishReason = gr.Candidates[0].FinishReason
	}

	fields := []capitan.Field{
		ModelKey.Field(modelName),
		HTTPStatusCodeKey.Field(resp.StatusCode),
		PromptTokensKey.Field(out.Usage.InputTokens),
		CompletionTokensKey.Field(out.Usage.OutputTokens),
		TotalTokensKey.Field(out.Usage.TotalTokens),
		DurationMsKey.Field(int(out.Duration.Milliseconds())),
	}
	if out.FinishReason != "" {
		fields = append(fields, FinishReasonKey.Field(out.FinishReason))
	}
	capitan.Info(ctx, CallCompleted, fields...)

	return out, nil
}

func (c *Client) buildRequest(req provider.Request) generateContentRequest {
	parts := []part{{Text: req.Prompt}}
	if req.HasAttachment() {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: req.Attachment.MIMEType,
			Data:     req.Attachment.Data,
		}})
	}

	gr := generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	}
	if c.responseMIMEType != "" || c.temperature != nil {
		gr.GenerationConfig = &generationConfig{
			Temperature:      c.temperature,
			ResponseMIMEType: c.responseMIMEType,
		}
	}
	return gr
}

func (c *Client) endpoint(modelName string) string {
	u := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(modelName))
	if c.keyInQuery {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	return u
}

// statusError maps a non-200 response onto the provider error taxonomy.
func (c *Client) statusError(modelName string, resp *http.Response) *provider.Error {
	slurp, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var er errorResponse
	msg := strings.TrimSpace(string(slurp))
	status := ""
	if err := json.Unmarshal(slurp, &er); err == nil && er.Error.Message != "" {
		msg = er.Error.Message
		status = er.Error.Status
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	var sentinel error
	retryable := false
	switch {
	case resp.StatusCode == http.StatusTooManyRequests || strings.EqualFold(status, "RESOURCE_EXHAUSTED"):
		sentinel, retryable = provider.ErrRateLimited, true
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		sentinel = provider.ErrAuth
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		sentinel = provider.ErrInvalidRequest
	case resp.StatusCode >= 500:
		sentinel, retryable = provider.ErrUnavailable, true
	}

	var err error
	if sentinel != nil {
		err = fmt.Errorf("%w: %s", sentinel, msg)
	} else {
		err = errors.New(msg)
	}
	return c.newError(modelName, resp.StatusCode, status, err, retryable)
}

func (c *Client) newError(modelName string, code int, status string, err error, retryable bool) *provider.Error {
	return &provider.Error{
		Provider:   providerName,
		Op:         opComplete,
		Model:      modelName,
		StatusCode: code,
		Status:     status,
		Err:        err,
		Retryable:  retryable,
	}
}

func (c *Client) emitFailed(ctx context.Context, modelName string, code int, status string, err error, start time.Time) {
	fields := []capitan.Field{
		ModelKey.Field(modelName),
		ErrorKey.Field(err.Error()),
		DurationMsKey.Field(int(time.Since(start).Milliseconds())),
	}
	if code != 0 {
		fields = append(fields, HTTPStatusCodeKey.Field(code))
	}
	if status != "" {
		fields = append(fields, APIStatusKey.Field(status))
	}
	capitan.Error(ctx, CallFailed, fields...)
}
