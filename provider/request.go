package provider

import "time"

// Request is one prompt addressed to one model.
// A Request is treated as immutable once built; the cascade reuses the same
// value for every model it tries.
type Request struct {
	// Model is the provider-specific model name (e.g., "gemini-2.0-flash").
	Model string `json:"model"`

	// Prompt is the text instruction sent to the model.
	Prompt string `json:"prompt"`

	// Attachment is an optional binary payload sent alongside the prompt.
	// At most one attachment is supported.
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Attachment is a binary payload with its MIME type label.
type Attachment struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// NewTextRequest creates a text-only request.
func NewTextRequest(model, prompt string) Request {
	return Request{Model: model, Prompt: prompt}
}

// NewAttachmentRequest creates a request carrying one binary attachment.
func NewAttachmentRequest(model, prompt string, data []byte, mimeType string) Request {
	return Request{
		Model:      model,
		Prompt:     prompt,
		Attachment: &Attachment{Data: data, MIMEType: mimeType},
	}
}

// HasAttachment reports whether the request carries binary data.
func (r Request) HasAttachment() bool {
	return r.Attachment != nil
}

// WithModel returns a copy of the request addressed to another model.
// The attachment is shared, not copied; callers must not mutate it.
func (r Request) WithModel(model string) Request {
	r.Model = model
	return r
}

// Response is the output of a completion call.
type Response struct {
	// Content is the text response from the model.
	Content string `json:"content"`

	// Model is the model that produced the response.
	Model string `json:"model"`

	// FinishReason is the provider's stop reason, if reported.
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage tracks token consumption for this request.
	Usage TokenUsage `json:"usage"`

	// Duration is the time taken for the completion.
	Duration time.Duration `json:"duration"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add combines token usage from another TokenUsage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}
