package gemini

import "github.com/zoobzio/capitan"

// Signals for hook events.
var (
	CallStarted   = capitan.NewSignal("gemini.call.started", "Gemini request sent")
	CallCompleted = capitan.NewSignal("gemini.call.completed", "Gemini request completed")
	CallFailed    = capitan.NewSignal("gemini.call.failed", "Gemini request failed")
)

// Keys for hook event fields.
var (
	ModelKey          = capitan.NewStringKey("gemini.model")
	HTTPStatusCodeKey = capitan.NewIntKey("gemini.http.status.code")
	APIStatusKey      = capitan.NewStringKey("gemini.api.status")
	ErrorKey          = capitan.NewStringKey("gemini.error")
	DurationMsKey     = capitan.NewIntKey("gemini.duration.ms")

	PromptTokensKey     = capitan.NewIntKey("gemini.tokens.prompt")
	CompletionTokensKey = capitan.NewIntKey("gemini.tokens.completion")
	TotalTokensKey      = capitan.NewIntKey("gemini.tokens.total")
	FinishReasonKey     = capitan.NewStringKey("gemini.finish.reason")
)
