package cascade

import "github.com/zoobzio/capitan"

// Signals emitted during a dispatch.
var (
	AttemptStarted     = capitan.NewSignal("cascade.attempt.started", "Model call started")
	AttemptRateLimited = capitan.NewSignal("cascade.attempt.rate_limited", "Model rate limited, trying next")
	RoundExhausted     = capitan.NewSignal("cascade.round.exhausted", "Every model in the round was rate limited")
	DispatchCompleted  = capitan.NewSignal("cascade.dispatch.completed", "Dispatch answered")
	DispatchFailed     = capitan.NewSignal("cascade.dispatch.failed", "Dispatch failed")
)

// Keys for hook event fields.
var (
	DispatchIDKey = capitan.NewStringKey("cascade.dispatch.id")
	ModelKey      = capitan.NewStringKey("cascade.model")
	RoundKey      = capitan.NewIntKey("cascade.round")
	AttemptKey    = capitan.NewIntKey("cascade.attempt")
	ErrorKey      = capitan.NewStringKey("cascade.error")
	DurationMsKey = capitan.NewIntKey("cascade.duration.ms")
)
