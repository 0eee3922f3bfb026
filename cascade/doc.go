// Package cascade dispatches prompts across an ordered list of models.
//
// A Dispatcher tries each configured model in turn, one call at a time.
// A success ends the dispatch. A rate-limited failure moves on to the next
// model; any other failure ends the dispatch immediately and is returned
// untouched. When every model in a round has been rate limited the
// dispatcher waits RetryDelay and starts again from the first model, up to
// MaxRetries extra rounds. If the last round also fails, the most recent
// rate-limited error is returned as is.
//
// The number of calls per dispatch is therefore bounded by
// len(Models) * (1 + MaxRetries).
//
// # Usage
//
//	d, err := cascade.New(client, cascade.DefaultConfig(),
//	    cascade.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	text, err := d.GenerateText(ctx, "Suggest a sowing window for wheat in Punjab.")
//
// # Hooks
//
// Every transition is also emitted as a capitan signal (see hooks.go) so
// callers can observe quota pressure without parsing logs.
package cascade
