// Package neer is the model layer behind the NEER farmer assistant.
//
// The module sends every prompt through one cascade of Gemini models. A
// rate-limited model is skipped in favour of the next one; when the whole
// list is rate-limited the cascade waits and starts over. Any other failure
// is returned as is. The farmer-facing pipelines sit on top of it:
//
//   - cascade: model cascade (the only component that calls a model)
//   - gemini: Generative Language REST client implementing provider.Client
//   - parser: pulls the JSON payload out of free-form model replies
//   - prompt: text/template rendering and JSON Schemas for prompts
//   - cropdoctor: two-step crop disease diagnosis from a photo
//   - schemes: government scheme eligibility and ranking
//   - weather: rule-based farm alerts and a daily advisory
//   - advisor: chat, crop calendars and hourly farm schedules
//   - config, app: file and environment configuration and wiring
//
// # Quick Start
//
//	cfg, err := config.Load("neer.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, err := app.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	diag, err := a.Doctor.Diagnose(ctx, cropdoctor.Input{
//	    Image:    photo,
//	    MIMEType: "image/jpeg",
//	    State:    "Punjab",
//	})
package neer
