package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/neer-farm/neer/prompt"
)

// Agent step names recorded in Result.AgentSteps.
const (
	StepFetch    = "fetch_weather"
	StepAlerts   = "farming_alerts"
	StepAdvisory = "ai_advisory"
)

var (
	// ErrNoSource is returned by Advise when the Scout has no forecast Source.
	ErrNoSource = errors.New("no weather source configured")

	// ErrEmptyForecast is returned for a forecast without daily entries.
	ErrEmptyForecast = errors.New("forecast has no daily entries")
)

// TextGenerator is the model surface a Scout needs. *cascade.Dispatcher
// satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Request describes where and for whom to advise.
type Request struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Language string `json:"lang"`
	CropType string `json:"crop_type,omitempty"`
}

// SeasonInfo summarises the current season.
type SeasonInfo struct {
	Name            string   `json:"name"`
	Label           string   `json:"label"`
	Crops           []string `json:"crops"`
	CurrentActivity string   `json:"current_activity"`
}

// Result is returned by Scout.Advise.
type Result struct {
	AgentSteps []string   `json:"agent_steps"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	Current    Current    `json:"current"`
	Forecast   []Day      `json:"forecast"`
	Alerts     []Alert    `json:"alerts"`
	Season     SeasonInfo `json:"season"`
	Advisory   string     `json:"advisory"`

	// Fallback is set when the advisory is the fixed sentence.
	Fallback bool `json:"fallback"`
}

// Scout runs the weather pipeline. Safe for concurrent use.
type Scout struct {
	gen      TextGenerator
	calendar *Calendar
	source   Source
	prompts  *prompt.Engine
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Scout.
type Option func(*Scout)

// WithSource sets the forecast source used by Advise.
func WithSource(src Source) Option {
	return func(s *Scout) { s.source = src }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scout) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used to pick the season.
func WithClock(now func() time.Time) Option {
	return func(s *Scout) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScout creates a Scout. A nil calendar behaves as an empty one.
func NewScout(gen TextGenerator, cal *Calendar, opts ...Option) *Scout {
	if cal == nil {
		cal = &Calendar{}
	}
	s := &Scout{
		gen:      gen,
		calendar: cal,
		prompts:  prompt.NewEngine(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	s.prompts.AddFunc("num", num)
	s.prompts.MustRegister(advisoryPrompt, advisoryTemplate)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Advise fetches the forecast for req and runs AdviseForecast on it.
func (s *Scout) Advise(ctx context.Context, req Request) (*Result, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	city, at := s.calendar.Locate(req.City, req.State)
	f, err := s.source.Fetch(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("could not fetch weather data for %s: %w", city, err)
	}
	res, err := s.AdviseForecast(ctx, req, f)
	if err != nil {
		return nil, err
	}
	res.AgentSteps = append([]string{StepFetch}, res.AgentSteps...)
	return res, nil
}

// AdviseForecast derives alerts, the season and an advisory from f. Only
// a forecast with no daily entries is an error; a failed advisory call
// yields the fallback sentence.
func (s *Scout) AdviseForecast(ctx context.Context, req Request, f Forecast) (*Result, error) {
	if len(f.Daily) == 0 {
		return nil, ErrEmptyForecast
	}
	f.Daily = append([]Day(nil), f.Daily...)
	f.Annotate()
	tomorrow, _ := f.Tomorrow()

	lang := req.Language
	if lang == "" {
		lang = "English"
	}
	city, _ := s.calendar.Locate(req.City, req.State)

	alerts := Alerts(f, s.calendar, lang)
	steps := []string{StepAlerts}
	s.logger.Debug("farming alerts generated",
		slog.String("city", city),
		slog.Int("alerts", len(alerts)))

	month := int(s.now().Month())
	name, season := s.calendar.CurrentSeason(month)
	activity := season.Activity(month)

	steps = append(steps, StepAdvisory)
	advisory, fallback := s.advisory(ctx, advisoryData{
		City:     city,
		State:    req.State,
		Current:  f.Current,
		Tomorrow: tomorrow,
		Alerts:   alerts,
		Season:   season.Label,
		Activity: activity,
		CropType: req.CropType,
		Language: lang,
	})

	return &Result{
		AgentSteps: steps,
		City:       city,
		State:      req.State,
		Current:    f.Current,
		Forecast:   f.Daily,
		Alerts:     alerts,
		Season: SeasonInfo{
			Name:            name,
			Label:           season.Label,
			Crops:           season.Crops,
			CurrentActivity: activity,
		},
		Advisory: advisory,
		Fallback: fallback,
	}, nil
}

func (s *Scout) advisory(ctx context.Context, data advisoryData) (string, bool) {
	text, err := s.prompts.Render(advisoryPrompt, data)
	if err == nil {
		var out string
		out, err = s.gen.GenerateText(ctx, text)
		if err == nil {
			return strings.TrimSpace(out), false
		}
	}
	s.logger.Warn("weather advisory failed, using fallback", slog.Any("error", err))
	return FallbackAdvisory(data.City, data.Current, data.Activity, data.Language), true
}

// FallbackAdvisory is the fixed advisory used when the model call fails.
func FallbackAdvisory(city string, cur Current, activity, lang string) string {
	label := cur.WeatherLabel
	if label == "" {
		label = Label(cur.WeatherCode)
	}
	if lang == Hindi {
		return fmt.Sprintf("आज %s में %s°C तापमान है। मौसम %s। खेती की गतिविधियाँ: %s", city, num(cur.Temp), label, activity)
	}
	return fmt.Sprintf("Current temperature in %s is %s°C with %s. Seasonal activity: %s", city, num(cur.Temp), label, activity)
}
