package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// FarmRequest asks when to do a task today.
type FarmRequest struct {
	State    string `json:"state"`
	Crop     string `json:"crop"`
	TaskType string `json:"task_type"`
	Date     string `json:"date"`
	Language string `json:"lang"`
}

// Hour is one hourly forecast row. Missing readings are nil.
type Hour struct {
	Hour     string   `json:"hour"`
	Temp     *float64 `json:"temp"`
	Humidity *float64 `json:"humidity"`
	RainProb *float64 `json:"rain_prob"`
	Wind     *float64 `json:"wind"`
}

// HourlyWeather is a single day's hourly forecast with its daily summary.
type HourlyWeather struct {
	Hours       []Hour   `json:"hours"`
	TempMax     *float64 `json:"temp_max"`
	TempMin     *float64 `json:"temp_min"`
	RainTotal   float64  `json:"rain_total"`
	RainProbMax float64  `json:"rain_prob_max"`
}

// SampledHours returns the rows on three-hour boundaries that have a
// temperature. Rows whose hour cannot be read are dropped.
func (w HourlyWeather) SampledHours() []Hour {
	var out []Hour
	for _, h := range w.Hours {
		if h.Temp == nil || len(h.Hour) < 2 {
			continue
		}
		n, err := strconv.Atoi(h.Hour[:2])
		if err != nil || n%3 != 0 {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Slot is one scheduled session.
type Slot struct {
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
	Action          string `json:"action"`
	Reason          string `json:"reason"`
}

// WeatherRaw echoes the daily summary the advice was based on.
type WeatherRaw struct {
	TempMax     *float64 `json:"temp_max"`
	TempMin     *float64 `json:"temp_min"`
	RainTotal   float64  `json:"rain_total"`
	RainProbMax float64  `json:"rain_prob_max"`
}

// FarmAdvice is the schedule returned by the model.
type FarmAdvice struct {
	TimesToday     int        `json:"times_today"`
	SkipToday      bool       `json:"skip_today"`
	SkipReason     *string    `json:"skip_reason"`
	WeatherSummary string     `json:"weather_summary"`
	Schedule       []Slot     `json:"schedule"`
	ProTip         string     `json:"pro_tip"`
	WeatherRaw     WeatherRaw `json:"weather_raw"`
}

// FarmAdvice schedules req.TaskType for today against the hourly forecast.
func (a *Advisor) FarmAdvice(ctx context.Context, req FarmRequest, w HourlyWeather) (*FarmAdvice, error) {
	if strings.TrimSpace(req.Crop) == "" || strings.TrimSpace(req.TaskType) == "" {
		return nil, fmt.Errorf("%w: crop and task_type", ErrMissingField)
	}
	text, err := a.prompts.Render(farmPrompt, farmData{
		Request:      req,
		Weather:      w,
		Hours:        w.SampledHours(),
		LanguageNote: languageNote(req.Language),
	})
	if err != nil {
		return nil, err
	}
	raw, err := a.gen.GenerateText(ctx, text)
	if err != nil {
		return nil, a.wrap("farm advisor", err)
	}
	var advice FarmAdvice
	if err := a.extractor.ExtractInto(raw, &advice); err != nil {
		return nil, fmt.Errorf("farm advisor response parse failed: %w", err)
	}
	advice.WeatherRaw = WeatherRaw{
		TempMax:     w.TempMax,
		TempMin:     w.TempMin,
		RainTotal:   w.RainTotal,
		RainProbMax: w.RainProbMax,
	}
	return &advice, nil
}
