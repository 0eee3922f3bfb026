package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/neer-farm/neer/truncate"
)

// Calendar task types.
const (
	TaskSowing      = "sowing"
	TaskIrrigation  = "irrigation"
	TaskFertilizer  = "fertilizer"
	TaskPesticide   = "pesticide"
	TaskHarvesting  = "harvesting"
	TaskPreparation = "preparation"
	TaskOther       = "other"
)

// MaxTaskDescription is the longest task description kept, in runes.
const MaxTaskDescription = 70

// CalendarRequest asks for a crop calendar.
type CalendarRequest struct {
	State    string `json:"state"`
	Crop     string `json:"crop"`
	Language string `json:"lang"`
}

// CalendarTask is one task in a month.
type CalendarTask struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// MonthPlan lists a month's tasks.
type MonthPlan struct {
	Month string         `json:"month"`
	Tasks []CalendarTask `json:"tasks"`
}

// CropCalendar is a generated twelve-month plan.
type CropCalendar struct {
	State       string      `json:"state"`
	Crop        string      `json:"crop"`
	GeneratedAt string      `json:"generated_at"`
	Calendar    []MonthPlan `json:"calendar"`
}

// CalendarKey is the cache key for a state and crop. Language is not part
// of the key.
func CalendarKey(state, crop string) string {
	return strings.ToLower(state) + "_" + strings.ToLower(crop)
}

// CropCalendar returns the cached calendar for the request's state and
// crop, generating and caching one on a miss. Cache failures are logged and
// do not fail the call.
func (a *Advisor) CropCalendar(ctx context.Context, req CalendarRequest) (*CropCalendar, error) {
	if strings.TrimSpace(req.State) == "" || strings.TrimSpace(req.Crop) == "" {
		return nil, fmt.Errorf("%w: state and crop", ErrMissingField)
	}
	key := CalendarKey(req.State, req.Crop)

	payload, ok, err := a.cache.Get(ctx, key)
	switch {
	case err != nil:
		a.logger.Warn("crop calendar cache read failed", slog.String("key", key), slog.Any("error", err))
	case ok:
		var cached CropCalendar
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
		a.logger.Warn("discarding unreadable cached calendar", slog.String("key", key))
	}

	text, err := a.prompts.Render(calendarPrompt, calendarData{
		State:        req.State,
		Crop:         req.Crop,
		LanguageNote: languageNote(req.Language),
	})
	if err != nil {
		return nil, err
	}
	raw, err := a.gen.GenerateText(ctx, text)
	if err != nil {
		return nil, a.wrap("crop calendar", err)
	}
	var months []MonthPlan
	if err := a.extractor.ExtractInto(raw, &months); err != nil {
		return nil, fmt.Errorf("failed to parse calendar response: %w", err)
	}
	if len(months) != 12 {
		return nil, fmt.Errorf("%w, got %d", ErrCalendarShape, len(months))
	}
	for i := range months {
		for j := range months[i].Tasks {
			t := &months[i].Tasks[j]
			t.Description = truncate.Words(strings.TrimSpace(t.Description), MaxTaskDescription)
		}
	}

	cal := &CropCalendar{
		State:       req.State,
		Crop:        req.Crop,
		GeneratedAt: a.now().UTC().Format(time.RFC3339),
		Calendar:    months,
	}
	if payload, err := json.Marshal(cal); err == nil {
		if err := a.cache.Put(ctx, key, payload); err != nil {
			a.logger.Warn("crop calendar cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return cal, nil
}
