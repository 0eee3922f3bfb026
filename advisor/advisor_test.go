package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neer-farm/neer/parser"
	"github.com/neer-farm/neer/provider"
)

type fakeText struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeText) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeText) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func fixedClock() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("IST", 19800)) }

func TestChat(t *testing.T) {
	gen := &fakeText{reply: "- Apply neem oil at dusk"}
	a := New(gen)

	out, err := a.Chat(context.Background(), ChatRequest{Message: "How to stop aphids?"})
	require.NoError(t, err)
	assert.Equal(t, "- Apply neem oil at dusk", out)

	p := gen.prompts[0]
	assert.Contains(t, p, "USER QUERY: How to stop aphids?")
	assert.NotContains(t, p, "RELEVANT CONTEXT")

	_, err = a.Chat(context.Background(), ChatRequest{Message: "Which first?", Context: "PM-KISAN, PMFBY"})
	require.NoError(t, err)
	assert.Contains(t, gen.prompts[1], "RELEVANT CONTEXT (User was just looking at these schemes):\nPM-KISAN, PMFBY\n")
}

func TestChat_LongContextTruncated(t *testing.T) {
	gen := &fakeText{reply: "ok"}
	long := "FIRST " + strings.Repeat("scheme detail ", 2000) + " LAST"

	_, err := New(gen).Chat(context.Background(), ChatRequest{Message: "Which first?", Context: long})
	require.NoError(t, err)
	p := gen.prompts[0]
	assert.Contains(t, p, "FIRST ")
	assert.Contains(t, p, " LAST")
	assert.Contains(t, p, "[truncated]")
	assert.Less(t, len(p), len(long))
}

func TestChat_Errors(t *testing.T) {
	_, err := New(&fakeText{}).Chat(context.Background(), ChatRequest{Message: "  "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	limited := fmt.Errorf("gemini: %w", provider.ErrRateLimited)
	_, err = New(&fakeText{err: limited}).Chat(context.Background(), ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, err, provider.ErrRateLimited)

	_, err = New(&fakeText{err: errors.New("429 Too Many Requests")}).Chat(context.Background(), ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrBusy)

	_, err = New(&fakeText{err: provider.ErrAuth}).Chat(context.Background(), ChatRequest{Message: "hi"})
	assert.ErrorIs(t, err, provider.ErrAuth)
	assert.NotErrorIs(t, err, ErrBusy)
}

func twelveMonths() string {
	months := []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = fmt.Sprintf(`{"month": %q, "tasks": [{"type": "other", "description": "Check field"}]}`, m)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestCalendarKey(t *testing.T) {
	assert.Equal(t, "punjab_wheat", CalendarKey("Punjab", "Wheat"))
	assert.Equal(t, "uttar pradesh_sugarcane", CalendarKey("Uttar Pradesh", "SUGARCANE"))
}

func TestCropCalendar_GeneratesAndCaches(t *testing.T) {
	gen := &fakeText{reply: "```json\n" + twelveMonths() + "\n```"}
	cache := NewMemoryCache()
	a := New(gen, WithCache(cache), WithClock(fixedClock))

	cal, err := a.CropCalendar(context.Background(), CalendarRequest{State: "Punjab", Crop: "Wheat", Language: Hindi})
	require.NoError(t, err)
	assert.Equal(t, "Punjab", cal.State)
	assert.Equal(t, "Wheat", cal.Crop)
	assert.Equal(t, "2026-03-03T23:36:07Z", cal.GeneratedAt)
	require.Len(t, cal.Calendar, 12)
	assert.Equal(t, "January", cal.Calendar[0].Month)
	assert.Equal(t, []CalendarTask{{Type: TaskOther, Description: "Check field"}}, cal.Calendar[11].Tasks)

	p := gen.prompts[0]
	assert.Contains(t, p, "growing Wheat in Punjab, India.\nRespond in Hindi.\n")

	// Same state and crop in different case is served from cache.
	again, err := a.CropCalendar(context.Background(), CalendarRequest{State: "punjab", Crop: "WHEAT"})
	require.NoError(t, err)
	assert.Equal(t, cal, again)
	assert.Equal(t, 1, gen.calls())
}

func TestCropCalendar_ClampsDescriptions(t *testing.T) {
	long := "Prepare the field by deep ploughing twice. Then level it and add farmyard manure before sowing."
	reply := strings.Replace(twelveMonths(), "Check field", long, 1)
	cal, err := New(&fakeText{reply: reply}).CropCalendar(context.Background(), CalendarRequest{State: "Bihar", Crop: "Rice"})
	require.NoError(t, err)
	assert.Equal(t, "Prepare the field by deep ploughing twice.", cal.Calendar[0].Tasks[0].Description)
	assert.Equal(t, "Check field", cal.Calendar[1].Tasks[0].Description)
}

func TestCropCalendar_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := New(&fakeText{}).CropCalendar(ctx, CalendarRequest{State: "Punjab"})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = New(&fakeText{reply: "no calendar today"}).CropCalendar(ctx, CalendarRequest{State: "Punjab", Crop: "Rice"})
	assert.ErrorIs(t, err, parser.ErrNoJSON)

	cache := NewMemoryCache()
	_, err = New(&fakeText{reply: `[{"month": "January", "tasks": []}]`}, WithCache(cache)).
		CropCalendar(ctx, CalendarRequest{State: "Punjab", Crop: "Rice"})
	assert.ErrorIs(t, err, ErrCalendarShape)
	_, ok, _ := cache.Get(ctx, "punjab_rice")
	assert.False(t, ok, "failed calendars are not cached")

	_, err = New(&fakeText{err: errors.New("quota exceeded")}).CropCalendar(ctx, CalendarRequest{State: "Punjab", Crop: "Rice"})
	assert.ErrorIs(t, err, ErrBusy)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk gone")
}

func (brokenCache) Put(context.Context, string, []byte) error { return errors.New("disk gone") }

func TestCropCalendar_CacheFailureIsNotFatal(t *testing.T) {
	gen := &fakeText{reply: twelveMonths()}
	cal, err := New(gen, WithCache(brokenCache{})).CropCalendar(context.Background(), CalendarRequest{State: "Bihar", Crop: "Maize"})
	require.NoError(t, err)
	assert.Len(t, cal.Calendar, 12)
}

func TestCropCalendar_UnreadableCacheEntryRegenerates(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	require.NoError(t, cache.Put(ctx, "bihar_maize", []byte("garbage")))

	gen := &fakeText{reply: twelveMonths()}
	_, err := New(gen, WithCache(cache)).CropCalendar(ctx, CalendarRequest{State: "Bihar", Crop: "Maize"})
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls())
}

func f64(v float64) *float64 { return &v }

func TestHourlyWeather_SampledHours(t *testing.T) {
	w := HourlyWeather{Hours: []Hour{
		{Hour: "00:00", Temp: f64(18)},
		{Hour: "01:00", Temp: f64(17)},
		{Hour: "03:00", Temp: nil},
		{Hour: "06:00", Temp: f64(20)},
		{Hour: "xx:00", Temp: f64(20)},
		{Hour: "9", Temp: f64(20)},
		{Hour: "21:00", Temp: f64(24)},
	}}
	var got []string
	for _, h := range w.SampledHours() {
		got = append(got, h.Hour)
	}
	assert.Equal(t, []string{"00:00", "06:00", "21:00"}, got)
}

func TestFarmAdvice(t *testing.T) {
	gen := &fakeText{reply: `Sure! {"times_today": 2, "skip_today": false, "skip_reason": null,
		"weather_summary": "Dry and warm.",
		"schedule": [{"time": "06:00 AM", "duration_minutes": 45, "action": "Drip irrigate", "reason": "Cool at 20°C"}],
		"pro_tip": "Mulch the beds."}`}
	w := HourlyWeather{
		Hours: []Hour{
			{Hour: "06:00", Temp: f64(20), Humidity: f64(70), RainProb: f64(5), Wind: f64(8.5)},
			{Hour: "09:00", Temp: f64(26), Humidity: nil, RainProb: f64(0), Wind: f64(10)},
		},
		TempMax:     f64(34),
		TempMin:     nil,
		RainTotal:   0.4,
		RainProbMax: 10,
	}
	req := FarmRequest{State: "Gujarat", Crop: "Cotton", TaskType: "irrigation", Date: "2026-04-01"}

	advice, err := New(gen).FarmAdvice(context.Background(), req, w)
	require.NoError(t, err)

	assert.Equal(t, 2, advice.TimesToday)
	assert.False(t, advice.SkipToday)
	assert.Nil(t, advice.SkipReason)
	assert.Equal(t, "Mulch the beds.", advice.ProTip)
	require.Len(t, advice.Schedule, 1)
	assert.Equal(t, Slot{Time: "06:00 AM", DurationMinutes: 45, Action: "Drip irrigate", Reason: "Cool at 20°C"}, advice.Schedule[0])
	assert.Equal(t, WeatherRaw{TempMax: f64(34), RainTotal: 0.4, RainProbMax: 10}, advice.WeatherRaw)

	p := gen.prompts[0]
	assert.Contains(t, p, "growing Cotton in Gujarat, India.\nToday's date: 2026-04-01\nTask to advise on: IRRIGATION")
	assert.Contains(t, p, "  06:00: 20°C, Humidity 70%, Rain 5%, Wind 8.5 km/h\n")
	assert.Contains(t, p, "  09:00: 26°C, Humidity n/a%, Rain 0%, Wind 10 km/h\n")
	assert.Contains(t, p, "- Max temp: 34°C, Min: n/a°C")
	assert.Contains(t, p, "- Total rainfall expected: 0.4 mm")
	assert.Contains(t, p, "Respond in English.")
	assert.Contains(t, p, "today's irrigation task")
}

func TestFarmAdvice_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := New(&fakeText{}).FarmAdvice(ctx, FarmRequest{Crop: "Rice"}, HourlyWeather{})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = New(&fakeText{reply: "{broken"}).FarmAdvice(ctx, FarmRequest{Crop: "Rice", TaskType: "pesticide"}, HourlyWeather{})
	var perr *parser.ParseError
	assert.ErrorAs(t, err, &perr)

	_, err = New(&fakeText{err: provider.ErrUnavailable}).FarmAdvice(ctx, FarmRequest{Crop: "Rice", TaskType: "pesticide"}, HourlyWeather{})
	assert.ErrorIs(t, err, provider.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrBusy)
}
