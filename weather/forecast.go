package weather

import "context"

// Coord is a latitude/longitude pair.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Current holds present conditions.
type Current struct {
	Temp         float64 `json:"temp"`
	FeelsLike    float64 `json:"feels_like"`
	Humidity     float64 `json:"humidity"`
	WindSpeed    float64 `json:"wind_speed"`
	WindDir      float64 `json:"wind_dir"`
	WeatherCode  int     `json:"weather_code"`
	WeatherEmoji string  `json:"weather_emoji"`
	WeatherLabel string  `json:"weather_label"`
}

// Day is one daily forecast entry.
type Day struct {
	Date         string  `json:"date"`
	TempMax      float64 `json:"temp_max"`
	TempMin      float64 `json:"temp_min"`
	RainMM       float64 `json:"rain_mm"`
	RainProb     float64 `json:"rain_prob"`
	WindMax      float64 `json:"wind_max"`
	UVIndex      float64 `json:"uv_index"`
	WeatherCode  int     `json:"weather_code"`
	WeatherEmoji string  `json:"weather_emoji"`
	WeatherLabel string  `json:"weather_label"`
}

// Forecast is current conditions plus daily entries, today first.
type Forecast struct {
	Current Current `json:"current"`
	Daily   []Day   `json:"daily"`
}

// Annotate fills the emoji and label fields from the WMO codes.
func (f *Forecast) Annotate() {
	f.Current.WeatherEmoji = Emoji(f.Current.WeatherCode)
	f.Current.WeatherLabel = Label(f.Current.WeatherCode)
	for i := range f.Daily {
		f.Daily[i].WeatherEmoji = Emoji(f.Daily[i].WeatherCode)
		f.Daily[i].WeatherLabel = Label(f.Daily[i].WeatherCode)
	}
}

// Tomorrow returns the second daily entry, or the first when only one
// exists. ok is false for an empty forecast.
func (f Forecast) Tomorrow() (Day, bool) {
	switch len(f.Daily) {
	case 0:
		return Day{}, false
	case 1:
		return f.Daily[0], true
	}
	return f.Daily[1], true
}

// Source fetches a forecast for a location.
type Source interface {
	Fetch(ctx context.Context, at Coord) (Forecast, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, at Coord) (Forecast, error)

// Fetch calls f(ctx, at).
func (f SourceFunc) Fetch(ctx context.Context, at Coord) (Forecast, error) {
	return f(ctx, at)
}
