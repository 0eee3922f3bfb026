package weather

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
)

// DefaultSeason is used when no season lists the month.
const DefaultSeason = "Rabi"

// DefaultActivity is used when a season has no entry for the month.
const DefaultActivity = "General field maintenance"

// DefaultCity is the last-resort location.
const DefaultCity = "New Delhi"

var defaultCoord = Coord{Lat: 28.61, Lon: 77.21}

// Season is one farming season.
type Season struct {
	Months []int    `json:"months"`
	Label  string   `json:"label"`
	Crops  []string `json:"crops"`

	// Activities is keyed by month number as a string ("1".."12").
	Activities map[string]string `json:"activities"`
}

// Activity returns the planned activity for month.
func (s Season) Activity(month int) string {
	if a, ok := s.Activities[strconv.Itoa(month)]; ok && a != "" {
		return a
	}
	return DefaultActivity
}

// Rule is the advice attached to one alert condition.
type Rule struct {
	Condition string `json:"condition"`
	AdviceEN  string `json:"advice_en"`
	AdviceHI  string `json:"advice_hi"`
}

// Calendar is the static crop-calendar data set.
type Calendar struct {
	CityCoordinates  map[string]Coord  `json:"city_coordinates"`
	StateDefaultCity map[string]string `json:"state_default_city"`
	Seasons          map[string]Season `json:"seasons"`
	Rules            []Rule            `json:"weather_farming_rules"`
}

// LoadCalendar reads a Calendar from a JSON file.
func LoadCalendar(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read crop calendar: %w", err)
	}
	var c Calendar
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse crop calendar %s: %w", path, err)
	}
	return &c, nil
}

// Locate resolves a city, falling back to the state's default city and then
// to New Delhi. It returns the city name used and its coordinates.
func (c *Calendar) Locate(city, state string) (string, Coord) {
	if coord, ok := c.CityCoordinates[city]; ok && city != "" {
		return city, coord
	}
	resolved := DefaultCity
	if d, ok := c.StateDefaultCity[state]; ok && state != "" {
		resolved = d
	}
	if coord, ok := c.CityCoordinates[resolved]; ok {
		return resolved, coord
	}
	if coord, ok := c.CityCoordinates[DefaultCity]; ok {
		return resolved, coord
	}
	return resolved, defaultCoord
}

// CurrentSeason returns the season whose months include month. Seasons
// are checked in name order; when none matches, DefaultSeason is returned.
func (c *Calendar) CurrentSeason(month int) (string, Season) {
	names := make([]string, 0, len(c.Seasons))
	for name := range c.Seasons {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if slices.Contains(c.Seasons[name].Months, month) {
			return name, c.Seasons[name]
		}
	}
	return DefaultSeason, c.Seasons[DefaultSeason]
}

// Advice returns the rule text for condition in lang.
func (c *Calendar) Advice(condition, lang string) string {
	for _, r := range c.Rules {
		if r.Condition == condition {
			if lang == Hindi {
				return r.AdviceHI
			}
			return r.AdviceEN
		}
	}
	return ""
}
