package weather

// Emoji maps a WMO weather code to an icon.
func Emoji(code int) string {
	switch {
	case code <= 1:
		return "☀️"
	case code <= 3:
		return "⛅"
	case code <= 48:
		return "🌫️"
	case code <= 65:
		return "🌧️"
	case code <= 67:
		return "🌨️"
	case code <= 75:
		return "❄️"
	case code <= 77:
		return "🌨️"
	case code <= 82:
		return "🌧️"
	case code <= 86:
		return "❄️"
	case code <= 99:
		return "⛈️"
	}
	return "🌤️"
}

var labels = map[int]string{
	0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
	45: "Foggy", 48: "Depositing rime fog",
	51: "Light drizzle", 53: "Moderate drizzle", 55: "Dense drizzle",
	61: "Slight rain", 63: "Moderate rain", 65: "Heavy rain",
	66: "Light freezing rain", 67: "Heavy freezing rain",
	71: "Slight snow", 73: "Moderate snow", 75: "Heavy snow",
	80: "Slight rain showers", 81: "Moderate rain showers", 82: "Violent rain showers",
	95: "Thunderstorm", 96: "Thunderstorm with hail", 99: "Thunderstorm with heavy hail",
}

// Label maps a WMO weather code to a description. Unlisted codes read
// "Partly cloudy".
func Label(code int) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return "Partly cloudy"
}
