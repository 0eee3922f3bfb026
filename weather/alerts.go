package weather

// Hindi selects Hindi alert titles and advice. Any other language gets
// English.
const Hindi = "Hindi"

// AlertType groups alerts for display.
type AlertType string

// Alert types.
const (
	AlertDanger     AlertType = "danger"
	AlertCaution    AlertType = "caution"
	AlertIrrigation AlertType = "irrigation"
	AlertFavorable  AlertType = "favorable"
)

// Rule conditions, matching Rule.Condition in the calendar data.
const (
	CondFrost       = "frost_risk"
	CondExtremeHeat = "extreme_heat"
	CondHeavyRain   = "heavy_rain"
	CondRainLikely  = "rain_probability_high"
	CondStrongWind  = "strong_wind"
	CondHumidity    = "high_humidity_disease_risk"
	CondIrrigation  = "irrigation_needed"
	CondSprayWindow = "good_spray_window"
)

// Thresholds, in °C, mm, percent and km/h.
const (
	FrostTempMin       = 2.0
	HeatTempMax        = 42.0
	HeavyRainMM        = 30.0
	RainLikelyProb     = 70.0
	StrongWindKMH      = 25.0
	HumidDiseaseRH     = 85.0
	HumidDiseaseMin    = 20.0
	DryDayRainMM       = 1.0
	IrrigationDryDays  = 3
	IrrigationTemp     = 30.0
	SprayMaxRainProb   = 20.0
	SprayMaxWindKMH    = 15.0
	SprayMaxHumidityRH = 80.0
)

// Alert is one farming alert.
type Alert struct {
	Type      AlertType `json:"type"`
	Icon      string    `json:"icon"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Condition string    `json:"condition"`
}

type alertDef struct {
	typ       AlertType
	icon      string
	titleEN   string
	titleHI   string
	condition string
}

var (
	frostAlert      = alertDef{AlertDanger, "❄️", "Frost Risk", "पाला पड़ने का खतरा", CondFrost}
	heatAlert       = alertDef{AlertDanger, "🔥", "Extreme Heat", "अत्यधिक गर्मी", CondExtremeHeat}
	heavyRainAlert  = alertDef{AlertDanger, "🌊", "Heavy Rainfall", "भारी बारिश", CondHeavyRain}
	rainAlert       = alertDef{AlertCaution, "🌧️", "Rain Likely Tomorrow", "कल बारिश की संभावना", CondRainLikely}
	windAlert       = alertDef{AlertCaution, "💨", "Strong Winds", "तेज हवा", CondStrongWind}
	humidityAlert   = alertDef{AlertCaution, "🦠", "Disease Risk: High Humidity", "रोग जोखिम: अधिक नमी", CondHumidity}
	irrigationAlert = alertDef{AlertIrrigation, "💧", "Irrigation Needed", "सिंचाई आवश्यक", CondIrrigation}
	sprayAlert      = alertDef{AlertFavorable, "✅", "Good Spray Window", "छिड़काव के लिए अनुकूल", CondSprayWindow}
)

// Alerts evaluates the alert rules against f. Day-ahead rules read
// tomorrow's entry; humidity, irrigation and spray rules also read current
// conditions. Messages come from cal's rules in lang. The spray window is
// only reported when no danger alert fired. An empty forecast yields no
// alerts.
func Alerts(f Forecast, cal *Calendar, lang string) []Alert {
	tomorrow, ok := f.Tomorrow()
	if !ok {
		return nil
	}
	if cal == nil {
		cal = &Calendar{}
	}

	var alerts []Alert
	add := func(d alertDef) {
		title := d.titleEN
		if lang == Hindi {
			title = d.titleHI
		}
		alerts = append(alerts, Alert{
			Type:      d.typ,
			Icon:      d.icon,
			Title:     title,
			Message:   cal.Advice(d.condition, lang),
			Condition: d.condition,
		})
	}

	if tomorrow.TempMin <= FrostTempMin {
		add(frostAlert)
	}
	if tomorrow.TempMax >= HeatTempMax {
		add(heatAlert)
	}
	if tomorrow.RainMM >= HeavyRainMM {
		add(heavyRainAlert)
	}
	if tomorrow.RainProb >= RainLikelyProb && tomorrow.RainMM < HeavyRainMM {
		add(rainAlert)
	}
	if tomorrow.WindMax >= StrongWindKMH {
		add(windAlert)
	}
	if f.Current.Humidity >= HumidDiseaseRH && tomorrow.TempMin >= HumidDiseaseMin {
		add(humidityAlert)
	}

	dry := 0
	for i, d := range f.Daily {
		if i >= IrrigationDryDays {
			break
		}
		if d.RainMM < DryDayRainMM {
			dry++
		}
	}
	if dry >= IrrigationDryDays && f.Current.Temp >= IrrigationTemp {
		add(irrigationAlert)
	}

	if tomorrow.RainProb < SprayMaxRainProb &&
		tomorrow.WindMax < SprayMaxWindKMH &&
		f.Current.Humidity < SprayMaxHumidityRH &&
		!hasType(alerts, AlertDanger) {
		add(sprayAlert)
	}
	return alerts
}

func hasType(alerts []Alert, t AlertType) bool {
	for _, a := range alerts {
		if a.Type == t {
			return true
		}
	}
	return false
}
