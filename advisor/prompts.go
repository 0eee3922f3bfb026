package advisor

import "strconv"

const (
	chatPrompt     = "chat"
	calendarPrompt = "calendar"
	farmPrompt     = "farm"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const chatTemplate = `You are 'NEER', a highly professional, polite, and direct agricultural consultant.
Your goal is to provide concise, expert-level advice while maintaining a human connection.
{{if .Context}}
RELEVANT CONTEXT (User was just looking at these schemes):
{{.Context}}
{{end}}
GUIDELINES:
1. STYLE: Be extremely concise. Use bullet points for steps or lists.
2. TONE: Professional, efficient, and respectful. Remove all conversational filler.
3. HYPERLINKS: If you mention an official website/portal, ALWAYS format it as a markdown link: [Portal Name](url).
4. LANGUAGE: Respond ONLY in the language the user uses.
5. NO BULK TEXT: Break information into small, readable chunks.
6. FOCUS: Concrete, actionable advice for farmers.

USER QUERY: {{.Message}}`

type calendarData struct {
	State        string
	Crop         string
	LanguageNote string
}

const calendarTemplate = `Create a 12-month farming calendar for growing {{.Crop}} in {{.State}}, India.
{{.LanguageNote}}
Return ONLY a valid JSON array with exactly 12 objects, one per month from January to December.
Each object must have:
- "month": month name (e.g. "January")
- "tasks": array of task objects, each with:
  - "type": one of exactly: "sowing", "irrigation", "fertilizer", "pesticide", "harvesting", "preparation", "other"
  - "description": short actionable task description (max 70 characters)

Return ONLY the JSON array. No markdown, no code fences, no extra text.`

type farmData struct {
	Request      FarmRequest
	Weather      HourlyWeather
	Hours        []Hour
	LanguageNote string
}

const farmTemplate = `You are NEER's Smart Farm Advisor. A farmer is growing {{.Request.Crop}} in {{.Request.State}}, India.
Today's date: {{.Request.Date}}
Task to advise on: {{upper .Request.TaskType}}

TODAY'S HOURLY WEATHER FORECAST:
{{range .Hours}}  {{.Hour}}: {{opt .Temp}}°C, Humidity {{opt .Humidity}}%, Rain {{opt .RainProb}}%, Wind {{opt .Wind}} km/h
{{end}}
Daily Summary:
- Max temp: {{opt .Weather.TempMax}}°C, Min: {{opt .Weather.TempMin}}°C
- Total rainfall expected: {{num .Weather.RainTotal}} mm
- Max rain probability: {{num .Weather.RainProbMax}}%

{{.LanguageNote}}

Based on the EXACT hourly weather, give a precise schedule for today's {{.Request.TaskType}} task.
Return ONLY valid JSON (no markdown, no code fences):
{
  "times_today": <integer, how many sessions today>,
  "skip_today": <boolean, true if weather makes this task inadvisable today>,
  "skip_reason": <string or null>,
  "weather_summary": <one short sentence summarizing today's weather relevance>,
  "schedule": [
    {
      "time": "HH:MM AM/PM",
      "duration_minutes": <integer>,
      "action": <specific action description>,
      "reason": <why this time, reference actual temp/humidity from forecast>
    }
  ],
  "pro_tip": <one extra tip for today specifically>
}`
