package schemes

const rankingPrompt = "ranking"

type rankingLine struct {
	ID       string
	PreTier  Tier
	Name     string
	Short    string
	Category string
	Tags     []string
}

type rankingData struct {
	State    string
	Land     float64
	Crop     *CropContext
	Schemes  []rankingLine
	Language string
}

const rankingTemplate = `You are 'NEER Scheme Navigator', an expert government scheme advisor for Indian farmers.

FARMER PROFILE:
- State: {{.State}}
- Land: {{.Land}} acres
{{with .Crop}}
CROP HEALTH CONTEXT (from Crop Doctor analysis):
- Crop: {{default .CropType "Unknown"}}
- Disease: {{default .DiseaseName "None"}}
- Severity: {{default .Severity "Unknown"}}
Use this to PRIORITIZE insurance/disaster relief schemes if disease is severe.{{end}}

ELIGIBLE SCHEMES (already filtered by state + land):
{{range .Schemes}}  {{.ID}}: {{if .PreTier}}[PRE-TIER: {{.PreTier}}] {{end}}{{.Name}}: {{.Short}} | Category: {{.Category}} | Tags: {{join .Tags ", "}}
{{end}}
TASK: Rank these schemes from most beneficial to least for this farmer. Assign each a tier:
- "critical": Schemes the farmer MUST apply for immediately (crop insurance if disease severe, income support if small farmer)
- "recommended": Highly beneficial schemes matching the farmer's specific situation
- "available": Eligible but lower priority/general schemes

RULES:
- If crop disease is severe → PMFBY and insurance schemes = "critical"
- Income support schemes matching the state → "recommended"
- Small farmers (< 3 acres) → prioritize income support + credit schemes
- Respond ONLY in {{.Language}}
- You MUST keep the scheme names in their ORIGINAL form (do not translate scheme names)
- Translate ONLY the 'reason' field into {{.Language}}

You MUST respond ONLY with valid JSON (no markdown):
{
  "ranked_schemes": [
    {
      "id": "scheme_id",
      "tier": "critical" | "recommended" | "available",
      "reason": "One-line why this is important for this farmer (in {{.Language}})"
    }
  ],
  "summary": "2-3 line personalized overview for the farmer (in {{.Language}})"
}`
