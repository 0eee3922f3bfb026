package schemes

import "strings"

// Tier is the priority band of a matched scheme.
type Tier string

// Tiers in display order.
const (
	TierCritical    Tier = "critical"
	TierRecommended Tier = "recommended"
	TierAvailable   Tier = "available"
)

// Rank orders tiers for sorting. Unknown tiers rank with available.
func (t Tier) Rank() int {
	switch t {
	case TierCritical:
		return 0
	case TierRecommended:
		return 1
	}
	return 2
}

// Urgency triggers a scheme can list in UrgencyWhen.
const (
	TriggerDiseaseSevere   = "disease_severe"
	TriggerCropLoss        = "crop_loss"
	TriggerNaturalDisaster = "natural_disaster"
)

// Scheme is one catalog entry.
type Scheme struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Short      string   `json:"short"`
	Category   string   `json:"category"`
	Benefits   string   `json:"benefits"`
	ApplyURL   string   `json:"apply_url"`
	ApplySteps []string `json:"apply_steps"`
	Tags       []string `json:"tags"`

	// States lists where the scheme applies; "All" means nationwide.
	States []string `json:"states"`

	// Land limits in acres, nil when unbounded.
	MaxLandAcres *float64 `json:"max_land_acres"`
	MinLandAcres *float64 `json:"min_land_acres"`

	UrgencyWhen []string `json:"urgency_when"`
}

// EligibleFor reports whether a farmer in state owning land acres may apply.
// State names match exactly.
func (s Scheme) EligibleFor(state string, land float64) bool {
	if !contains(s.States, "All") && !contains(s.States, state) {
		return false
	}
	if s.MaxLandAcres != nil && land > *s.MaxLandAcres {
		return false
	}
	if s.MinLandAcres != nil && land < *s.MinLandAcres {
		return false
	}
	return true
}

// CropContext carries a Crop Doctor finding into scheme matching.
type CropContext struct {
	CropType    string `json:"crop_type"`
	DiseaseName string `json:"disease_name"`
	Severity    string `json:"severity"`
}

// PreTier assigns a tier by rule. With a crop finding that has a severity,
// urgency triggers decide; otherwise income support and credit schemes are
// recommended and the rest available.
func PreTier(s Scheme, crop *CropContext) Tier {
	severity := ""
	if crop != nil {
		severity = strings.ToLower(strings.TrimSpace(crop.Severity))
	}
	if severity == "" {
		switch s.Category {
		case "income_support", "credit":
			return TierRecommended
		}
		return TierAvailable
	}

	triggers := s.UrgencyWhen
	switch {
	case contains(triggers, TriggerDiseaseSevere) && strings.Contains(severity, "severe"):
		return TierCritical
	case contains(triggers, TriggerCropLoss) && (severity == "severe" || severity == "moderate"):
		return TierCritical
	case contains(triggers, TriggerDiseaseSevere),
		contains(triggers, TriggerCropLoss),
		contains(triggers, TriggerNaturalDisaster):
		return TierRecommended
	}
	return TierAvailable
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
