package schemes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func acres(v float64) *float64 { return &v }

func TestScheme_EligibleFor(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
		state  string
		land   float64
		want   bool
	}{
		{"nationwide", Scheme{States: []string{"All"}}, "Kerala", 10, true},
		{"state listed", Scheme{States: []string{"Odisha", "Bihar"}}, "Bihar", 1, true},
		{"state not listed", Scheme{States: []string{"Odisha"}}, "Bihar", 1, false},
		{"state case differs", Scheme{States: []string{"Odisha"}}, "odisha", 1, false},
		{"no states", Scheme{}, "Bihar", 1, false},
		{"under max", Scheme{States: []string{"All"}, MaxLandAcres: acres(5)}, "Bihar", 5, true},
		{"over max", Scheme{States: []string{"All"}, MaxLandAcres: acres(5)}, "Bihar", 5.5, false},
		{"at min", Scheme{States: []string{"All"}, MinLandAcres: acres(2)}, "Bihar", 2, true},
		{"under min", Scheme{States: []string{"All"}, MinLandAcres: acres(2)}, "Bihar", 1.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scheme.EligibleFor(tt.state, tt.land))
		})
	}
}

func TestPreTier(t *testing.T) {
	insurance := Scheme{Category: "insurance", UrgencyWhen: []string{TriggerDiseaseSevere, TriggerCropLoss}}
	lossOnly := Scheme{Category: "insurance", UrgencyWhen: []string{TriggerCropLoss}}
	disaster := Scheme{Category: "relief", UrgencyWhen: []string{TriggerNaturalDisaster}}
	income := Scheme{Category: "income_support"}
	credit := Scheme{Category: "credit"}
	other := Scheme{Category: "irrigation"}

	severe := &CropContext{Severity: "Severe"}
	moderate := &CropContext{Severity: "Moderate"}
	mild := &CropContext{Severity: "Mild"}
	noSeverity := &CropContext{CropType: "Rice"}

	tests := []struct {
		name   string
		scheme Scheme
		crop   *CropContext
		want   Tier
	}{
		{"disease severe trigger", insurance, severe, TierCritical},
		{"crop loss on moderate", lossOnly, moderate, TierCritical},
		{"crop loss on severe", lossOnly, severe, TierCritical},
		{"trigger present but mild", insurance, mild, TierRecommended},
		{"disaster trigger", disaster, severe, TierRecommended},
		{"no trigger with context", income, severe, TierAvailable},
		{"income without context", income, nil, TierRecommended},
		{"credit without context", credit, nil, TierRecommended},
		{"other without context", other, nil, TierAvailable},
		{"context without severity", insurance, noSeverity, TierAvailable},
		{"context without severity income", income, noSeverity, TierRecommended},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PreTier(tt.scheme, tt.crop))
		})
	}
}

func TestTier_Rank(t *testing.T) {
	assert.Equal(t, 0, TierCritical.Rank())
	assert.Equal(t, 1, TierRecommended.Rank())
	assert.Equal(t, 2, TierAvailable.Rank())
	assert.Equal(t, 2, Tier("urgent").Rank())
}
