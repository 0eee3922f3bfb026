package cropdoctor

import (
	"fmt"
	"strings"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 * 1024 * 1024

// AllowedMIMETypes lists the accepted image types.
var AllowedMIMETypes = []string{"image/jpeg", "image/png", "image/jpg", "image/webp"}

// Agent step names recorded in Result.AgentSteps.
const (
	StepVisionAnalysis   = "vision_analysis"
	StepKBTreatment      = "kb_treatment_lookup"
	StepAITreatment      = "ai_treatment_generation"
	DefaultLanguage      = "English"
	referenceListLength  = 15
	targetedSymptomCount = 2

	// defaultSeverity is assumed when neither the model nor the knowledge
	// base gives one.
	defaultSeverity = "Moderate"
)

// Input is one diagnosis request.
type Input struct {
	Image    []byte
	MIMEType string

	// Language of all descriptive text in the answer. Default: English.
	Language string

	// State narrows the disease reference to the farmer's region.
	State string

	// Season is passed to the treatment step when known.
	Season string

	// CropHint is the crop named by the farmer, if any.
	CropHint string
}

// Validate checks the image type and size.
func (in Input) Validate() error {
	if len(in.Image) == 0 {
		return ErrEmptyImage
	}
	if !allowedMIME(in.MIMEType) {
		return fmt.Errorf("%w: %q", ErrUnsupportedImage, in.MIMEType)
	}
	if len(in.Image) > MaxImageSize {
		return fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(in.Image))
	}
	return nil
}

func allowedMIME(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for _, m := range AllowedMIMETypes {
		if m == mime {
			return true
		}
	}
	return false
}

// Candidate is one ranked disease guess.
type Candidate struct {
	Name                 string  `json:"name"`
	ConfidencePercentage float64 `json:"confidence_percentage"`
}

// VisionResult is the JSON shape requested from the vision call.
type VisionResult struct {
	// IsPlant is nil when the model omitted it; that counts as a plant.
	IsPlant           *bool       `json:"is_plant"`
	CropType          string      `json:"crop_type"`
	PlantPart         string      `json:"plant_part"`
	DiseaseFound      bool        `json:"disease_found"`
	DiseaseCandidates []Candidate `json:"disease_candidates"`
	Severity          string      `json:"severity"`
	Symptoms          []string    `json:"symptoms"`
	Cause             string      `json:"cause"`
}

func (v VisionResult) plant() bool {
	return v.IsPlant == nil || *v.IsPlant
}

// Treatment is the JSON shape requested from the treatment call.
type Treatment struct {
	OrganicTreatment  []string `json:"organic_treatment"`
	ChemicalTreatment []string `json:"chemical_treatment"`
	Prevention        []string `json:"prevention"`
}

// Diagnosis is the merged outcome of all steps.
type Diagnosis struct {
	IsPlant           bool        `json:"is_plant"`
	CropType          string      `json:"crop_type,omitempty"`
	PlantPart         string      `json:"plant_part,omitempty"`
	DiseaseFound      bool        `json:"disease_found"`
	DiseaseCandidates []Candidate `json:"disease_candidates"`
	ScientificName    string      `json:"scientific_name,omitempty"`
	Severity          string      `json:"severity"`
	Symptoms          []string    `json:"symptoms"`
	Cause             string      `json:"cause"`
	OrganicTreatment  []string    `json:"organic_treatment"`
	ChemicalTreatment []string    `json:"chemical_treatment"`
	Prevention        []string    `json:"prevention"`
	KBMatch           bool        `json:"kb_match"`
	Urgency           string      `json:"urgency"`
}

// TopCandidate returns the highest-ranked candidate, or Unknown.
func (d Diagnosis) TopCandidate() Candidate {
	if len(d.DiseaseCandidates) == 0 {
		return Candidate{Name: "Unknown"}
	}
	return d.DiseaseCandidates[0]
}

// Result is returned by Doctor.Diagnose.
type Result struct {
	AgentSteps []string  `json:"agent_steps"`
	Data       Diagnosis `json:"data"`
}

// Urgency maps a severity label to farmer-facing urgency text.
func Urgency(severity string) string {
	s := strings.ToLower(severity)
	switch {
	case strings.Contains(s, "severe"), strings.Contains(s, "urgent"):
		return "Act immediately, within 1-2 days"
	case strings.Contains(s, "moderate"):
		return "Act within 3-5 days"
	case strings.Contains(s, "mild"):
		return "Monitor closely, treat within 1 week"
	}
	return "Assess and plan treatment"
}
