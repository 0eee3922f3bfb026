package cropdoctor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neer-farm/neer/parser"
	"github.com/neer-farm/neer/prompt"
)

// Generator is the model surface a Doctor needs. *cascade.Dispatcher
// satisfies it.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateWithAttachment(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}

// Doctor runs the diagnosis pipeline. Safe for concurrent use.
type Doctor struct {
	gen       Generator
	kb        KnowledgeBase
	prompts   *prompt.Engine
	extractor *parser.Extractor
	logger    *slog.Logger
	schema    string
}

// Option configures a Doctor.
type Option func(*Doctor)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Doctor) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithExtractor replaces the JSON extractor.
func WithExtractor(e *parser.Extractor) Option {
	return func(d *Doctor) {
		if e != nil {
			d.extractor = e
		}
	}
}

// New creates a Doctor. A nil kb behaves as an empty knowledge base.
func New(gen Generator, kb KnowledgeBase, opts ...Option) *Doctor {
	if kb == nil {
		kb = NewMemoryKB(nil)
	}
	d := &Doctor{
		gen:       gen,
		kb:        kb,
		prompts:   prompt.NewEngine(),
		extractor: parser.NewExtractor(),
		logger:    slog.Default(),
		schema:    prompt.MustSchema(&VisionResult{}),
	}
	d.prompts.MustRegister(visionPrompt, visionTemplate)
	d.prompts.MustRegister(treatmentPrompt, treatmentTemplate)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Diagnose validates the image, runs the vision step and, when needed,
// the treatment step.
func (d *Doctor) Diagnose(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	lang := in.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	steps := []string{StepVisionAnalysis}
	visionText, err := d.prompts.Render(visionPrompt, visionData{
		CropHint:  strings.TrimSpace(in.CropHint),
		State:     strings.TrimSpace(in.State),
		Reference: d.reference(in.CropHint, in.State),
		Language:  lang,
		Schema:    d.schema,
	})
	if err != nil {
		return nil, err
	}
	raw, err := d.gen.GenerateWithAttachment(ctx, visionText, in.Image, strings.ToLower(in.MIMEType))
	if err != nil {
		return nil, fmt.Errorf("vision analysis: %w", err)
	}
	var vision VisionResult
	if err := d.extractor.ExtractInto(raw, &vision); err != nil {
		return nil, fmt.Errorf("vision analysis: %w", err)
	}

	if !vision.plant() {
		d.logger.Debug("image rejected as non-plant")
		return &Result{AgentSteps: steps, Data: notPlant()}, nil
	}
	if !vision.DiseaseFound {
		return &Result{AgentSteps: steps, Data: healthy(vision)}, nil
	}

	diag := fromVision(vision)
	top := diag.TopCandidate()
	if entry, ok := d.kb.Lookup(top.Name); ok {
		steps = append(steps, StepKBTreatment)
		applyKB(&diag, entry)
		d.logger.Debug("disease matched knowledge base",
			slog.String("disease", entry.Name),
			slog.String("id", entry.ID))
	} else {
		steps = append(steps, StepAITreatment)
		t, err := d.treatment(ctx, diag, top.Name, in, lang)
		if err != nil {
			return nil, fmt.Errorf("treatment generation: %w", err)
		}
		diag.OrganicTreatment = t.OrganicTreatment
		diag.ChemicalTreatment = t.ChemicalTreatment
		diag.Prevention = t.Prevention
		if diag.Severity == "" {
			diag.Severity = defaultSeverity
		}
	}
	diag.Urgency = Urgency(diag.Severity)

	return &Result{AgentSteps: steps, Data: diag}, nil
}

func (d *Doctor) treatment(ctx context.Context, diag Diagnosis, disease string, in Input, lang string) (Treatment, error) {
	text, err := d.prompts.Render(treatmentPrompt, treatmentData{
		CropType: diag.CropType,
		Disease:  disease,
		Severity: diag.Severity,
		Symptoms: diag.Symptoms,
		Cause:    diag.Cause,
		State:    strings.TrimSpace(in.State),
		Season:   strings.TrimSpace(in.Season),
		Language: lang,
	})
	if err != nil {
		return Treatment{}, err
	}
	raw, err := d.gen.GenerateText(ctx, text)
	if err != nil {
		return Treatment{}, err
	}
	var t Treatment
	if err := d.extractor.ExtractInto(raw, &t); err != nil {
		return Treatment{}, err
	}
	return t, nil
}

// reference lists the diseases the vision step should compare against.
// A crop hint selects that crop's diseases, narrowed to the region when the
// narrowing leaves anything. Otherwise the first entries of the whole base
// are listed by name.
func (d *Doctor) reference(cropHint, state string) string {
	if cropHint = strings.TrimSpace(cropHint); cropHint != "" {
		targeted := d.kb.DiseasesForCrop(cropHint)
		if state = strings.TrimSpace(state); state != "" {
			var regional []Disease
			for _, e := range targeted {
				if e.CommonIn(state) {
					regional = append(regional, e)
				}
			}
			if len(regional) > 0 {
				targeted = regional
			}
		}
		if len(targeted) > 0 {
			lines := make([]string, len(targeted))
			for i, e := range targeted {
				syms := e.Symptoms
				if len(syms) > targetedSymptomCount {
					syms = syms[:targetedSymptomCount]
				}
				lines[i] = fmt.Sprintf("  • %s (%s): %s", e.Name, e.ScientificName, strings.Join(syms, "; "))
			}
			return strings.Join(lines, "\n")
		}
	}

	all := d.kb.All()
	if len(all) > referenceListLength {
		all = all[:referenceListLength]
	}
	lines := make([]string, len(all))
	for i, e := range all {
		lines[i] = "  • " + e.Name
	}
	return strings.Join(lines, "\n")
}

// notPlant reports no crop, whatever the model guessed.
func notPlant() Diagnosis {
	return Diagnosis{
		IsPlant:           false,
		DiseaseCandidates: []Candidate{},
		Severity:          "N/A",
		Symptoms:          []string{},
		OrganicTreatment:  []string{},
		ChemicalTreatment: []string{},
		Prevention:        []string{},
		Urgency:           "N/A",
	}
}

func healthy(v VisionResult) Diagnosis {
	return Diagnosis{
		IsPlant:           true,
		CropType:          v.CropType,
		PlantPart:         v.PlantPart,
		DiseaseFound:      false,
		DiseaseCandidates: []Candidate{{Name: "Healthy", ConfidencePercentage: 100}},
		Severity:          "None",
		Symptoms:          []string{},
		Cause:             "",
		OrganicTreatment:  []string{},
		ChemicalTreatment: []string{},
		Prevention:        []string{},
		Urgency:           "No action needed",
	}
}

func fromVision(v VisionResult) Diagnosis {
	crop := v.CropType
	if crop == "" {
		crop = "Unknown crop"
	}
	candidates := v.DiseaseCandidates
	if len(candidates) == 0 {
		candidates = []Candidate{{Name: "Unknown"}}
	}
	return Diagnosis{
		IsPlant:           true,
		CropType:          crop,
		PlantPart:         v.PlantPart,
		DiseaseFound:      true,
		DiseaseCandidates: append([]Candidate(nil), candidates...),
		Severity:          v.Severity,
		Symptoms:          v.Symptoms,
		Cause:             v.Cause,
	}
}

// applyKB replaces the model's answer with verified data. The top
// candidate takes the knowledge-base name; observed symptoms and cause win
// over the stored ones when present.
func applyKB(diag *Diagnosis, e Disease) {
	diag.DiseaseCandidates[0].Name = e.Name
	diag.ScientificName = e.ScientificName
	switch {
	case diag.Severity != "":
	case e.SeverityRange != "":
		diag.Severity = e.SeverityRange
	default:
		diag.Severity = defaultSeverity
	}
	if len(diag.Symptoms) == 0 {
		diag.Symptoms = e.Symptoms
	}
	if diag.Cause == "" {
		diag.Cause = e.Cause
	}
	diag.OrganicTreatment = e.OrganicTreatment
	diag.ChemicalTreatment = e.ChemicalTreatment
	diag.Prevention = e.Prevention
	diag.KBMatch = true
}
