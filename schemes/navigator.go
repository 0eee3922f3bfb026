package schemes

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/neer-farm/neer/parser"
	"github.com/neer-farm/neer/prompt"
)

// Agent step names recorded in Result.AgentSteps.
const (
	StepEligibility = "eligibility_filter"
	StepRanking     = "ai_ranking"
)

// DefaultLanguage is used when a Request names none.
const DefaultLanguage = "English"

// TextGenerator is the model surface a Navigator needs. *cascade.Dispatcher
// satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Request describes the farmer.
type Request struct {
	State     string       `json:"state"`
	LandAcres float64      `json:"land_size"`
	Language  string       `json:"lang"`
	Crop      *CropContext `json:"crop_context,omitempty"`
}

// Match is one eligible scheme with its tier.
type Match struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Short      string   `json:"short"`
	Category   string   `json:"category"`
	Tier       Tier     `json:"tier"`
	Reason     string   `json:"reason"`
	Benefits   string   `json:"benefits"`
	ApplyURL   string   `json:"apply_url"`
	ApplySteps []string `json:"apply_steps"`
	Tags       []string `json:"tags"`
}

// Result is returned by Navigator.Find.
type Result struct {
	AgentSteps   []string `json:"agent_steps"`
	TotalSchemes int      `json:"total_schemes"`
	Summary      string   `json:"summary"`
	Schemes      []Match  `json:"schemes"`

	// Fallback is set when rule tiers replaced the model ranking.
	Fallback bool `json:"fallback"`
}

// Ranking is the JSON shape requested from the model.
type Ranking struct {
	RankedSchemes []Ranked `json:"ranked_schemes"`
	Summary       string   `json:"summary"`
}

// Ranked is one entry of a Ranking.
type Ranked struct {
	ID     string `json:"id"`
	Tier   Tier   `json:"tier"`
	Reason string `json:"reason"`
}

// Navigator runs scheme matching. Safe for concurrent use.
type Navigator struct {
	catalog   *Catalog
	gen       TextGenerator
	prompts   *prompt.Engine
	extractor *parser.Extractor
	logger    *slog.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithExtractor replaces the JSON extractor.
func WithExtractor(e *parser.Extractor) Option {
	return func(n *Navigator) {
		if e != nil {
			n.extractor = e
		}
	}
}

// NewNavigator creates a Navigator over catalog.
func NewNavigator(catalog *Catalog, gen TextGenerator, opts ...Option) *Navigator {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	n := &Navigator{
		catalog:   catalog,
		gen:       gen,
		prompts:   prompt.NewEngine(),
		extractor: parser.NewExtractor(),
		logger:    slog.Default(),
	}
	n.prompts.MustRegister(rankingPrompt, rankingTemplate)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Find filters the catalog for req and ranks the eligible schemes. Ranking
// failures fall back to rule tiers; only a prompt rendering failure is
// returned as an error.
func (n *Navigator) Find(ctx context.Context, req Request) (*Result, error) {
	steps := []string{StepEligibility}
	eligible := n.catalog.Filter(req.State, req.LandAcres)
	n.logger.Debug("scheme eligibility filtered",
		slog.String("state", req.State),
		slog.Float64("land_acres", req.LandAcres),
		slog.Int("eligible", len(eligible)),
		slog.Int("total", n.catalog.Len()))

	if len(eligible) == 0 {
		return &Result{
			AgentSteps: steps,
			Schemes:    []Match{},
			Summary:    "No matching schemes found for your state and land size.",
		}, nil
	}

	steps = append(steps, StepRanking)
	tiers := make(map[string]Tier, len(eligible))
	for _, s := range eligible {
		tiers[s.ID] = PreTier(s, req.Crop)
	}

	ranking, err := n.rank(ctx, req, eligible, tiers)
	fallback := err != nil
	if fallback {
		n.logger.Warn("scheme ranking failed, using rule tiers", slog.Any("error", err))
		ranking = fallbackRanking(eligible, tiers)
	}

	matches := Merge(eligible, tiers, ranking)
	summary := ranking.Summary
	if summary == "" {
		summary = fmt.Sprintf("Found %d schemes matching your profile.", len(matches))
	}
	return &Result{
		AgentSteps:   steps,
		TotalSchemes: len(matches),
		Summary:      summary,
		Schemes:      matches,
		Fallback:     fallback,
	}, nil
}

func (n *Navigator) rank(ctx context.Context, req Request, eligible []Scheme, tiers map[string]Tier) (Ranking, error) {
	lang := req.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	lines := make([]rankingLine, len(eligible))
	for i, s := range eligible {
		lines[i] = rankingLine{
			ID:       s.ID,
			PreTier:  tiers[s.ID],
			Name:     s.Name,
			Short:    s.Short,
			Category: s.Category,
			Tags:     s.Tags,
		}
	}
	text, err := n.prompts.Render(rankingPrompt, rankingData{
		State:    req.State,
		Land:     req.LandAcres,
		Crop:     req.Crop,
		Schemes:  lines,
		Language: lang,
	})
	if err != nil {
		return Ranking{}, err
	}

	raw, err := n.gen.GenerateText(ctx, text)
	if err != nil {
		return Ranking{}, err
	}
	var r Ranking
	if err := n.extractor.ExtractInto(raw, &r); err != nil {
		return Ranking{}, err
	}
	return r, nil
}

func fallbackRanking(eligible []Scheme, tiers map[string]Tier) Ranking {
	ranked := make([]Ranked, len(eligible))
	for i, s := range eligible {
		ranked[i] = Ranked{ID: s.ID, Tier: tiers[s.ID], Reason: s.Short}
	}
	return Ranking{
		RankedSchemes: ranked,
		Summary:       fmt.Sprintf("Found %d eligible schemes based on your profile.", len(ranked)),
	}
}

// Merge joins a ranking with the eligible schemes. Ranked schemes come
// first in ranking order; ids that are unknown or repeated are skipped.
// Eligible schemes the ranking left out follow with their rule tier and no
// reason. The result is stably sorted by tier.
func Merge(eligible []Scheme, tiers map[string]Tier, ranking Ranking) []Match {
	byID := make(map[string]Scheme, len(eligible))
	for _, s := range eligible {
		byID[s.ID] = s
	}

	out := make([]Match, 0, len(eligible))
	used := make(map[string]bool, len(eligible))
	for _, r := range ranking.RankedSchemes {
		s, ok := byID[r.ID]
		if !ok || used[r.ID] {
			continue
		}
		tier := Tier(strings.ToLower(strings.TrimSpace(string(r.Tier))))
		if tier == "" {
			tier = TierAvailable
		}
		out = append(out, toMatch(s, tier, r.Reason))
		used[r.ID] = true
	}
	for _, s := range eligible {
		if used[s.ID] {
			continue
		}
		tier, ok := tiers[s.ID]
		if !ok {
			tier = TierAvailable
		}
		out = append(out, toMatch(s, tier, ""))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tier.Rank() < out[j].Tier.Rank()
	})
	return out
}

func toMatch(s Scheme, tier Tier, reason string) Match {
	return Match{
		ID:         s.ID,
		Name:       s.Name,
		Short:      s.Short,
		Category:   s.Category,
		Tier:       tier,
		Reason:     reason,
		Benefits:   s.Benefits,
		ApplyURL:   s.ApplyURL,
		ApplySteps: s.ApplySteps,
		Tags:       s.Tags,
	}
}
