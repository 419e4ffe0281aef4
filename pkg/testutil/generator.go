// Package testutil provides deterministic fixture generators for research
// records. All generators are seeded so repeated runs produce identical data.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed        int64     // Random seed for determinism (0 = use current time)
	IDPrefix    string    // Prefix for record IDs (default: "test")
	BaseTime    time.Time // Base time for timestamps (default: fixed time)
	ImpactMix   []model.ImpactLevel
	CategoryMix []string
	RoleMix     []string
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		IDPrefix:    "test",
		BaseTime:    time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		ImpactMix:   []model.ImpactLevel{model.ImpactHigh, model.ImpactMedium, model.ImpactLow},
		CategoryMix: []string{"Usability", "Performance", "Trust", "Onboarding"},
		RoleMix:     []string{"researcher", "pm", "designer"},
	}
}

// Generator creates record fixtures from a seeded source.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	if len(cfg.ImpactMix) == 0 {
		cfg.ImpactMix = []model.ImpactLevel{model.ImpactMedium}
	}
	if len(cfg.CategoryMix) == 0 {
		cfg.CategoryMix = []string{"Usability"}
	}
	if len(cfg.RoleMix) == 0 {
		cfg.RoleMix = []string{"researcher"}
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var insightTitles = []string{
	"Users abandon setup at the data-source step",
	"Exported reports are trusted more than dashboards",
	"Search is the primary navigation for power users",
	"Weekly digest emails go unread by managers",
	"Pricing page raises questions about per-seat limits",
	"Onboarding checklist is skipped by returning admins",
	"Chart legends are misread as filters",
	"Session timeouts interrupt long analysis workflows",
}

var actionTitles = []string{
	"Simplify the data-source connection flow",
	"Add export confidence indicators to dashboards",
	"Promote search in the primary navigation",
	"Redesign the weekly digest for managers",
	"Clarify per-seat pricing copy",
	"Make the onboarding checklist dismissible",
}

var verbatims = []string{
	"Honestly the setup took longer than the analysis.",
	"I export to a spreadsheet because I trust numbers I can see.",
	"Search gets me there faster than the menus ever will.",
	"",
	"The weekly email just piles up unread.",
}

// Project returns a deterministic active project for the given slug.
func (g *Generator) Project(slug string) model.Project {
	return model.Project{
		ID:        fmt.Sprintf("%s-%s", g.cfg.IDPrefix, slug),
		Name:      slug,
		Slug:      slug,
		Type:      model.TypeDiscovery,
		Status:    model.ProjectActive,
		CreatedAt: g.cfg.BaseTime,
		UpdatedAt: g.cfg.BaseTime,
	}
}

// Insights generates n insights with rotating categories and impact levels.
func (g *Generator) Insights(n int) []model.Insight {
	out := make([]model.Insight, n)
	for i := 0; i < n; i++ {
		out[i] = model.Insight{
			ID:              fmt.Sprintf("%s-ins-%03d", g.cfg.IDPrefix, i+1),
			Title:           insightTitles[i%len(insightTitles)],
			Category:        g.cfg.CategoryMix[i%len(g.cfg.CategoryMix)],
			ImpactLevel:     g.cfg.ImpactMix[i%len(g.cfg.ImpactMix)],
			ConfidenceLevel: "Medium",
			Evidence: []string{
				fmt.Sprintf("P%d described the problem unprompted", g.rng.Intn(12)+1),
				fmt.Sprintf("Seen in %d of 8 sessions", g.rng.Intn(6)+2),
			},
			Status: "active",
		}
	}
	return out
}

// Actions generates n actions, every third one ownerless and not started.
func (g *Generator) Actions(n int) []model.Action {
	out := make([]model.Action, n)
	for i := 0; i < n; i++ {
		a := model.Action{
			ID:        fmt.Sprintf("%s-act-%03d", g.cfg.IDPrefix, i+1),
			Title:     actionTitles[i%len(actionTitles)],
			Priority:  model.PriorityHigh,
			Status:    model.ActionInProgress,
			Owner:     g.cfg.RoleMix[i%len(g.cfg.RoleMix)],
			CreatedAt: g.cfg.BaseTime.Add(time.Duration(i) * time.Hour),
		}
		if i%3 == 2 {
			a.Owner = ""
			a.Status = model.ActionNotStarted
		}
		out[i] = a
	}
	return out
}

// CSATResponses generates n survey responses spread over the weeks before
// BaseTime. Every fourth response skips the NPS question.
func (g *Generator) CSATResponses(n int, project string) []model.CSATResponse {
	out := make([]model.CSATResponse, n)
	for i := 0; i < n; i++ {
		overall := float64(g.rng.Intn(3) + 3) // 3..5
		r := model.CSATResponse{
			ID:     fmt.Sprintf("%s-csat-%03d", g.cfg.IDPrefix, i+1),
			UserID: fmt.Sprintf("user-%d", i%5+1),
			Scores: model.CSATScores{OverallSatisfaction: &overall},
			Context: model.CSATContext{
				Project: project,
				Role:    g.cfg.RoleMix[i%len(g.cfg.RoleMix)],
			},
			Verbatim:    verbatims[i%len(verbatims)],
			SubmittedAt: g.cfg.BaseTime.Add(-time.Duration(i) * 7 * 24 * time.Hour),
		}
		if i%4 != 3 {
			nps := g.rng.Intn(11)
			r.NPSScore = &nps
		}
		out[i] = r
	}
	return out
}

// Empty returns an empty insight slice for edge case testing.
func Empty() []model.Insight {
	return []model.Insight{}
}
