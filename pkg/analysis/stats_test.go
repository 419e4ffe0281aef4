package analysis

import (
	"testing"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func TestComputeProjectStats(t *testing.T) {
	insights := []model.Insight{
		{ID: "i1", Category: "Usability", ImpactLevel: model.ImpactHigh},
		{ID: "i2", Category: "Usability", ImpactLevel: model.ImpactLow},
		{ID: "i3", Category: "Pricing"},
	}
	actions := []model.Action{
		{ID: "a1", Status: model.ActionNotStarted, Priority: model.PriorityHigh},
		{ID: "a2", Status: model.ActionDone, Priority: model.PriorityHigh},
	}

	stats := ComputeProjectStats(insights, actions)
	if stats.TotalInsights != 3 || stats.TotalActions != 2 {
		t.Errorf("totals = %d/%d", stats.TotalInsights, stats.TotalActions)
	}
	if stats.InsightsByCategory["Usability"] != 2 || stats.InsightsByCategory["Pricing"] != 1 {
		t.Errorf("by category = %v", stats.InsightsByCategory)
	}
	if stats.InsightsByImpact[string(model.ImpactHigh)] != 1 {
		t.Errorf("by impact = %v", stats.InsightsByImpact)
	}
	if stats.ActionsByPriority[string(model.PriorityHigh)] != 2 {
		t.Errorf("by priority = %v", stats.ActionsByPriority)
	}
}

func TestThemesOrderedByCountThenName(t *testing.T) {
	themes := Themes([]model.Insight{
		{ID: "i1", Category: "Pricing"},
		{ID: "i2", Category: "Usability"},
		{ID: "i3", Category: "Usability"},
		{ID: "i4", Category: "Onboarding"},
		{ID: "i5"},
	})
	if len(themes) != 4 {
		t.Fatalf("len = %d, want 4", len(themes))
	}
	if themes[0].Name != "Usability" || themes[0].Count != 2 {
		t.Errorf("first theme = %+v", themes[0])
	}
	// Singletons tie, so they sort alphabetically.
	if themes[1].Name != "Onboarding" || themes[2].Name != "Pricing" || themes[3].Name != "Uncategorized" {
		t.Errorf("tie order = %s, %s, %s", themes[1].Name, themes[2].Name, themes[3].Name)
	}
}

func TestGapsListsUncoveredCategories(t *testing.T) {
	gaps := Gaps([]model.Insight{{Category: "Usability"}})
	for _, g := range gaps {
		if g == "Usability" {
			t.Error("covered category reported as gap")
		}
	}
	if len(gaps) != len(model.InsightCategories)-1 {
		t.Errorf("gaps = %d, want %d", len(gaps), len(model.InsightCategories)-1)
	}
}

func TestPatternsRequireTwoProjects(t *testing.T) {
	byProject := map[string][]model.Insight{
		"pilot-a": {
			{ID: "i1", ProductArea: "Checkout"},
			{ID: "i2", ProductArea: "Search"},
		},
		"pilot-b": {
			{ID: "i3", ProductArea: "Checkout"},
		},
	}
	patterns := Patterns(byProject)
	if len(patterns) != 1 {
		t.Fatalf("patterns = %+v", patterns)
	}
	if patterns[0].Name != "Checkout" || patterns[0].Count != 2 {
		t.Errorf("pattern = %+v", patterns[0])
	}
	if len(patterns[0].Insights) != 2 {
		t.Errorf("insights = %v", patterns[0].Insights)
	}
}
