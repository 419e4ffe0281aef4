package analysis

import (
	"sort"
	"strings"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// ProjectStats is the per-project summary served by the stats endpoint and
// printed by fw analyze.
type ProjectStats struct {
	TotalInsights      int            `json:"totalInsights"`
	TotalActions       int            `json:"totalActions"`
	InsightsByCategory map[string]int `json:"insightsByCategory"`
	InsightsByImpact   map[string]int `json:"insightsByImpact"`
	ActionsByStatus    map[string]int `json:"actionsByStatus"`
	ActionsByPriority  map[string]int `json:"actionsByPriority"`
}

// ComputeProjectStats derives counters from a project's full record set.
func ComputeProjectStats(insights []model.Insight, actions []model.Action) ProjectStats {
	stats := ProjectStats{
		TotalInsights:      len(insights),
		TotalActions:       len(actions),
		InsightsByCategory: map[string]int{},
		InsightsByImpact:   map[string]int{},
		ActionsByStatus:    map[string]int{},
		ActionsByPriority:  map[string]int{},
	}
	for _, ins := range insights {
		if ins.Category != "" {
			stats.InsightsByCategory[ins.Category]++
		}
		if ins.ImpactLevel != "" {
			stats.InsightsByImpact[string(ins.ImpactLevel)]++
		}
	}
	for _, a := range actions {
		if a.Status != "" {
			stats.ActionsByStatus[a.Status]++
		}
		if a.Priority != "" {
			stats.ActionsByPriority[string(a.Priority)]++
		}
	}
	return stats
}

// Theme is a recurring topic across the insight corpus.
type Theme struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Insights []string `json:"insights"`
}

// Themes groups insights by category across projects, largest first.
// Ties break alphabetically so output is stable.
func Themes(insights []model.Insight) []Theme {
	byCategory := map[string]*Theme{}
	for _, ins := range insights {
		cat := ins.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		t, ok := byCategory[cat]
		if !ok {
			t = &Theme{Name: cat}
			byCategory[cat] = t
		}
		t.Count++
		t.Insights = append(t.Insights, ins.ID)
	}
	themes := make([]Theme, 0, len(byCategory))
	for _, t := range byCategory {
		themes = append(themes, *t)
	}
	sort.Slice(themes, func(i, j int) bool {
		if themes[i].Count != themes[j].Count {
			return themes[i].Count > themes[j].Count
		}
		return themes[i].Name < themes[j].Name
	})
	return themes
}

// Gaps lists taxonomy categories with no extracted insights, a simple
// coverage check for fw analyze --gaps.
func Gaps(insights []model.Insight) []string {
	seen := map[string]bool{}
	for _, ins := range insights {
		seen[ins.Category] = true
	}
	var gaps []string
	for _, cat := range model.InsightCategories {
		if !seen[cat] {
			gaps = append(gaps, cat)
		}
	}
	return gaps
}

// Patterns finds product areas that surface in more than one project, the
// cross-project signal fw analyze --patterns reports.
func Patterns(byProject map[string][]model.Insight) []Theme {
	areaProjects := map[string]map[string]bool{}
	areaInsights := map[string][]string{}
	for project, insights := range byProject {
		for _, ins := range insights {
			area := strings.TrimSpace(ins.ProductArea)
			if area == "" {
				continue
			}
			if areaProjects[area] == nil {
				areaProjects[area] = map[string]bool{}
			}
			areaProjects[area][project] = true
			areaInsights[area] = append(areaInsights[area], ins.ID)
		}
	}
	var patterns []Theme
	for area, projects := range areaProjects {
		if len(projects) < 2 {
			continue
		}
		patterns = append(patterns, Theme{
			Name:     area,
			Count:    len(projects),
			Insights: areaInsights[area],
		})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		return patterns[i].Name < patterns[j].Name
	})
	return patterns
}
