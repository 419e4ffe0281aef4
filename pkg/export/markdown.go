// Package export renders reports from the record corpus: markdown documents
// for the terminal (via glamour) or files, and a SQLite snapshot for
// external BI querying.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/analysis"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// ReportType names a markdown report.
type ReportType string

const (
	ReportInsights    ReportType = "insights"
	ReportActions     ReportType = "actions"
	ReportCSAT        ReportType = "csat"
	ReportROI         ReportType = "roi"
	ReportCompetitive ReportType = "competitive"
)

// ReportTypes lists every report fw report can produce.
var ReportTypes = []ReportType{ReportInsights, ReportActions, ReportCSAT, ReportROI, ReportCompetitive}

// Corpus is the full record set a report draws from.
type Corpus struct {
	Projects    []model.Project
	Insights    map[string][]model.Insight // keyed by project slug
	Actions     map[string][]model.Action
	Personas    []model.Persona
	Responses   []model.CSATResponse
	ROI         model.ROITracking
	Competitors []model.Competitor
	Features    []model.FeatureEntry
	Pricing     []model.PricingEntry
	Perception  []model.PerceptionEntry
	Releases    []model.ReleaseEntry
}

// GenerateReport renders the named report as markdown.
func GenerateReport(t ReportType, c Corpus, now time.Time) (string, error) {
	switch t {
	case ReportInsights:
		return insightsReport(c, now), nil
	case ReportActions:
		return actionsReport(c, now), nil
	case ReportCSAT:
		return csatReport(c, now), nil
	case ReportROI:
		return roiReport(c, now), nil
	case ReportCompetitive:
		return competitiveReport(c, now), nil
	default:
		return "", fmt.Errorf("unknown report type %q", t)
	}
}

func reportHeader(sb *strings.Builder, title string, now time.Time) {
	fmt.Fprintf(sb, "# %s\n\n*Generated: %s*\n\n", title, now.Format(time.RFC1123))
}

func insightsReport(c Corpus, now time.Time) string {
	var sb strings.Builder
	reportHeader(&sb, "Insights Report", now)

	total := 0
	byImpact := map[string]int{}
	for _, insights := range c.Insights {
		total += len(insights)
		for _, ins := range insights {
			byImpact[string(ins.ImpactLevel)]++
		}
	}
	sb.WriteString("## Summary\n\n| Metric | Count |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| Projects | %d |\n", len(c.Projects))
	fmt.Fprintf(&sb, "| Insights | %d |\n", total)
	for _, lvl := range []model.ImpactLevel{model.ImpactCritical, model.ImpactHigh, model.ImpactMedium, model.ImpactLow} {
		if n := byImpact[string(lvl)]; n > 0 {
			fmt.Fprintf(&sb, "| %s impact | %d |\n", lvl, n)
		}
	}
	sb.WriteString("\n")

	for _, p := range c.Projects {
		insights := c.Insights[p.Slug]
		if len(insights) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s (%d insights)\n\n", p.Name, len(insights))
		for _, ins := range insights {
			fmt.Fprintf(&sb, "- **%s** — %s impact, %s", ins.Title, ins.ImpactLevel, ins.Category)
			if ins.QualityMetrics != nil && ins.QualityMetrics.RatingCount > 0 {
				fmt.Fprintf(&sb, " (rated %.1f by %d)", ins.QualityMetrics.AverageRating, ins.QualityMetrics.RatingCount)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func actionsReport(c Corpus, now time.Time) string {
	var sb strings.Builder
	reportHeader(&sb, "Actions Report", now)

	type row struct {
		project string
		action  model.Action
	}
	var rows []row
	for slug, actions := range c.Actions {
		for _, a := range actions {
			rows = append(rows, row{project: slug, action: a})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].project != rows[j].project {
			return rows[i].project < rows[j].project
		}
		return rows[i].action.Title < rows[j].action.Title
	})

	sb.WriteString("| Project | Action | Priority | Status | Owner |\n|---------|--------|----------|--------|-------|\n")
	for _, r := range rows {
		owner := r.action.Owner
		if owner == "" {
			owner = "—"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			r.project, r.action.Title, r.action.Priority, r.action.Status, owner)
	}
	sb.WriteString("\n")
	return sb.String()
}

func csatReport(c Corpus, now time.Time) string {
	var sb strings.Builder
	reportHeader(&sb, "CSAT Report", now)

	agg := analysis.CalculateAggregates(c.Responses)
	sb.WriteString("## Summary\n\n| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| Responses | %d |\n", agg.TotalResponses)
	fmt.Fprintf(&sb, "| Average CSAT | %.2f |\n", agg.AverageCSAT)
	fmt.Fprintf(&sb, "| NPS | %d |\n\n", agg.NPSScore)

	if len(agg.Trend) > 0 {
		sb.WriteString("## Monthly trend\n\n| Month | Responses | CSAT | NPS |\n|-------|-----------|------|-----|\n")
		for _, pt := range agg.Trend {
			fmt.Fprintf(&sb, "| %s | %d | %.2f | %d |\n", pt.Month, pt.Responses, pt.AverageCSAT, pt.NPSScore)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func roiReport(c Corpus, now time.Time) string {
	var sb strings.Builder
	reportHeader(&sb, "ROI Report", now)

	if len(c.ROI.TrackedActions) == 0 {
		sb.WriteString("No tracked actions.\n")
		return sb.String()
	}
	sb.WriteString("| Action | Project | Period | CSAT Δ | NPS Δ |\n|--------|---------|--------|--------|-------|\n")
	for _, e := range c.ROI.TrackedActions {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			e.ActionID, e.Project, e.ImplementedPeriod,
			formatDelta(e.Metrics.CSAT.Delta, "%.2f"),
			formatDelta(e.Metrics.NPS.Delta, "%.0f"))
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatDelta(d *float64, format string) string {
	if d == nil {
		return "n/a"
	}
	s := fmt.Sprintf(format, *d)
	if *d > 0 {
		s = "+" + s
	}
	return s
}

func competitiveReport(c Corpus, now time.Time) string {
	var sb strings.Builder
	reportHeader(&sb, "Competitive Summary", now)

	fmt.Fprintf(&sb, "Tracking %d competitors, %d features, %d pricing entries, %d perception notes, %d releases.\n\n",
		len(c.Competitors), len(c.Features), len(c.Pricing), len(c.Perception), len(c.Releases))

	if len(c.Features) > 0 {
		sb.WriteString("## Feature matrix\n\n| Feature |")
		for _, comp := range c.Competitors {
			fmt.Fprintf(&sb, " %s |", comp.Name)
		}
		sb.WriteString("\n|---------|")
		for range c.Competitors {
			sb.WriteString("---|")
		}
		sb.WriteString("\n")
		for _, f := range c.Features {
			fmt.Fprintf(&sb, "| %s |", f.Feature)
			for _, comp := range c.Competitors {
				status := f.Status[comp.ID]
				if status == "" {
					status = "?"
				}
				fmt.Fprintf(&sb, " %s |", status)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(c.Releases) > 0 {
		sb.WriteString("## Recent releases\n\n")
		for _, r := range c.Releases {
			fmt.Fprintf(&sb, "- **%s**: %s", r.Competitor, r.Title)
			if r.Date != "" {
				fmt.Fprintf(&sb, " (%s)", r.Date)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
