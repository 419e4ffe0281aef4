package analysis

import (
	"fmt"
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// Severity buckets for audit findings.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Audit check names. Each check has a fixed severity; the mapping lives in
// checkSeverity.
const (
	CheckMissingEvidence    = "insights_missing_evidence"
	CheckMissingSourceStudy = "insights_missing_source_study"
	CheckMissingFields      = "insights_missing_required_fields"
	CheckUnknownCategory    = "insights_unknown_category"
	CheckOrphanActions      = "actions_missing_source_insight"
	CheckOwnerlessActions   = "high_priority_actions_without_owner"
	CheckStaleActions       = "actions_not_started_over_30_days"
	CheckStalePersonas      = "personas_not_updated_90_days"
)

var checkSeverity = map[string]Severity{
	CheckMissingEvidence:    SeverityCritical,
	CheckMissingFields:      SeverityCritical,
	CheckOwnerlessActions:   SeverityWarning,
	CheckOrphanActions:      SeverityWarning,
	CheckStaleActions:       SeverityWarning,
	CheckMissingSourceStudy: SeverityInfo,
	CheckStalePersonas:      SeverityInfo,
	CheckUnknownCategory:    SeverityInfo,
}

// Staleness thresholds used by the battery.
const (
	staleActionAge  = 30 * 24 * time.Hour
	stalePersonaAge = 90 * 24 * time.Hour
)

// Finding is one audit check's result.
type Finding struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
	Details  []string `json:"details,omitempty"`
}

// AuditResult is the full battery outcome plus the derived quality score.
type AuditResult struct {
	Findings     []Finding `json:"findings"`
	Criticals    int       `json:"criticals"`
	Warnings     int       `json:"warnings"`
	Infos        int       `json:"infos"`
	QualityScore float64   `json:"qualityScore"` // 0-10
}

// RunAudit evaluates the fixed battery of data-quality heuristics over the
// full corpus. Checks that find nothing are omitted from the result.
func RunAudit(insights []model.Insight, actions []model.Action, personas []model.Persona, now time.Time) AuditResult {
	var result AuditResult

	categories := map[string]bool{}
	for _, c := range model.InsightCategories {
		categories[c] = true
	}

	var missingEvidence, missingSource, missingFields, unknownCategory []string
	for _, ins := range insights {
		if len(ins.Evidence) == 0 {
			missingEvidence = append(missingEvidence, label(ins.ID, ins.Title))
		}
		if ins.SourceStudy == "" {
			missingSource = append(missingSource, label(ins.ID, ins.Title))
		}
		if ins.Validate() != nil {
			missingFields = append(missingFields, label(ins.ID, ins.Title))
		}
		if ins.Category != "" && !categories[ins.Category] {
			unknownCategory = append(unknownCategory, fmt.Sprintf("%s (category %q)", label(ins.ID, ins.Title), ins.Category))
		}
	}
	result.add(CheckMissingEvidence, missingEvidence)
	result.add(CheckMissingSourceStudy, missingSource)
	result.add(CheckMissingFields, missingFields)
	result.add(CheckUnknownCategory, unknownCategory)

	var orphans, ownerless, stale []string
	for _, a := range actions {
		if a.SourceInsight == "" {
			orphans = append(orphans, label(a.ID, a.Title))
		}
		if a.HighPriority() && a.Owner == "" {
			ownerless = append(ownerless, label(a.ID, a.Title))
		}
		if a.Status == model.ActionNotStarted && !a.CreatedAt.IsZero() && now.Sub(a.CreatedAt) > staleActionAge {
			stale = append(stale, label(a.ID, a.Title))
		}
	}
	result.add(CheckOrphanActions, orphans)
	result.add(CheckOwnerlessActions, ownerless)
	result.add(CheckStaleActions, stale)

	var stalePersonas []string
	for _, p := range personas {
		if p.LastUpdated.IsZero() || now.Sub(p.LastUpdated) > stalePersonaAge {
			stalePersonas = append(stalePersonas, label(p.ID, p.Name))
		}
	}
	result.add(CheckStalePersonas, stalePersonas)

	result.QualityScore = qualityScore(result.Criticals, result.Warnings, result.Infos)
	return result
}

func (r *AuditResult) add(check string, details []string) {
	if len(details) == 0 {
		return
	}
	sev := checkSeverity[check]
	r.Findings = append(r.Findings, Finding{
		Check:    check,
		Severity: sev,
		Count:    len(details),
		Details:  details,
	})
	switch sev {
	case SeverityCritical:
		r.Criticals++
	case SeverityWarning:
		r.Warnings++
	case SeverityInfo:
		r.Infos++
	}
}

// qualityScore maps finding counts onto a 0-10 scale: each critical check
// costs 3 points, each warning 1, each info a quarter.
func qualityScore(criticals, warnings, infos int) float64 {
	score := 10 - 3*float64(criticals) - float64(warnings) - 0.25*float64(infos)
	if score < 0 {
		return 0
	}
	return score
}

func label(id, title string) string {
	if title == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", id, title)
}
