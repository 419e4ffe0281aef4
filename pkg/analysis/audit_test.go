package analysis

import (
	"testing"
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

var auditNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func finding(r AuditResult, check string) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Check == check {
			return f, true
		}
	}
	return Finding{}, false
}

func TestRunAuditCleanCorpusScoresTen(t *testing.T) {
	insights := []model.Insight{{
		ID:          "i1",
		Title:       "Users skip onboarding",
		Category:    "Usability",
		Evidence:    []string{"P3 session"},
		SourceStudy: "pilot-a",
	}}
	actions := []model.Action{{
		ID:            "a1",
		Title:         "Shorten onboarding",
		Priority:      model.PriorityHigh,
		Owner:         "sam",
		SourceInsight: "i1",
		Status:        model.ActionInProgress,
		CreatedAt:     auditNow.Add(-24 * time.Hour),
	}}
	personas := []model.Persona{{ID: "p1", Name: "Analyst", LastUpdated: auditNow.Add(-24 * time.Hour)}}

	result := RunAudit(insights, actions, personas, auditNow)
	if len(result.Findings) != 0 {
		t.Errorf("clean corpus produced findings: %+v", result.Findings)
	}
	if result.QualityScore != 10 {
		t.Errorf("QualityScore = %v, want 10", result.QualityScore)
	}
}

func TestRunAuditFlagsEachCheck(t *testing.T) {
	insights := []model.Insight{
		{ID: "i1", Title: "No evidence here", Category: "Usability", SourceStudy: "s"},
		{ID: "i2", Title: "", Category: "Mystery", Evidence: []string{"x"}, SourceStudy: "s"},
	}
	actions := []model.Action{
		{ID: "a1", Title: "Orphan high prio", Priority: model.PriorityCritical, Status: model.ActionNotStarted,
			CreatedAt: auditNow.Add(-40 * 24 * time.Hour)},
	}
	personas := []model.Persona{
		{ID: "p1", Name: "Dusty", LastUpdated: auditNow.Add(-100 * 24 * time.Hour)},
	}

	result := RunAudit(insights, actions, personas, auditNow)

	for _, check := range []string{
		CheckMissingEvidence, CheckMissingFields, CheckUnknownCategory,
		CheckOrphanActions, CheckOwnerlessActions, CheckStaleActions, CheckStalePersonas,
	} {
		if _, ok := finding(result, check); !ok {
			t.Errorf("check %s not flagged", check)
		}
	}
	// i1 lacks evidence, i2 lacks a title: both criticals fired.
	if result.Criticals != 2 {
		t.Errorf("Criticals = %d, want 2", result.Criticals)
	}
	if result.Warnings != 3 {
		t.Errorf("Warnings = %d, want 3", result.Warnings)
	}
}

func TestQualityScoreFloorsAtZero(t *testing.T) {
	if got := qualityScore(3, 2, 4); got != 0 {
		t.Errorf("qualityScore(3,2,4) = %v, want 0", got)
	}
	if got := qualityScore(1, 1, 2); got != 5.5 {
		t.Errorf("qualityScore(1,1,2) = %v, want 5.5", got)
	}
	if got := qualityScore(0, 0, 0); got != 10 {
		t.Errorf("qualityScore(0,0,0) = %v, want 10", got)
	}
}

func TestAuditEmptyCorpus(t *testing.T) {
	result := RunAudit(nil, nil, nil, auditNow)
	if len(result.Findings) != 0 || result.QualityScore != 10 {
		t.Errorf("empty corpus: %+v", result)
	}
}
