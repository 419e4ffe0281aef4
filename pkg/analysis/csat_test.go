package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func resp(overall *float64, nps *int, role, project string, submitted time.Time) model.CSATResponse {
	return model.CSATResponse{
		Scores:      model.CSATScores{OverallSatisfaction: overall},
		NPSScore:    nps,
		Context:     model.CSATContext{Role: role, Project: project},
		SubmittedAt: submitted,
	}
}

func TestAverageCSATCountsMissingScoresAsZero(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	agg := CalculateAggregates([]model.CSATResponse{
		resp(fp(4), nil, "", "", now),
		resp(fp(5), nil, "", "", now),
		resp(nil, nil, "", "", now), // contributes 0 to the mean
	})
	if agg.TotalResponses != 3 {
		t.Errorf("TotalResponses = %d", agg.TotalResponses)
	}
	if math.Abs(agg.AverageCSAT-3.0) > 1e-9 {
		t.Errorf("AverageCSAT = %v, want 3.0", agg.AverageCSAT)
	}
}

func TestNPSScoreExcludesNonRespondents(t *testing.T) {
	now := time.Now()
	// 2 promoters, 1 detractor, 1 passive, 1 skip: (2-1)/4 = 25
	agg := CalculateAggregates([]model.CSATResponse{
		resp(fp(5), ip(10), "", "", now),
		resp(fp(5), ip(9), "", "", now),
		resp(fp(2), ip(3), "", "", now),
		resp(fp(4), ip(8), "", "", now),
		resp(fp(4), nil, "", "", now),
	})
	if agg.NPSScore != 25 {
		t.Errorf("NPSScore = %d, want 25", agg.NPSScore)
	}
}

func TestNPSScoreNoRespondentsIsZero(t *testing.T) {
	agg := CalculateAggregates([]model.CSATResponse{
		resp(fp(5), nil, "", "", time.Now()),
	})
	if agg.NPSScore != 0 {
		t.Errorf("NPSScore = %d, want 0", agg.NPSScore)
	}
}

func TestAggregatesEmptyInput(t *testing.T) {
	agg := CalculateAggregates(nil)
	if agg.TotalResponses != 0 || agg.AverageCSAT != 0 || agg.NPSScore != 0 {
		t.Errorf("empty aggregates = %+v", agg)
	}
	if len(agg.ByRole) != 0 || len(agg.ByProject) != 0 || len(agg.Trend) != 0 {
		t.Errorf("empty breakdowns populated: %+v", agg)
	}
}

func TestAggregatesGroupMissingContextAsUnknown(t *testing.T) {
	now := time.Now()
	agg := CalculateAggregates([]model.CSATResponse{
		resp(fp(4), nil, "pm", "pilot", now),
		resp(fp(2), nil, "", "", now),
	})
	if agg.ByRole["pm"].Responses != 1 {
		t.Errorf("ByRole[pm] = %+v", agg.ByRole["pm"])
	}
	if agg.ByRole[unknownGroup].Responses != 1 {
		t.Errorf("ByRole[unknown] = %+v", agg.ByRole[unknownGroup])
	}
	if agg.ByProject[unknownGroup].AverageCSAT != 2 {
		t.Errorf("ByProject[unknown] = %+v", agg.ByProject[unknownGroup])
	}
}

func TestTrendIsMonthlyAndSorted(t *testing.T) {
	agg := CalculateAggregates([]model.CSATResponse{
		resp(fp(3), nil, "", "", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)),
		resp(fp(5), nil, "", "", time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)),
		resp(fp(4), nil, "", "", time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)),
	})
	if len(agg.Trend) != 2 {
		t.Fatalf("trend points = %d, want 2", len(agg.Trend))
	}
	if agg.Trend[0].Month != "2025-12" || agg.Trend[1].Month != "2026-02" {
		t.Errorf("months = %s, %s", agg.Trend[0].Month, agg.Trend[1].Month)
	}
	if agg.Trend[1].Responses != 2 || math.Abs(agg.Trend[1].AverageCSAT-3.5) > 1e-9 {
		t.Errorf("2026-02 point = %+v", agg.Trend[1])
	}
}

func TestVerbatimsNewestFirst(t *testing.T) {
	old := resp(fp(3), nil, "", "", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	old.Verbatim = "older comment"
	recent := resp(fp(4), nil, "", "", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	recent.Verbatim = "newer comment"
	silent := resp(fp(5), nil, "", "", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	out := Verbatims([]model.CSATResponse{old, silent, recent})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Verbatim != "newer comment" {
		t.Errorf("order wrong: %q first", out[0].Verbatim)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(3.456); got != 3.46 {
		t.Errorf("Round2(3.456) = %v", got)
	}
	if got := Round2(4); got != 4 {
		t.Errorf("Round2(4) = %v", got)
	}
}
