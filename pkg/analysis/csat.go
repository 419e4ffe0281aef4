// Package analysis contains the derivation engine: CSAT/NPS aggregation,
// survey eligibility, ROI period deltas, audit heuristics, and project
// statistics. Everything here is recomputed from the full record set on
// demand; nothing is cached or incrementally updated.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// GroupAggregate is the CSAT/NPS summary of one breakdown bucket.
type GroupAggregate struct {
	Responses   int     `json:"responses"`
	AverageCSAT float64 `json:"averageCSAT"`
	NPSScore    int     `json:"npsScore"`
}

// TrendPoint is one calendar month of the trend series.
type TrendPoint struct {
	Month       string  `json:"month"` // YYYY-MM
	Responses   int     `json:"responses"`
	AverageCSAT float64 `json:"averageCSAT"`
	NPSScore    int     `json:"npsScore"`
}

// Aggregates is the full derived CSAT summary.
type Aggregates struct {
	TotalResponses int                       `json:"totalResponses"`
	AverageCSAT    float64                   `json:"averageCSAT"`
	NPSScore       int                       `json:"npsScore"`
	ByRole         map[string]GroupAggregate `json:"byRole"`
	ByProject      map[string]GroupAggregate `json:"byProject"`
	Trend          []TrendPoint              `json:"trend"`
}

// unknownGroup buckets responses whose context omits the breakdown field.
const unknownGroup = "unknown"

// CalculateAggregates derives the CSAT summary from the complete response
// list. A response with no overallSatisfaction score contributes 0 to the
// mean rather than being excluded; that biases the average downward and is
// preserved deliberately for parity with the numbers the dashboard has
// always shown (see doctor's data-quality note).
func CalculateAggregates(responses []model.CSATResponse) Aggregates {
	agg := Aggregates{
		TotalResponses: len(responses),
		ByRole:         map[string]GroupAggregate{},
		ByProject:      map[string]GroupAggregate{},
	}
	agg.AverageCSAT = averageCSAT(responses)
	agg.NPSScore = npsScore(responses)

	byRole := groupBy(responses, func(r model.CSATResponse) string { return r.Context.Role })
	for role, group := range byRole {
		agg.ByRole[role] = GroupAggregate{
			Responses:   len(group),
			AverageCSAT: averageCSAT(group),
			NPSScore:    npsScore(group),
		}
	}
	byProject := groupBy(responses, func(r model.CSATResponse) string { return r.Context.Project })
	for project, group := range byProject {
		agg.ByProject[project] = GroupAggregate{
			Responses:   len(group),
			AverageCSAT: averageCSAT(group),
			NPSScore:    npsScore(group),
		}
	}

	byMonth := groupBy(responses, func(r model.CSATResponse) string {
		return r.SubmittedAt.Format("2006-01")
	})
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		group := byMonth[m]
		agg.Trend = append(agg.Trend, TrendPoint{
			Month:       m,
			Responses:   len(group),
			AverageCSAT: averageCSAT(group),
			NPSScore:    npsScore(group),
		})
	}
	return agg
}

func groupBy(responses []model.CSATResponse, key func(model.CSATResponse) string) map[string][]model.CSATResponse {
	groups := map[string][]model.CSATResponse{}
	for _, r := range responses {
		k := key(r)
		if k == "" {
			k = unknownGroup
		}
		groups[k] = append(groups[k], r)
	}
	return groups
}

// averageCSAT is the mean overallSatisfaction with missing scores counted
// as 0, rounded to two decimals.
func averageCSAT(responses []model.CSATResponse) float64 {
	if len(responses) == 0 {
		return 0
	}
	scores := make([]float64, len(responses))
	for i, r := range responses {
		if r.Scores.OverallSatisfaction != nil {
			scores[i] = *r.Scores.OverallSatisfaction
		}
	}
	return Round2(stat.Mean(scores, nil))
}

// npsScore is round(100 * (promoters - detractors) / respondents), where
// promoters score >= 9, detractors <= 6, and respondents exclude responses
// with no NPS answer. Zero respondents yields 0.
func npsScore(responses []model.CSATResponse) int {
	promoters, detractors, respondents := 0, 0, 0
	for _, r := range responses {
		if r.NPSScore == nil {
			continue
		}
		respondents++
		switch {
		case *r.NPSScore >= 9:
			promoters++
		case *r.NPSScore <= 6:
			detractors++
		}
	}
	if respondents == 0 {
		return 0
	}
	return int(math.Round(float64(promoters-detractors) / float64(respondents) * 100))
}

// Round2 rounds to two decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Verbatims returns the responses carrying free-text comments, newest first.
func Verbatims(responses []model.CSATResponse) []model.CSATResponse {
	var out []model.CSATResponse
	for _, r := range responses {
		if r.Verbatim != "" {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}
