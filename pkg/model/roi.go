package model

import "time"

// MetricDelta is a before/after pair for one metric. Delta is nil unless
// both Before and After are non-nil.
type MetricDelta struct {
	Before *float64 `json:"before"`
	After  *float64 `json:"after"`
	Delta  *float64 `json:"delta"`
}

// ROIMetrics groups the tracked CSAT and NPS movements of one action.
type ROIMetrics struct {
	CSAT MetricDelta `json:"csat"`
	NPS  MetricDelta `json:"nps"`
}

// ROIEntry links an implemented action to the period-over-period CSAT/NPS
// movement attributed to it. Entries are keyed by (ActionID, Project);
// re-tracking the same pair overwrites in place.
type ROIEntry struct {
	ActionID          string     `json:"actionId"`
	Project           string     `json:"project"`
	ImplementedPeriod string     `json:"implementedPeriod"`
	PreviousPeriod    string     `json:"previousPeriod"`
	Metrics           ROIMetrics `json:"metrics"`
	TrackedAt         time.Time  `json:"trackedAt"`
}

// ROITracking is the shared roi-tracking.json document.
type ROITracking struct {
	TrackedActions []ROIEntry `json:"trackedActions"`
}

// Upsert replaces the entry with e's (ActionID, Project) key, or appends
// when no such entry exists.
func (t *ROITracking) Upsert(e ROIEntry) {
	for i := range t.TrackedActions {
		if t.TrackedActions[i].ActionID == e.ActionID && t.TrackedActions[i].Project == e.Project {
			t.TrackedActions[i] = e
			return
		}
	}
	t.TrackedActions = append(t.TrackedActions, e)
}

// Remove deletes every entry for actionID and reports whether any existed.
func (t *ROITracking) Remove(actionID string) bool {
	kept := t.TrackedActions[:0]
	removed := false
	for _, e := range t.TrackedActions {
		if e.ActionID == actionID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	t.TrackedActions = kept
	return removed
}

// QuarterMetrics holds one organization's (or the bank-wide) scores for a
// fiscal quarter, as maintained in shared/quarterly-metrics.json.
type QuarterMetrics struct {
	CSAT *float64 `json:"csat"`
	NPS  *float64 `json:"nps"`
}

// QuarterlyMetrics is the external metrics document ROI deltas are resolved
// against: period -> scope -> scores, where scope is an organization name or
// "bankwide".
type QuarterlyMetrics struct {
	Periods map[string]map[string]QuarterMetrics `json:"periods"`
}

// BankwideScope is the fallback scope when no organization-scoped metrics
// exist for a period.
const BankwideScope = "bankwide"

// Lookup resolves the scores for period, preferring the organization scope
// and falling back to bank-wide. The second return is false when neither
// scope has data for the period.
func (q QuarterlyMetrics) Lookup(period, organization string) (QuarterMetrics, bool) {
	scopes, ok := q.Periods[period]
	if !ok {
		return QuarterMetrics{}, false
	}
	if organization != "" {
		if m, ok := scopes[organization]; ok {
			return m, true
		}
	}
	m, ok := scopes[BankwideScope]
	return m, ok
}
