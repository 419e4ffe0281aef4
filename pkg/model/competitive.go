package model

import (
	"fmt"
	"time"
)

// Competitive records are append-only arrays with sequential suffix IDs
// (pricing-001, rel-001, ...). NextSequentialID derives the next suffix from
// the current record count, the numbering scheme the dashboard sorts by.

// Competitor is one tracked competitor.
type Competitor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Segment string `json:"segment,omitempty"`
	Website string `json:"website,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// FeatureEntry records a capability and each competitor's support status.
type FeatureEntry struct {
	ID       string            `json:"id"`
	Feature  string            `json:"feature"`
	Category string            `json:"category,omitempty"`
	Status   map[string]string `json:"status"` // competitor ID -> "yes"/"no"/"partial"/"planned"
	AddedAt  time.Time         `json:"addedAt"`
}

// PricingEntry records a competitor's pricing observation.
type PricingEntry struct {
	ID         string    `json:"id"`
	Competitor string    `json:"competitor"`
	Plan       string    `json:"plan"`
	Price      string    `json:"price"`
	Notes      string    `json:"notes,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// PerceptionEntry records a market-perception observation.
type PerceptionEntry struct {
	ID         string    `json:"id"`
	Competitor string    `json:"competitor"`
	Source     string    `json:"source,omitempty"`
	Sentiment  string    `json:"sentiment,omitempty"`
	Summary    string    `json:"summary"`
	AddedAt    time.Time `json:"addedAt"`
}

// ReleaseEntry records a competitor release-log item.
type ReleaseEntry struct {
	ID         string    `json:"id"`
	Competitor string    `json:"competitor"`
	Title      string    `json:"title"`
	Date       string    `json:"date,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// NextSequentialID returns "<prefix>-NNN" for the next record in a list of
// n existing records, e.g. NextSequentialID("pricing", 0) == "pricing-001".
func NextSequentialID(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n+1)
}
