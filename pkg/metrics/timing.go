// Package metrics provides lightweight performance instrumentation.
//
// Timing metrics are collected in-memory with atomic operations and
// surfaced through the debug endpoint of the dashboard server. Collection
// is enabled by default but can be disabled via FW_METRICS=0.
//
// Usage:
//
//	func expensiveOperation() {
//	    defer metrics.Timer(metrics.AuditRun)()
//	    // ... operation code
//	}
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled = os.Getenv("FW_METRICS") != "0"

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled = e
}

// TimingMetric tracks timing statistics for a named operation.
// All methods are thread-safe using atomic operations.
type TimingMetric struct {
	name    string
	count   int64
	totalNs int64
	maxNs   int64
	minNs   int64 // 0 means not set
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record records a single timing measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled {
		return
	}
	ns := d.Nanoseconds()

	atomic.AddInt64(&m.count, 1)
	atomic.AddInt64(&m.totalNs, ns)

	for {
		old := atomic.LoadInt64(&m.maxNs)
		if ns <= old || atomic.CompareAndSwapInt64(&m.maxNs, old, ns) {
			break
		}
	}

	for {
		old := atomic.LoadInt64(&m.minNs)
		if old != 0 && ns >= old {
			break
		}
		if atomic.CompareAndSwapInt64(&m.minNs, old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 {
	return atomic.LoadInt64(&m.count)
}

// Stats returns all timing statistics at once.
func (m *TimingMetric) Stats() TimingStats {
	count := atomic.LoadInt64(&m.count)
	totalNs := atomic.LoadInt64(&m.totalNs)
	maxNs := atomic.LoadInt64(&m.maxNs)
	minNs := atomic.LoadInt64(&m.minNs)

	var avgNs int64
	if count > 0 {
		avgNs = totalNs / count
	}

	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(totalNs) / 1e6,
		AvgMs:   float64(avgNs) / 1e6,
		MaxMs:   float64(maxNs) / 1e6,
		MinMs:   float64(minNs) / 1e6,
	}
}

// Reset clears all recorded measurements.
func (m *TimingMetric) Reset() {
	atomic.StoreInt64(&m.count, 0)
	atomic.StoreInt64(&m.totalNs, 0)
	atomic.StoreInt64(&m.maxNs, 0)
	atomic.StoreInt64(&m.minNs, 0)
}

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records elapsed time when called.
// Use with defer for automatic timing:
//
//	func myFunc() {
//	    defer metrics.Timer(metrics.StoreRead)()
//	    // ... function body
//	}
func Timer(m *TimingMetric) func() {
	if !enabled || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Global timing metrics for various operations.
var (
	StoreRead     = newTimingMetric("store_read")
	StoreWrite    = newTimingMetric("store_write")
	Aggregate     = newTimingMetric("csat_aggregate")
	AuditRun      = newTimingMetric("audit_run")
	ReportRender  = newTimingMetric("report_render")
	NotionRequest = newTimingMetric("notion_request")
	AgentRun      = newTimingMetric("agent_run")
	HTTPRequest   = newTimingMetric("http_request")
	SQLiteExport  = newTimingMetric("sqlite_export")
)

// AllTimingMetrics returns all registered timing metrics.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{
		StoreRead,
		StoreWrite,
		Aggregate,
		AuditRun,
		ReportRender,
		NotionRequest,
		AgentRun,
		HTTPRequest,
		SQLiteExport,
	}
}

// ResetAll resets all timing metrics.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns stats for metrics with recorded data.
func AllTimingStats() []TimingStats {
	all := AllTimingMetrics()
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}
