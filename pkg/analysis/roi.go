package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// PreviousPeriod resolves the fiscal quarter preceding a "YYYY-Qn" period.
// Q1 rolls back to Q4 of the prior year.
//
//	PreviousPeriod("2026-Q1") == "2025-Q4"
//	PreviousPeriod("2026-Q3") == "2026-Q2"
func PreviousPeriod(period string) (string, error) {
	year, quarter, err := parsePeriod(period)
	if err != nil {
		return "", err
	}
	if quarter == 1 {
		return fmt.Sprintf("%d-Q4", year-1), nil
	}
	return fmt.Sprintf("%d-Q%d", year, quarter-1), nil
}

// PeriodRange resolves a "YYYY-Qn" period to its [start, end) time window.
func PeriodRange(period string) (start, end time.Time, err error) {
	year, quarter, err := parsePeriod(period)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = time.Date(year, time.Month(3*(quarter-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 3, 0), nil
}

func parsePeriod(period string) (year, quarter int, err error) {
	parts := strings.SplitN(period, "-Q", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid period %q (want YYYY-Qn)", period)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period %q (want YYYY-Qn)", period)
	}
	quarter, err = strconv.Atoi(parts[1])
	if err != nil || quarter < 1 || quarter > 4 {
		return 0, 0, fmt.Errorf("invalid period %q: quarter must be 1-4", period)
	}
	return year, quarter, nil
}

// TrackROI builds the ROI entry for an action implemented in period,
// resolving before/after scores from the quarterly metrics document.
// Metric deltas stay nil whenever either side of the pair is missing:
// CSAT deltas are rounded to two decimals, NPS deltas to whole points.
func TrackROI(actionID, project, period, organization string, metrics model.QuarterlyMetrics, now time.Time) (model.ROIEntry, error) {
	prev, err := PreviousPeriod(period)
	if err != nil {
		return model.ROIEntry{}, err
	}

	before, _ := metrics.Lookup(prev, organization)
	after, _ := metrics.Lookup(period, organization)

	entry := model.ROIEntry{
		ActionID:          actionID,
		Project:           project,
		ImplementedPeriod: period,
		PreviousPeriod:    prev,
		TrackedAt:         now,
	}
	entry.Metrics.CSAT = delta(before.CSAT, after.CSAT, Round2)
	entry.Metrics.NPS = delta(before.NPS, after.NPS, func(f float64) float64 { return math.Round(f) })
	return entry, nil
}

func delta(before, after *float64, round func(float64) float64) model.MetricDelta {
	d := model.MetricDelta{Before: before, After: after}
	if before != nil && after != nil {
		v := round(*after - *before)
		d.Delta = &v
	}
	return d
}
