package analysis

import (
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// Survey-display reasons, in the priority order they are evaluated.
const (
	ReasonPeriodicReminder = "periodic_reminder"
	ReasonProjectVisit     = "project_visit"
	ReasonTimeThreshold    = "time_threshold"
)

// SurveyInterval is how long after a survey a user becomes eligible again.
const SurveyInterval = 14 * 24 * time.Hour

// Reminder scheduling offsets. The long delay applies once a user has
// dismissed the survey three times.
const (
	ShortReminderDelay = 7 * 24 * time.Hour
	LongReminderDelay  = 90 * 24 * time.Hour
)

// MaxDismissals is the dismissal count at which the survey stops showing.
const MaxDismissals = 3

// Eligibility is the outcome of a should-show evaluation.
type Eligibility struct {
	Show   bool   `json:"show"`
	Reason string `json:"reason,omitempty"`
}

// ShouldShowSurvey evaluates the display rule chain in strict priority
// order; the first matching rule wins:
//
//  1. dismissed three or more times: never show
//  2. next reminder date has passed: show (periodic_reminder)
//  3. current project never surveyed: show (project_visit)
//  4. no survey yet, or last survey older than 14 days: show (time_threshold)
//
// Anything else: do not show.
func ShouldShowSurvey(state model.CSATUserState, project string, now time.Time) Eligibility {
	if state.DismissedCount >= MaxDismissals {
		return Eligibility{Show: false}
	}
	if !state.NextReminderDate.IsZero() && state.NextReminderDate.Before(now) {
		return Eligibility{Show: true, Reason: ReasonPeriodicReminder}
	}
	if project != "" && !state.Surveyed(project) {
		return Eligibility{Show: true, Reason: ReasonProjectVisit}
	}
	if state.LastSurveyDate.IsZero() || now.Sub(state.LastSurveyDate) > SurveyInterval {
		return Eligibility{Show: true, Reason: ReasonTimeThreshold}
	}
	return Eligibility{Show: false}
}

// Dismiss records a dismissal and schedules the next reminder: 90 days out
// once the user reaches three dismissals, 7 days otherwise.
func Dismiss(state *model.CSATUserState, now time.Time) {
	state.DismissedCount++
	if state.DismissedCount >= MaxDismissals {
		state.NextReminderDate = now.Add(LongReminderDelay)
	} else {
		state.NextReminderDate = now.Add(ShortReminderDelay)
	}
}

// RemindLater schedules a 7-day reminder regardless of dismissal count.
func RemindLater(state *model.CSATUserState, now time.Time) {
	state.NextReminderDate = now.Add(ShortReminderDelay)
}

// RecordSubmission updates the scheduling state after a survey submission.
func RecordSubmission(state *model.CSATUserState, project string, now time.Time) {
	state.LastSurveyDate = now
	state.TotalSurveys++
	state.NextReminderDate = time.Time{}
	if project != "" && !state.Surveyed(project) {
		state.SurveyedProjects = append(state.SurveyedProjects, project)
	}
}
