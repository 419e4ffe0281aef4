package analysis

import (
	"testing"
	"time"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

var elNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestShouldShowSurveyRuleChain(t *testing.T) {
	tests := []struct {
		name    string
		state   model.CSATUserState
		project string
		want    Eligibility
	}{
		{
			name:  "fresh user with no project",
			state: model.CSATUserState{},
			want:  Eligibility{Show: true, Reason: ReasonTimeThreshold},
		},
		{
			name:    "fresh user visiting a project",
			state:   model.CSATUserState{},
			project: "pilot",
			want:    Eligibility{Show: true, Reason: ReasonProjectVisit},
		},
		{
			name: "three dismissals suppress everything",
			state: model.CSATUserState{
				DismissedCount:   3,
				NextReminderDate: elNow.Add(-time.Hour),
			},
			project: "pilot",
			want:    Eligibility{Show: false},
		},
		{
			name: "past reminder wins over surveyed project",
			state: model.CSATUserState{
				NextReminderDate: elNow.Add(-time.Hour),
				SurveyedProjects: []string{"pilot"},
				LastSurveyDate:   elNow.Add(-24 * time.Hour),
			},
			project: "pilot",
			want:    Eligibility{Show: true, Reason: ReasonPeriodicReminder},
		},
		{
			name: "future reminder does not trigger",
			state: model.CSATUserState{
				NextReminderDate: elNow.Add(time.Hour),
				SurveyedProjects: []string{"pilot"},
				LastSurveyDate:   elNow.Add(-24 * time.Hour),
			},
			project: "pilot",
			want:    Eligibility{Show: false},
		},
		{
			name: "unsurveyed project beats recent survey",
			state: model.CSATUserState{
				SurveyedProjects: []string{"other"},
				LastSurveyDate:   elNow.Add(-24 * time.Hour),
			},
			project: "pilot",
			want:    Eligibility{Show: true, Reason: ReasonProjectVisit},
		},
		{
			name: "stale survey past the 14 day interval",
			state: model.CSATUserState{
				SurveyedProjects: []string{"pilot"},
				LastSurveyDate:   elNow.Add(-15 * 24 * time.Hour),
			},
			project: "pilot",
			want:    Eligibility{Show: true, Reason: ReasonTimeThreshold},
		},
		{
			name: "recent survey on a surveyed project",
			state: model.CSATUserState{
				SurveyedProjects: []string{"pilot"},
				LastSurveyDate:   elNow.Add(-24 * time.Hour),
			},
			project: "pilot",
			want:    Eligibility{Show: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldShowSurvey(tt.state, tt.project, elNow)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDismissEscalatesToLongDelay(t *testing.T) {
	var state model.CSATUserState

	Dismiss(&state, elNow)
	if state.DismissedCount != 1 || !state.NextReminderDate.Equal(elNow.Add(ShortReminderDelay)) {
		t.Errorf("after 1st dismiss: %+v", state)
	}
	Dismiss(&state, elNow)
	if !state.NextReminderDate.Equal(elNow.Add(ShortReminderDelay)) {
		t.Errorf("after 2nd dismiss: %+v", state)
	}
	Dismiss(&state, elNow)
	if state.DismissedCount != 3 || !state.NextReminderDate.Equal(elNow.Add(LongReminderDelay)) {
		t.Errorf("after 3rd dismiss: %+v", state)
	}
}

func TestRemindLaterSchedulesSevenDays(t *testing.T) {
	state := model.CSATUserState{DismissedCount: 2}
	RemindLater(&state, elNow)
	if !state.NextReminderDate.Equal(elNow.Add(ShortReminderDelay)) {
		t.Errorf("NextReminderDate = %v", state.NextReminderDate)
	}
	if state.DismissedCount != 2 {
		t.Errorf("DismissedCount changed to %d", state.DismissedCount)
	}
}

func TestRecordSubmissionResetsReminderAndMarksProject(t *testing.T) {
	state := model.CSATUserState{NextReminderDate: elNow.Add(time.Hour)}
	RecordSubmission(&state, "pilot", elNow)
	RecordSubmission(&state, "pilot", elNow.Add(time.Hour))

	if state.TotalSurveys != 2 {
		t.Errorf("TotalSurveys = %d", state.TotalSurveys)
	}
	if !state.NextReminderDate.IsZero() {
		t.Errorf("NextReminderDate not cleared: %v", state.NextReminderDate)
	}
	if len(state.SurveyedProjects) != 1 || state.SurveyedProjects[0] != "pilot" {
		t.Errorf("SurveyedProjects = %v", state.SurveyedProjects)
	}
}
