package model

import "time"

// CSATScores holds the individual 1-5 answers of one survey submission.
// Pointers distinguish "not answered" from an explicit zero.
type CSATScores struct {
	OverallSatisfaction *float64 `json:"overallSatisfaction,omitempty"`
	EaseOfUse           *float64 `json:"easeOfUse,omitempty"`
	DataQuality         *float64 `json:"dataQuality,omitempty"`
	Responsiveness      *float64 `json:"responsiveness,omitempty"`
}

// CSATContext records where and as whom the survey was answered.
type CSATContext struct {
	Project string `json:"project,omitempty"`
	Role    string `json:"role,omitempty"`
	Page    string `json:"page,omitempty"`
}

// CSATResponse is one submitted satisfaction survey. NPSScore is nil when
// the respondent skipped the NPS question.
type CSATResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Scores      CSATScores  `json:"scores"`
	NPSScore    *int        `json:"npsScore,omitempty"`
	Verbatim    string      `json:"verbatim,omitempty"`
	Context     CSATContext `json:"context"`
	SubmittedAt time.Time   `json:"submittedAt"`
}

// CSATUserState tracks per-user survey scheduling. Zero times mean "never".
type CSATUserState struct {
	UserID           string    `json:"userId"`
	LastSurveyDate   time.Time `json:"lastSurveyDate,omitempty"`
	SurveyedProjects []string  `json:"surveyedProjects"`
	TotalSurveys     int       `json:"totalSurveys"`
	DismissedCount   int       `json:"dismissedCount"`
	NextReminderDate time.Time `json:"nextReminderDate,omitempty"`
}

// Surveyed reports whether the user already answered a survey for project.
func (s CSATUserState) Surveyed(project string) bool {
	for _, p := range s.SurveyedProjects {
		if p == project {
			return true
		}
	}
	return false
}
