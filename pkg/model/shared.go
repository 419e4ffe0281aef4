package model

import "time"

// Persona is a shared customer archetype synthesized from insights across
// projects. Personas live in the shared store, not under any one project.
type Persona struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Type               string            `json:"type,omitempty"`
	Demographics       map[string]string `json:"demographics,omitempty"`
	Behaviors          []string          `json:"behaviors,omitempty"`
	Goals              []string          `json:"goals,omitempty"`
	PainPoints         []string          `json:"painPoints,omitempty"`
	SupportingInsights []string          `json:"supportingInsights,omitempty"`
	LastUpdated        time.Time         `json:"lastUpdated"`
}

// SuggestionStatus is the lifecycle of a research suggestion.
type SuggestionStatus string

const (
	SuggestionProposed   SuggestionStatus = "proposed"
	SuggestionPlanned    SuggestionStatus = "planned"
	SuggestionInProgress SuggestionStatus = "in_progress"
	SuggestionCompleted  SuggestionStatus = "completed"
	SuggestionDismissed  SuggestionStatus = "dismissed"
)

// SuggestionStatuses lists every accepted status value.
var SuggestionStatuses = []SuggestionStatus{
	SuggestionProposed, SuggestionPlanned, SuggestionInProgress,
	SuggestionCompleted, SuggestionDismissed,
}

// ValidSuggestionStatus reports whether s is an accepted status value.
func ValidSuggestionStatus(s SuggestionStatus) bool {
	for _, v := range SuggestionStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// SuggestionComment is a discussion entry on a research suggestion.
type SuggestionComment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Suggestion is a community-proposed research topic. Votes is always
// maintained equal to len(Voters); ToggleVote is the only mutation path.
type Suggestion struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	SuggestedAt time.Time           `json:"suggestedAt"`
	Votes       int                 `json:"votes"`
	Voters      []string            `json:"voters"`
	Status      SuggestionStatus    `json:"status"`
	Comments    []SuggestionComment `json:"comments"`
}

// ToggleVote adds userID's vote if absent and removes it if present,
// keeping the vote count in lockstep with the voter set. Returns true when
// the user is a voter after the toggle.
func (s *Suggestion) ToggleVote(userID string) bool {
	for i, v := range s.Voters {
		if v == userID {
			s.Voters = append(s.Voters[:i], s.Voters[i+1:]...)
			s.Votes = len(s.Voters)
			return false
		}
	}
	s.Voters = append(s.Voters, userID)
	s.Votes = len(s.Voters)
	return true
}
