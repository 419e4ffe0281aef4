// Package model defines the record types stored in a fieldwork data
// directory. All records are flat JSON documents keyed by opaque generated
// identifiers; references between records are informal string fields with no
// foreign-key enforcement.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus tracks a project's lifecycle. Projects are never hard
// deleted; archiving flips Status and a later unarchive restores it.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// ProjectType identifies the research methodology of a project.
type ProjectType string

const (
	TypeInterview ProjectType = "interview"
	TypeSurvey    ProjectType = "survey"
	TypeUsability ProjectType = "usability"
	TypeDiscovery ProjectType = "discovery"
)

// ProjectTypes lists the accepted values for the --type flag and the init form.
var ProjectTypes = []ProjectType{TypeInterview, TypeSurvey, TypeUsability, TypeDiscovery}

// Project is the root record of a project directory (project.json).
type Project struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Type         ProjectType       `json:"type"`
	Status       ProjectStatus     `json:"status"`
	Organization string            `json:"organization,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Archived reports whether the project is excluded from default listings.
func (p Project) Archived() bool { return p.Status == ProjectArchived }

// ImpactLevel grades how strongly an insight should steer product decisions.
type ImpactLevel string

const (
	ImpactCritical ImpactLevel = "Critical"
	ImpactHigh     ImpactLevel = "High"
	ImpactMedium   ImpactLevel = "Medium"
	ImpactLow      ImpactLevel = "Low"
)

// InsightCategories is the fixed taxonomy insights are extracted into.
// Categories outside this list are flagged by the audit.
var InsightCategories = []string{
	"Usability",
	"Feature Request",
	"Pain Point",
	"Workflow",
	"Sentiment",
	"Pricing",
	"Onboarding",
	"Performance",
}

// Insight is an atomic research finding extracted from interview or survey
// data. QualityMetrics is derived from Ratings and recomputed on every
// rating write, never stored independently of the raw list.
type Insight struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Category           string          `json:"category"`
	ImpactLevel        ImpactLevel     `json:"impactLevel"`
	ConfidenceLevel    string          `json:"confidenceLevel"`
	Evidence           []string        `json:"evidence"`
	RecommendedActions []string        `json:"recommendedActions,omitempty"`
	ProductArea        string          `json:"productArea,omitempty"`
	CustomerSegment    string          `json:"customerSegment,omitempty"`
	SourceStudy        string          `json:"sourceStudy,omitempty"`
	Tags               []string        `json:"tags,omitempty"`
	Status             string          `json:"status,omitempty"`
	QualityMetrics     *QualityMetrics `json:"qualityMetrics,omitempty"`
}

// Rating is one user's quality assessment of an insight. A user rates an
// insight at most once; re-rating overwrites the earlier entry.
type Rating struct {
	UserID           string    `json:"userId"`
	OverallRating    float64   `json:"overallRating"`
	EvidenceStrength float64   `json:"evidenceStrength"`
	Actionability    float64   `json:"actionability"`
	Clarity          float64   `json:"clarity"`
	CreatedAt        time.Time `json:"createdAt"`
}

// QualityMetrics aggregates an insight's ratings. All averages are derived
// from Ratings; RatingCount equals the number of distinct user IDs.
type QualityMetrics struct {
	AverageRating    float64  `json:"averageRating"`
	RatingCount      int      `json:"ratingCount"`
	EvidenceStrength float64  `json:"evidenceStrength"`
	Actionability    float64  `json:"actionability"`
	Clarity          float64  `json:"clarity"`
	Ratings          []Rating `json:"ratings"`
}

// Rate records r on the insight, overwriting any previous rating from the
// same user, and recomputes the aggregate fields from scratch.
func (i *Insight) Rate(r Rating) {
	qm := i.QualityMetrics
	if qm == nil {
		qm = &QualityMetrics{}
		i.QualityMetrics = qm
	}
	replaced := false
	for idx := range qm.Ratings {
		if qm.Ratings[idx].UserID == r.UserID {
			qm.Ratings[idx] = r
			replaced = true
			break
		}
	}
	if !replaced {
		qm.Ratings = append(qm.Ratings, r)
	}
	qm.recompute()
}

func (qm *QualityMetrics) recompute() {
	qm.RatingCount = len(qm.Ratings)
	qm.AverageRating = 0
	qm.EvidenceStrength = 0
	qm.Actionability = 0
	qm.Clarity = 0
	if qm.RatingCount == 0 {
		return
	}
	for _, r := range qm.Ratings {
		qm.AverageRating += r.OverallRating
		qm.EvidenceStrength += r.EvidenceStrength
		qm.Actionability += r.Actionability
		qm.Clarity += r.Clarity
	}
	n := float64(qm.RatingCount)
	qm.AverageRating /= n
	qm.EvidenceStrength /= n
	qm.Actionability /= n
	qm.Clarity /= n
}

// Validate checks the fields the audit treats as required.
func (i Insight) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("insight %s: missing title", i.ID)
	}
	if strings.TrimSpace(i.Category) == "" {
		return fmt.Errorf("insight %s: missing category", i.ID)
	}
	return nil
}

// ActionPriority mirrors ImpactLevel values for derived tasks.
type ActionPriority string

const (
	PriorityCritical ActionPriority = "Critical"
	PriorityHigh     ActionPriority = "High"
	PriorityMedium   ActionPriority = "Medium"
	PriorityLow      ActionPriority = "Low"
)

// Action statuses, tracked through a simple lifecycle.
const (
	ActionNotStarted = "Not Started"
	ActionInProgress = "In Progress"
	ActionDone       = "Done"
)

// Action is a concrete task derived from one or more insights.
type Action struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Priority       ActionPriority `json:"priority"`
	Department     string         `json:"department,omitempty"`
	Effort         string         `json:"effort,omitempty"`
	Impact         string         `json:"impact,omitempty"`
	SuccessMetrics []string       `json:"successMetrics,omitempty"`
	SourceInsight  string         `json:"sourceInsight,omitempty"`
	Status         string         `json:"status"`
	DueDate        string         `json:"dueDate,omitempty"`
	Owner          string         `json:"owner,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// HighPriority reports whether the action is in the audit's ownerless-check
// scope (Critical or High).
func (a Action) HighPriority() bool {
	return a.Priority == PriorityCritical || a.Priority == PriorityHigh
}

// FeedbackResponse is one reply in a feedback thread.
type FeedbackResponse struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	AuthorName string    `json:"authorName,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Feedback is a dashboard-submitted feedback item with its response thread.
type Feedback struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Status      string             `json:"status"`
	Type        string             `json:"type,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	Responses   []FeedbackResponse `json:"responses"`
}

// NewID returns a fresh opaque record identifier.
func NewID() string { return uuid.NewString() }
