package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// DataDirEnvVar overrides the data directory location when set.
const DataDirEnvVar = "FW_DATA_DIR"

// DefaultDataDir is the data directory created under a workspace root.
const DefaultDataDir = ".fieldwork"

// Store-relative locations of the shared cross-project documents.
const (
	PersonasPath         = "shared/personas.json"
	SuggestionsPath      = "shared/research-suggestions.json"
	CSATResponsesPath    = "shared/csat-responses.json"
	CSATUserStatePath    = "shared/csat-user-state.json"
	ROITrackingPath      = "shared/roi-tracking.json"
	QuarterlyMetricsPath = "shared/quarterly-metrics.json"
	CompetitorsPath      = "shared/competitive/competitors.json"
	FeaturesPath         = "shared/competitive/features.json"
	PricingPath          = "shared/competitive/pricing.json"
	PerceptionPath       = "shared/competitive/perception.json"
	ReleasesPath         = "shared/competitive/releases.json"
)

// DataDir resolves the data directory: FW_DATA_DIR wins, otherwise
// .fieldwork under the given workspace root.
func DataDir(workspace string) string {
	if env := os.Getenv(DataDirEnvVar); env != "" {
		return env
	}
	return filepath.Join(workspace, DefaultDataDir)
}

// ProjectDir returns the store-relative directory of a project.
func ProjectDir(slug string) string {
	return filepath.Join("projects", slug)
}

// ProjectPath returns the store-relative path of a per-project document,
// e.g. ProjectPath("pilot-a", "insights.json").
func ProjectPath(slug, file string) string {
	return filepath.Join(ProjectDir(slug), file)
}

// PromptPath returns the store-relative path of a generated prompt file.
func PromptPath(slug, promptType string) string {
	return filepath.Join(ProjectDir(slug), ".prompts", promptType+".md")
}

// ReadProject loads a project record by slug. The bool is false when no
// such project exists.
func (s *Store) ReadProject(slug string) (model.Project, bool, error) {
	var p model.Project
	found, err := s.Read(ProjectPath(slug, "project.json"), &p)
	return p, found, err
}

// WriteProject persists a project record.
func (s *Store) WriteProject(p model.Project) error {
	return s.Write(ProjectPath(p.Slug, "project.json"), p)
}

// ListProjects returns every project record, sorted by slug. Directories
// without a project.json are skipped.
func (s *Store) ListProjects() ([]model.Project, error) {
	root := filepath.Join(s.Root, "projects")
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading projects directory: %w", err)
	}
	var projects []model.Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, found, err := s.ReadProject(e.Name())
		if err != nil {
			return nil, err
		}
		if found {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Slug < projects[j].Slug })
	return projects, nil
}

// ReadInsights loads a project's insight list, defaulting to empty.
func (s *Store) ReadInsights(slug string) ([]model.Insight, error) {
	var insights []model.Insight
	_, err := s.Read(ProjectPath(slug, "insights.json"), &insights)
	return insights, err
}

// WriteInsights overwrites a project's insight list.
func (s *Store) WriteInsights(slug string, insights []model.Insight) error {
	if insights == nil {
		insights = []model.Insight{}
	}
	return s.Write(ProjectPath(slug, "insights.json"), insights)
}

// ReadActions loads a project's action list, defaulting to empty.
func (s *Store) ReadActions(slug string) ([]model.Action, error) {
	var actions []model.Action
	_, err := s.Read(ProjectPath(slug, "actions.json"), &actions)
	return actions, err
}

// WriteActions overwrites a project's action list.
func (s *Store) WriteActions(slug string, actions []model.Action) error {
	if actions == nil {
		actions = []model.Action{}
	}
	return s.Write(ProjectPath(slug, "actions.json"), actions)
}

// ReadFeedback loads a project's feedback list, defaulting to empty.
func (s *Store) ReadFeedback(slug string) ([]model.Feedback, error) {
	var items []model.Feedback
	_, err := s.Read(ProjectPath(slug, "feedback.json"), &items)
	return items, err
}

// WriteFeedback overwrites a project's feedback list.
func (s *Store) WriteFeedback(slug string, items []model.Feedback) error {
	if items == nil {
		items = []model.Feedback{}
	}
	return s.Write(ProjectPath(slug, "feedback.json"), items)
}
