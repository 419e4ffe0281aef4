// Package scaffold creates the on-disk layout of a new research project.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/debug"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

// ErrSlugExists is returned when a project with the derived slug already
// has a directory in the store.
type ErrSlugExists struct {
	Slug string
}

func (e *ErrSlugExists) Error() string {
	return fmt.Sprintf("project %q already exists", e.Slug)
}

// Options configures project creation.
type Options struct {
	Name         string
	Type         model.ProjectType
	Organization string
	Notion       bool
}

// projectSubdirs are created under every new project directory. context/
// receives raw interview material, insights/ and actions/ hold supplemental
// per-record exports, .prompts/ holds generated agent prompts.
var projectSubdirs = []string{"context", "insights", "actions", ".prompts"}

// CreateProject scaffolds a project directory, writes its project.json and
// empty record files, and returns the new record. Slug collisions are an
// error; nothing is overwritten.
func CreateProject(s *store.Store, opts Options) (model.Project, error) {
	if opts.Name == "" {
		return model.Project{}, fmt.Errorf("project name is required")
	}
	slug := model.Slugify(opts.Name)
	if slug == "" {
		return model.Project{}, fmt.Errorf("project name %q produces an empty slug", opts.Name)
	}
	if _, found, err := s.ReadProject(slug); err != nil {
		return model.Project{}, err
	} else if found {
		return model.Project{}, &ErrSlugExists{Slug: slug}
	}
	if s.Exists(store.ProjectDir(slug)) {
		return model.Project{}, &ErrSlugExists{Slug: slug}
	}

	if opts.Type == "" {
		opts.Type = model.TypeDiscovery
	}

	now := time.Now().UTC()
	p := model.Project{
		ID:           model.NewID(),
		Name:         opts.Name,
		Slug:         slug,
		Type:         opts.Type,
		Status:       model.ProjectActive,
		Organization: opts.Organization,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if opts.Notion {
		p.Metadata = map[string]string{"notion": "enabled"}
	}

	debug.Log("scaffold: creating project %s at %s", slug, s.Abs(store.ProjectDir(slug)))
	for _, sub := range projectSubdirs {
		dir := s.Abs(filepath.Join(store.ProjectDir(slug), sub))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return model.Project{}, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := s.WriteProject(p); err != nil {
		return model.Project{}, err
	}
	if err := s.WriteInsights(slug, nil); err != nil {
		return model.Project{}, err
	}
	if err := s.WriteActions(slug, nil); err != nil {
		return model.Project{}, err
	}
	if err := s.WriteFeedback(slug, nil); err != nil {
		return model.Project{}, err
	}
	return p, nil
}
