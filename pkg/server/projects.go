package server

import (
	nethttp "net/http"
	"time"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/pkg/analysis"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func (s *Server) registerProjects(r *khttp.Router) {
	r.GET("/projects", s.listProjects)
	r.GET("/projects/{slug}", s.getProject)
	r.PUT("/projects/{slug}", s.updateProject)
	r.GET("/projects/{slug}/stats", s.projectStats)
	r.GET("/projects/{slug}/insights", s.getProjectInsights)
	r.PUT("/projects/{slug}/insights", s.putProjectInsights)
	r.GET("/projects/{slug}/actions", s.getProjectActions)
	r.PUT("/projects/{slug}/actions", s.putProjectActions)
}

// listProjects returns active projects; ?archived=true includes archived
// ones too.
func (s *Server) listProjects(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	projects, err := s.store.ListProjects()
	if err != nil {
		return s.fail(ctx, err)
	}
	includeArchived := ctx.Query().Get("archived") == "true"
	out := []model.Project{}
	for _, p := range projects {
		if p.Archived() && !includeArchived {
			continue
		}
		out = append(out, p)
	}
	return writeJSON(ctx, nethttp.StatusOK, out)
}

func (s *Server) getProject(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	slug := ctx.Vars().Get("slug")
	p, found, err := s.store.ReadProject(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	if !found {
		return notFound(ctx, "project not found")
	}
	return writeJSON(ctx, nethttp.StatusOK, p)
}

// updateProject mutates a project's configuration. Identity fields (id,
// slug, createdAt) are preserved; status changes cover archive/unarchive.
func (s *Server) updateProject(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	slug := ctx.Vars().Get("slug")
	existing, found, err := s.store.ReadProject(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	if !found {
		return notFound(ctx, "project not found")
	}

	var update model.Project
	if err := decodeBody(ctx, &update); err != nil {
		return badRequest(ctx, "invalid project body")
	}
	update.ID = existing.ID
	update.Slug = existing.Slug
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = time.Now().UTC()
	if update.Name == "" {
		update.Name = existing.Name
	}
	if update.Type == "" {
		update.Type = existing.Type
	}
	if update.Status == "" {
		update.Status = existing.Status
	}

	if err := s.store.WriteProject(update); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusOK, update)
}

func (s *Server) projectStats(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	slug := ctx.Vars().Get("slug")
	if _, found, err := s.store.ReadProject(slug); err != nil {
		return s.fail(ctx, err)
	} else if !found {
		return notFound(ctx, "project not found")
	}
	insights, err := s.store.ReadInsights(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	actions, err := s.store.ReadActions(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusOK, analysis.ComputeProjectStats(insights, actions))
}

func (s *Server) getProjectInsights(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	slug := ctx.Vars().Get("slug")
	if _, found, err := s.store.ReadProject(slug); err != nil {
		return s.fail(ctx, err)
	} else if !found {
		return notFound(ctx, "project not found")
	}
	insights, err := s.store.ReadInsights(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	if insights == nil {
		insights = []model.Insight{}
	}
	return writeJSON(ctx, nethttp.StatusOK, insights)
}

func (s *Server) putProjectInsights(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	slug := ctx.Vars().Get("slug")
	if _, found, err := s.store.ReadProject(slug); err != nil {
		return s.fail(ctx, err)
	} else if !found {
		return notFound(ctx, "project not found")
	}
	var insights []model.Insight
	if err := decodeBody(ctx, &insights); err != nil {
		return badRequest(ctx, "invalid insights body")
	}
	if err := s.store.WriteInsights(slug, insights); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusOK, insights)
}

func (s *Server) getProjectActions(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	slug := ctx.Vars().Get("slug")
	if _, found, err := s.store.ReadProject(slug); err != nil {
		return s.fail(ctx, err)
	} else if !found {
		return notFound(ctx, "project not found")
	}
	actions, err := s.store.ReadActions(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	if actions == nil {
		actions = []model.Action{}
	}
	return writeJSON(ctx, nethttp.StatusOK, actions)
}

func (s *Server) putProjectActions(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	slug := ctx.Vars().Get("slug")
	if _, found, err := s.store.ReadProject(slug); err != nil {
		return s.fail(ctx, err)
	} else if !found {
		return notFound(ctx, "project not found")
	}
	var actions []model.Action
	if err := decodeBody(ctx, &actions); err != nil {
		return badRequest(ctx, "invalid actions body")
	}
	if err := s.store.WriteActions(slug, actions); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusOK, actions)
}
