package server

import (
	nethttp "net/http"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func (s *Server) registerActions(r *khttp.Router) {
	r.GET("/actions", s.listActions)
	r.PUT("/actions/{id}", s.updateAction)
}

type projectAction struct {
	Project string `json:"project"`
	model.Action
}

// listActions returns every action across active projects. ?status= and
// ?department= filter the result.
func (s *Server) listActions(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	projects, err := s.store.ListProjects()
	if err != nil {
		return s.fail(ctx, err)
	}
	status := ctx.Query().Get("status")
	department := ctx.Query().Get("department")
	out := []projectAction{}
	for _, p := range projects {
		if p.Archived() {
			continue
		}
		actions, err := s.store.ReadActions(p.Slug)
		if err != nil {
			return s.fail(ctx, err)
		}
		for _, a := range actions {
			if status != "" && a.Status != status {
				continue
			}
			if department != "" && a.Department != department {
				continue
			}
			out = append(out, projectAction{Project: p.Slug, Action: a})
		}
	}
	return writeJSON(ctx, nethttp.StatusOK, out)
}

// updateAction replaces an action's mutable fields, located by scanning
// every project. The ID in the path wins over any ID in the body.
func (s *Server) updateAction(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	id := ctx.Vars().Get("id")
	var update model.Action
	if err := decodeBody(ctx, &update); err != nil {
		return badRequest(ctx, "invalid action body")
	}

	projects, err := s.store.ListProjects()
	if err != nil {
		return s.fail(ctx, err)
	}
	for _, p := range projects {
		actions, err := s.store.ReadActions(p.Slug)
		if err != nil {
			return s.fail(ctx, err)
		}
		for i := range actions {
			if actions[i].ID != id {
				continue
			}
			update.ID = actions[i].ID
			update.CreatedAt = actions[i].CreatedAt
			if update.Title == "" {
				update.Title = actions[i].Title
			}
			if update.Status == "" {
				update.Status = actions[i].Status
			}
			actions[i] = update
			if err := s.store.WriteActions(p.Slug, actions); err != nil {
				return s.fail(ctx, err)
			}
			return writeJSON(ctx, nethttp.StatusOK, actions[i])
		}
	}
	return notFound(ctx, "action not found")
}
