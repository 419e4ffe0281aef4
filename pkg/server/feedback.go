package server

import (
	nethttp "net/http"
	"time"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func (s *Server) registerFeedback(r *khttp.Router) {
	r.GET("/feedback", s.listFeedback)
	r.POST("/feedback", s.createFeedback)
	r.PUT("/feedback/{id}", s.updateFeedback)
	r.DELETE("/feedback/{id}", s.deleteFeedback)
	r.POST("/feedback/{id}/responses", s.addFeedbackResponse)
}

// feedbackProject resolves the ?project= parameter common to all feedback
// routes. Feedback lives per-project; the parameter is mandatory.
func (s *Server) feedbackProject(ctx khttp.Context) (string, bool, error) {
	slug := ctx.Query().Get("project")
	if slug == "" {
		return "", false, badRequest(ctx, "project query parameter is required")
	}
	if _, found, err := s.store.ReadProject(slug); err != nil {
		return "", false, s.fail(ctx, err)
	} else if !found {
		return "", false, notFound(ctx, "project not found")
	}
	return slug, true, nil
}

func (s *Server) listFeedback(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	slug, ok, err := s.feedbackProject(ctx)
	if !ok {
		return err
	}
	items, err := s.store.ReadFeedback(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	if items == nil {
		items = []model.Feedback{}
	}
	return writeJSON(ctx, nethttp.StatusOK, items)
}

func (s *Server) createFeedback(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	slug, ok, err := s.feedbackProject(ctx)
	if !ok {
		return err
	}
	var item model.Feedback
	if err := decodeBody(ctx, &item); err != nil {
		return badRequest(ctx, "invalid feedback body")
	}
	if item.Title == "" {
		return badRequest(ctx, "title is required")
	}
	item.ID = model.NewID()
	item.CreatedAt = time.Now().UTC()
	if item.Status == "" {
		item.Status = "open"
	}
	if item.Responses == nil {
		item.Responses = []model.FeedbackResponse{}
	}

	items, err := s.store.ReadFeedback(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	items = append(items, item)
	if err := s.store.WriteFeedback(slug, items); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusCreated, item)
}

func (s *Server) updateFeedback(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	slug, ok, err := s.feedbackProject(ctx)
	if !ok {
		return err
	}
	id := ctx.Vars().Get("id")
	var update model.Feedback
	if err := decodeBody(ctx, &update); err != nil {
		return badRequest(ctx, "invalid feedback body")
	}

	items, err := s.store.ReadFeedback(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		update.ID = items[i].ID
		update.CreatedAt = items[i].CreatedAt
		update.Responses = items[i].Responses
		if update.Title == "" {
			update.Title = items[i].Title
		}
		if update.Status == "" {
			update.Status = items[i].Status
		}
		items[i] = update
		if err := s.store.WriteFeedback(slug, items); err != nil {
			return s.fail(ctx, err)
		}
		return writeJSON(ctx, nethttp.StatusOK, items[i])
	}
	return notFound(ctx, "feedback not found")
}

// deleteFeedback hard-deletes the item. Unlike projects there is no
// archived state for feedback.
func (s *Server) deleteFeedback(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	slug, ok, err := s.feedbackProject(ctx)
	if !ok {
		return err
	}
	id := ctx.Vars().Get("id")

	items, err := s.store.ReadFeedback(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items = append(items[:i], items[i+1:]...)
		if err := s.store.WriteFeedback(slug, items); err != nil {
			return s.fail(ctx, err)
		}
		return writeJSON(ctx, nethttp.StatusOK, map[string]bool{"deleted": true})
	}
	return notFound(ctx, "feedback not found")
}

func (s *Server) addFeedbackResponse(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	slug, ok, err := s.feedbackProject(ctx)
	if !ok {
		return err
	}
	id := ctx.Vars().Get("id")
	var resp model.FeedbackResponse
	if err := decodeBody(ctx, &resp); err != nil {
		return badRequest(ctx, "invalid response body")
	}
	if resp.Content == "" {
		return badRequest(ctx, "content is required")
	}
	resp.ID = model.NewID()
	resp.CreatedAt = time.Now().UTC()

	items, err := s.store.ReadFeedback(slug)
	if err != nil {
		return s.fail(ctx, err)
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Responses = append(items[i].Responses, resp)
		if err := s.store.WriteFeedback(slug, items); err != nil {
			return s.fail(ctx, err)
		}
		return writeJSON(ctx, nethttp.StatusCreated, items[i])
	}
	return notFound(ctx, "feedback not found")
}
