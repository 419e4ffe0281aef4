package server

import (
	nethttp "net/http"
	"time"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func (s *Server) registerShared(r *khttp.Router) {
	r.GET("/personas", s.listPersonas)
	r.POST("/personas", s.createPersona)
	r.PUT("/personas/{id}", s.updatePersona)

	r.GET("/research-suggestions", s.listSuggestions)
	r.POST("/research-suggestions", s.createSuggestion)
	r.PUT("/research-suggestions/{id}/vote", s.voteSuggestion)
	r.PUT("/research-suggestions/{id}/status", s.setSuggestionStatus)
	r.POST("/research-suggestions/{id}/comment", s.commentSuggestion)
}

func (s *Server) listPersonas(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	var personas []model.Persona
	if _, err := s.store.Read(store.PersonasPath, &personas); err != nil {
		return s.fail(ctx, err)
	}
	if personas == nil {
		personas = []model.Persona{}
	}
	return writeJSON(ctx, nethttp.StatusOK, personas)
}

func (s *Server) createPersona(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	var persona model.Persona
	if err := decodeBody(ctx, &persona); err != nil {
		return badRequest(ctx, "invalid persona body")
	}
	if persona.Name == "" {
		return badRequest(ctx, "name is required")
	}
	persona.ID = model.NewID()
	persona.LastUpdated = time.Now().UTC()

	var personas []model.Persona
	if _, err := s.store.Read(store.PersonasPath, &personas); err != nil {
		return s.fail(ctx, err)
	}
	personas = append(personas, persona)
	if err := s.store.Write(store.PersonasPath, personas); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusCreated, persona)
}

func (s *Server) updatePersona(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	id := ctx.Vars().Get("id")
	var update model.Persona
	if err := decodeBody(ctx, &update); err != nil {
		return badRequest(ctx, "invalid persona body")
	}

	var personas []model.Persona
	if _, err := s.store.Read(store.PersonasPath, &personas); err != nil {
		return s.fail(ctx, err)
	}
	for i := range personas {
		if personas[i].ID != id {
			continue
		}
		update.ID = personas[i].ID
		update.LastUpdated = time.Now().UTC()
		if update.Name == "" {
			update.Name = personas[i].Name
		}
		personas[i] = update
		if err := s.store.Write(store.PersonasPath, personas); err != nil {
			return s.fail(ctx, err)
		}
		return writeJSON(ctx, nethttp.StatusOK, personas[i])
	}
	return notFound(ctx, "persona not found")
}

// readSuggestions loads the shared suggestion list. On failure the 500 is
// already written; the caller just returns.
func (s *Server) readSuggestions(ctx khttp.Context) ([]model.Suggestion, bool) {
	var suggestions []model.Suggestion
	if _, err := s.store.Read(store.SuggestionsPath, &suggestions); err != nil {
		_ = s.fail(ctx, err)
		return nil, false
	}
	return suggestions, true
}

func (s *Server) listSuggestions(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	suggestions, ok := s.readSuggestions(ctx)
	if !ok {
		return nil
	}
	if suggestions == nil {
		suggestions = []model.Suggestion{}
	}
	return writeJSON(ctx, nethttp.StatusOK, suggestions)
}

func (s *Server) createSuggestion(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	var sg model.Suggestion
	if err := decodeBody(ctx, &sg); err != nil {
		return badRequest(ctx, "invalid suggestion body")
	}
	if sg.Title == "" {
		return badRequest(ctx, "title is required")
	}
	sg.ID = model.NewID()
	sg.SuggestedAt = time.Now().UTC()
	sg.Status = model.SuggestionProposed
	sg.Voters = []string{}
	sg.Votes = 0
	sg.Comments = []model.SuggestionComment{}

	suggestions, ok := s.readSuggestions(ctx)
	if !ok {
		return nil
	}
	suggestions = append(suggestions, sg)
	if err := s.store.Write(store.SuggestionsPath, suggestions); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusCreated, sg)
}

// voteSuggestion toggles the caller's vote: present removes, absent adds.
func (s *Server) voteSuggestion(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	id := ctx.Vars().Get("id")
	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeBody(ctx, &req); err != nil || req.UserID == "" {
		return badRequest(ctx, "userId is required")
	}

	suggestions, ok := s.readSuggestions(ctx)
	if !ok {
		return nil
	}
	for i := range suggestions {
		if suggestions[i].ID != id {
			continue
		}
		suggestions[i].ToggleVote(req.UserID)
		if err := s.store.Write(store.SuggestionsPath, suggestions); err != nil {
			return s.fail(ctx, err)
		}
		return writeJSON(ctx, nethttp.StatusOK, suggestions[i])
	}
	return notFound(ctx, "suggestion not found")
}

func (s *Server) setSuggestionStatus(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	id := ctx.Vars().Get("id")
	var req struct {
		Status model.SuggestionStatus `json:"status"`
	}
	if err := decodeBody(ctx, &req); err != nil {
		return badRequest(ctx, "invalid status body")
	}
	if !model.ValidSuggestionStatus(req.Status) {
		return badRequest(ctx, "unknown status")
	}

	suggestions, ok := s.readSuggestions(ctx)
	if !ok {
		return nil
	}
	for i := range suggestions {
		if suggestions[i].ID != id {
			continue
		}
		suggestions[i].Status = req.Status
		if err := s.store.Write(store.SuggestionsPath, suggestions); err != nil {
			return s.fail(ctx, err)
		}
		return writeJSON(ctx, nethttp.StatusOK, suggestions[i])
	}
	return notFound(ctx, "suggestion not found")
}

func (s *Server) commentSuggestion(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	id := ctx.Vars().Get("id")
	var comment model.SuggestionComment
	if err := decodeBody(ctx, &comment); err != nil {
		return badRequest(ctx, "invalid comment body")
	}
	if comment.Content == "" {
		return badRequest(ctx, "content is required")
	}
	comment.ID = model.NewID()
	comment.CreatedAt = time.Now().UTC()

	suggestions, ok := s.readSuggestions(ctx)
	if !ok {
		return nil
	}
	for i := range suggestions {
		if suggestions[i].ID != id {
			continue
		}
		suggestions[i].Comments = append(suggestions[i].Comments, comment)
		if err := s.store.Write(store.SuggestionsPath, suggestions); err != nil {
			return s.fail(ctx, err)
		}
		return writeJSON(ctx, nethttp.StatusCreated, suggestions[i])
	}
	return notFound(ctx, "suggestion not found")
}
