package server

import (
	nethttp "net/http"
	"time"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/analysis"
	"github.com/kvanderzwet/fieldwork/pkg/metrics"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func (s *Server) registerCSAT(r *khttp.Router) {
	r.GET("/csat/eligibility", s.csatEligibility)
	r.POST("/csat/submit", s.csatSubmit)
	r.POST("/csat/dismiss", s.csatDismiss)
	r.POST("/csat/remind-later", s.csatRemindLater)

	r.GET("/admin/csat/aggregates", s.csatAggregates)
	r.GET("/admin/csat/trend", s.csatTrend)
	r.GET("/admin/csat/by-project", s.csatByProject)
	r.GET("/admin/csat/by-role", s.csatByRole)
	r.GET("/admin/csat/verbatims", s.csatVerbatims)
}

// userStates is the shape of shared/csat-user-state.json: userId -> state.
type userStates map[string]model.CSATUserState

func (s *Server) readUserStates(ctx khttp.Context) (userStates, bool) {
	states := userStates{}
	if _, err := s.store.Read(store.CSATUserStatePath, &states); err != nil {
		_ = s.fail(ctx, err)
		return nil, false
	}
	return states, true
}

func (s *Server) readResponses(ctx khttp.Context) ([]model.CSATResponse, bool) {
	var responses []model.CSATResponse
	if _, err := s.store.Read(store.CSATResponsesPath, &responses); err != nil {
		_ = s.fail(ctx, err)
		return nil, false
	}
	return responses, true
}

// csatEligibility evaluates the survey-display rule chain for a user.
func (s *Server) csatEligibility(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	userID := ctx.Query().Get("userId")
	if userID == "" {
		return badRequest(ctx, "userId query parameter is required")
	}
	states, ok := s.readUserStates(ctx)
	if !ok {
		return nil
	}
	state := states[userID]
	state.UserID = userID
	eligibility := analysis.ShouldShowSurvey(state, ctx.Query().Get("project"), time.Now().UTC())
	return writeJSON(ctx, nethttp.StatusOK, eligibility)
}

func (s *Server) csatSubmit(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	var resp model.CSATResponse
	if err := decodeBody(ctx, &resp); err != nil {
		return badRequest(ctx, "invalid response body")
	}
	if resp.UserID == "" {
		return badRequest(ctx, "userId is required")
	}
	resp.ID = model.NewID()
	resp.SubmittedAt = time.Now().UTC()

	responses, ok := s.readResponses(ctx)
	if !ok {
		return nil
	}
	responses = append(responses, resp)
	if err := s.store.Write(store.CSATResponsesPath, responses); err != nil {
		return s.fail(ctx, err)
	}

	states, ok := s.readUserStates(ctx)
	if !ok {
		return nil
	}
	state := states[resp.UserID]
	state.UserID = resp.UserID
	analysis.RecordSubmission(&state, resp.Context.Project, resp.SubmittedAt)
	states[resp.UserID] = state
	if err := s.store.Write(store.CSATUserStatePath, states); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusCreated, resp)
}

func (s *Server) csatDismiss(ctx khttp.Context) error {
	return s.csatSchedule(ctx, analysis.Dismiss)
}

func (s *Server) csatRemindLater(ctx khttp.Context) error {
	return s.csatSchedule(ctx, analysis.RemindLater)
}

func (s *Server) csatSchedule(ctx khttp.Context, apply func(*model.CSATUserState, time.Time)) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeBody(ctx, &req); err != nil || req.UserID == "" {
		return badRequest(ctx, "userId is required")
	}
	states, ok := s.readUserStates(ctx)
	if !ok {
		return nil
	}
	state := states[req.UserID]
	state.UserID = req.UserID
	apply(&state, time.Now().UTC())
	states[req.UserID] = state
	if err := s.store.Write(store.CSATUserStatePath, states); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusOK, state)
}

func (s *Server) aggregates(ctx khttp.Context) (analysis.Aggregates, bool) {
	responses, ok := s.readResponses(ctx)
	if !ok {
		return analysis.Aggregates{}, false
	}
	defer metrics.Timer(metrics.Aggregate)()
	return analysis.CalculateAggregates(responses), true
}

func (s *Server) csatAggregates(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	agg, ok := s.aggregates(ctx)
	if !ok {
		return nil
	}
	return writeJSON(ctx, nethttp.StatusOK, agg)
}

func (s *Server) csatTrend(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	agg, ok := s.aggregates(ctx)
	if !ok {
		return nil
	}
	if agg.Trend == nil {
		agg.Trend = []analysis.TrendPoint{}
	}
	return writeJSON(ctx, nethttp.StatusOK, agg.Trend)
}

func (s *Server) csatByProject(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	agg, ok := s.aggregates(ctx)
	if !ok {
		return nil
	}
	return writeJSON(ctx, nethttp.StatusOK, agg.ByProject)
}

func (s *Server) csatByRole(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	agg, ok := s.aggregates(ctx)
	if !ok {
		return nil
	}
	return writeJSON(ctx, nethttp.StatusOK, agg.ByRole)
}

func (s *Server) csatVerbatims(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	responses, ok := s.readResponses(ctx)
	if !ok {
		return nil
	}
	verbatims := analysis.Verbatims(responses)
	if verbatims == nil {
		verbatims = []model.CSATResponse{}
	}
	return writeJSON(ctx, nethttp.StatusOK, verbatims)
}
