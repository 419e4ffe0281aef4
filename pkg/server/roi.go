package server

import (
	nethttp "net/http"
	"time"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/analysis"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func (s *Server) registerROI(r *khttp.Router) {
	r.GET("/roi", s.getROI)
	r.POST("/roi/track", s.trackROI)
	r.DELETE("/roi/{actionId}", s.deleteROI)
}

func (s *Server) readTracking(ctx khttp.Context) (model.ROITracking, bool) {
	var tracking model.ROITracking
	if _, err := s.store.Read(store.ROITrackingPath, &tracking); err != nil {
		_ = s.fail(ctx, err)
		return model.ROITracking{}, false
	}
	return tracking, true
}

func (s *Server) getROI(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	tracking, ok := s.readTracking(ctx)
	if !ok {
		return nil
	}
	if tracking.TrackedActions == nil {
		tracking.TrackedActions = []model.ROIEntry{}
	}
	return writeJSON(ctx, nethttp.StatusOK, tracking)
}

type trackROIRequest struct {
	ActionID string `json:"actionId"`
	Project  string `json:"project"`
	Period   string `json:"period"` // YYYY-Qn the action was implemented in
}

// trackROI resolves the before/after quarterly metrics for an action and
// upserts the entry keyed by (actionId, project).
func (s *Server) trackROI(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	var req trackROIRequest
	if err := decodeBody(ctx, &req); err != nil {
		return badRequest(ctx, "invalid track body")
	}
	if req.ActionID == "" || req.Project == "" || req.Period == "" {
		return badRequest(ctx, "actionId, project and period are required")
	}

	var metricsDoc model.QuarterlyMetrics
	if _, err := s.store.Read(store.QuarterlyMetricsPath, &metricsDoc); err != nil {
		return s.fail(ctx, err)
	}

	entry, err := analysis.TrackROI(req.ActionID, req.Project, req.Period,
		s.cfg.Organization, metricsDoc, time.Now().UTC())
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	tracking, ok := s.readTracking(ctx)
	if !ok {
		return nil
	}
	tracking.Upsert(entry)
	if err := s.store.Write(store.ROITrackingPath, tracking); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusOK, entry)
}

func (s *Server) deleteROI(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	actionID := ctx.Vars().Get("actionId")
	tracking, ok := s.readTracking(ctx)
	if !ok {
		return nil
	}
	if !tracking.Remove(actionID) {
		return notFound(ctx, "no tracked entry for action")
	}
	if err := s.store.Write(store.ROITrackingPath, tracking); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusOK, map[string]bool{"deleted": true})
}
