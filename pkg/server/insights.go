package server

import (
	nethttp "net/http"
	"time"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func (s *Server) registerInsights(r *khttp.Router) {
	r.GET("/insights", s.listInsights)
	r.POST("/insights/{id}/rate", s.rateInsight)
}

// projectInsight tags an insight with the project it belongs to for
// cross-project listings.
type projectInsight struct {
	Project string `json:"project"`
	model.Insight
}

// listInsights returns every insight across active projects, tagged with
// its project slug. ?category= filters by category.
func (s *Server) listInsights(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	projects, err := s.store.ListProjects()
	if err != nil {
		return s.fail(ctx, err)
	}
	category := ctx.Query().Get("category")
	out := []projectInsight{}
	for _, p := range projects {
		if p.Archived() {
			continue
		}
		insights, err := s.store.ReadInsights(p.Slug)
		if err != nil {
			return s.fail(ctx, err)
		}
		for _, ins := range insights {
			if category != "" && ins.Category != category {
				continue
			}
			out = append(out, projectInsight{Project: p.Slug, Insight: ins})
		}
	}
	return writeJSON(ctx, nethttp.StatusOK, out)
}

// rateRequest is the rate-insight payload. CreatedAt is server-assigned.
type rateRequest struct {
	UserID           string  `json:"userId"`
	OverallRating    float64 `json:"overallRating"`
	EvidenceStrength float64 `json:"evidenceStrength"`
	Actionability    float64 `json:"actionability"`
	Clarity          float64 `json:"clarity"`
}

// rateInsight records one user's rating on an insight, located by scanning
// every project. The rating overwrites any earlier one by the same user and
// the derived quality metrics are recomputed from the raw list.
func (s *Server) rateInsight(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	id := ctx.Vars().Get("id")
	var req rateRequest
	if err := decodeBody(ctx, &req); err != nil {
		return badRequest(ctx, "invalid rating body")
	}
	if req.UserID == "" {
		return badRequest(ctx, "userId is required")
	}

	projects, err := s.store.ListProjects()
	if err != nil {
		return s.fail(ctx, err)
	}
	for _, p := range projects {
		insights, err := s.store.ReadInsights(p.Slug)
		if err != nil {
			return s.fail(ctx, err)
		}
		for i := range insights {
			if insights[i].ID != id {
				continue
			}
			insights[i].Rate(model.Rating{
				UserID:           req.UserID,
				OverallRating:    req.OverallRating,
				EvidenceStrength: req.EvidenceStrength,
				Actionability:    req.Actionability,
				Clarity:          req.Clarity,
				CreatedAt:        time.Now().UTC(),
			})
			if err := s.store.WriteInsights(p.Slug, insights); err != nil {
				return s.fail(ctx, err)
			}
			return writeJSON(ctx, nethttp.StatusOK, insights[i])
		}
	}
	return notFound(ctx, "insight not found")
}
