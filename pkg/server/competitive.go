package server

import (
	nethttp "net/http"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/model"
)

func (s *Server) registerCompetitive(r *khttp.Router) {
	r.GET("/competitive/competitors", s.listCompetitors)
	r.GET("/competitive/features", s.listFeatures)
	r.GET("/competitive/pricing", s.listPricing)
	r.GET("/competitive/perception", s.listPerception)
	r.GET("/competitive/releases", s.listReleases)
	r.GET("/competitive/summary", s.competitiveSummary)
}

// competitiveList reads one competitive document and serves it as a JSON
// array. All competitive API routes are read-only; mutations go through
// the CLI, which owns the sequential ID scheme.
func (s *Server) competitiveList(ctx khttp.Context, path string, out any) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	if _, err := s.store.Read(path, out); err != nil {
		return s.fail(ctx, err)
	}
	return writeJSON(ctx, nethttp.StatusOK, out)
}

func (s *Server) listCompetitors(ctx khttp.Context) error {
	competitors := []model.Competitor{}
	return s.competitiveList(ctx, store.CompetitorsPath, &competitors)
}

func (s *Server) listFeatures(ctx khttp.Context) error {
	features := []model.FeatureEntry{}
	return s.competitiveList(ctx, store.FeaturesPath, &features)
}

func (s *Server) listPricing(ctx khttp.Context) error {
	pricing := []model.PricingEntry{}
	return s.competitiveList(ctx, store.PricingPath, &pricing)
}

func (s *Server) listPerception(ctx khttp.Context) error {
	perception := []model.PerceptionEntry{}
	return s.competitiveList(ctx, store.PerceptionPath, &perception)
}

func (s *Server) listReleases(ctx khttp.Context) error {
	releases := []model.ReleaseEntry{}
	return s.competitiveList(ctx, store.ReleasesPath, &releases)
}

// competitiveSummary returns record counts across the competitive subtree.
func (s *Server) competitiveSummary(ctx khttp.Context) error {
	if _, ok := s.requireRole(ctx); !ok {
		return nil
	}
	var (
		competitors []model.Competitor
		features    []model.FeatureEntry
		pricing     []model.PricingEntry
		perception  []model.PerceptionEntry
		releases    []model.ReleaseEntry
	)
	reads := []struct {
		path string
		out  any
	}{
		{store.CompetitorsPath, &competitors},
		{store.FeaturesPath, &features},
		{store.PricingPath, &pricing},
		{store.PerceptionPath, &perception},
		{store.ReleasesPath, &releases},
	}
	for _, rd := range reads {
		if _, err := s.store.Read(rd.path, rd.out); err != nil {
			return s.fail(ctx, err)
		}
	}
	return writeJSON(ctx, nethttp.StatusOK, map[string]int{
		"competitors": len(competitors),
		"features":    len(features),
		"pricing":     len(pricing),
		"perception":  len(perception),
		"releases":    len(releases),
	})
}
