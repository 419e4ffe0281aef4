package server

import (
	nethttp "net/http"
	"runtime"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/kvanderzwet/fieldwork/pkg/metrics"
	"github.com/kvanderzwet/fieldwork/pkg/version"
)

func (s *Server) registerMeta(r *khttp.Router) {
	r.GET("/auth/role", s.authRole)
	r.GET("/debug/info", s.debugInfo)
}

// authRole reports the caller's resolved role so the dashboard can hide
// admin-only views.
func (s *Server) authRole(ctx khttp.Context) error {
	role, ok := s.requireRole(ctx)
	if !ok {
		return nil
	}
	return writeJSON(ctx, nethttp.StatusOK, map[string]any{
		"role":        role,
		"authEnabled": s.cfg.Server.Auth,
	})
}

// debugInfo exposes version, runtime and timing-metric snapshots.
func (s *Server) debugInfo(ctx khttp.Context) error {
	if !s.requireAdmin(ctx) {
		return nil
	}
	return writeJSON(ctx, nethttp.StatusOK, map[string]any{
		"version":    version.Version,
		"goVersion":  runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"dataDir":    s.store.Root,
		"timings":    metrics.AllTimingStats(),
	})
}
