package server

import (
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"
)

// staticHandler serves the built dashboard. Non-/api paths that do not
// match a file fall back to index.html so the SPA router can take over;
// unmatched /api paths get a JSON 404 instead.
func (s *Server) staticHandler() nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(nethttp.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
			return
		}

		if s.cfg.Server.StaticDir == "" {
			nethttp.NotFound(w, r)
			return
		}

		path := filepath.Join(s.cfg.Server.StaticDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			nethttp.ServeFile(w, r, path)
			return
		}
		nethttp.ServeFile(w, r, filepath.Join(s.cfg.Server.StaticDir, "index.html"))
	})
}
