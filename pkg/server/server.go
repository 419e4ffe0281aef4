// Package server exposes the fieldwork store over a REST API for the
// dashboard. Handlers are thin: resolve the document path, read or default,
// transform in memory, write back or respond. There is no caching layer;
// every request re-reads the JSON documents it touches.
package server

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kvanderzwet/fieldwork/internal/store"
	"github.com/kvanderzwet/fieldwork/pkg/config"
	"github.com/kvanderzwet/fieldwork/pkg/metrics"
	"github.com/kvanderzwet/fieldwork/pkg/watcher"
)

const stopTimeout = 5 * time.Second

// Server is the dashboard API server.
type Server struct {
	cfg   config.Config
	store *store.Store
	log   *logrus.Logger
	hub   *eventHub
	srv   *khttp.Server
}

// New builds the HTTP server and registers every route.
func New(cfg config.Config, st *store.Store, log *logrus.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		store: st,
		log:   log,
		hub:   newEventHub(),
	}

	s.srv = khttp.NewServer(
		khttp.Address(fmt.Sprintf(":%d", cfg.Server.Port)),
		khttp.Middleware(recovery.Recovery()),
		khttp.Filter(s.timingFilter),
	)

	r := s.srv.Route("/api")
	s.registerProjects(r)
	s.registerInsights(r)
	s.registerActions(r)
	s.registerFeedback(r)
	s.registerShared(r)
	s.registerCSAT(r)
	s.registerROI(r)
	s.registerCompetitive(r)
	s.registerMeta(r)

	s.srv.HandleFunc("/api/events", s.handleEvents)

	// Registered last: everything the API router does not claim falls
	// through to the SPA handler.
	s.srv.HandlePrefix("/", s.staticHandler())

	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("http://localhost:%d", s.cfg.Server.Port)
}

func (s *Server) timingFilter(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		defer metrics.Timer(metrics.HTTPRequest)()
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and the store watcher, blocking until ctx is
// cancelled or either component fails.
func (s *Server) Run(ctx context.Context) error {
	w, err := watcher.New(s.store.Root,
		watcher.WithOnChange(func(rel string) { s.hub.broadcast(rel) }),
		watcher.WithOnError(func(err error) { s.log.WithError(err).Warn("store watcher error") }),
	)
	if err != nil {
		return fmt.Errorf("creating store watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("starting store watcher: %w", err)
	}
	defer w.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.WithField("addr", s.Addr()).Info("dashboard API listening")
		return s.srv.Start(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		return s.srv.Stop(stopCtx)
	})
	return g.Wait()
}
