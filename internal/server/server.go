// Package server exposes the path engine over a small JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gcpath/gcpath/internal/utils"
	"github.com/gcpath/gcpath/pkg/paths"
	"github.com/gcpath/gcpath/pkg/snapshot"
	"github.com/gcpath/gcpath/pkg/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Server struct {
	DB      *storage.DB // optional; nil serves the built-in snapshot
	Options paths.Options
	Metrics *Metrics
}

func New(db *storage.DB, opts paths.Options) *Server {
	return &Server{
		DB:      db,
		Options: opts,
		Metrics: NewMetrics(),
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Post("/paths", s.handlePaths)
		r.Post("/wait", s.handleWait)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/changes", s.handleChanges)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	utils.Log.Infof("Starting server on %s", addr)
	return srv.ListenAndServe()
}

// observe records request counts and latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		s.Metrics.ObserveRequest(route, code, time.Since(start))
		utils.Log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"route":      route,
			"status":     code,
		}).Debug("request served")
	})
}

// snapshot returns the stored snapshot, or nil (the built-in one) when
// nothing has been polled yet.
func (s *Server) snapshot(ctx context.Context) (*snapshot.Snapshot, string, error) {
	if s.DB == nil {
		return nil, "", nil
	}
	rec, err := s.DB.LatestSnapshot(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return rec.Snapshot, rec.ID, nil
}
