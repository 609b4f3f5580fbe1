// Package server exposes the location directory over a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/feedingfoundation/locator/internal/constants"
	"github.com/feedingfoundation/locator/internal/logger"
	"github.com/feedingfoundation/locator/internal/models"
	"github.com/feedingfoundation/locator/internal/schedule"
	"github.com/feedingfoundation/locator/internal/scheduler"
	"github.com/feedingfoundation/locator/internal/storage"
)

// Config controls the HTTP server.
type Config struct {
	Addr           string
	RequestsPerMin int
	AllowedOrigins []string
	// Location is the timezone schedules are evaluated in.
	Location *time.Location
	// ReloadSpec is a cron spec for re-reading the store. Empty disables it.
	ReloadSpec string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = constants.DefaultListenAddr
	}
	if c.RequestsPerMin <= 0 {
		c.RequestsPerMin = constants.DefaultRequestsPerMin
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Server serves a snapshot of the store. The snapshot is replaced wholesale
// by Refresh, so requests never see a partially reloaded directory.
type Server struct {
	cfg   Config
	store storage.Provider
	memo  *schedule.Memo

	mu       sync.RWMutex
	locs     []models.Location
	loadedAt time.Time

	router chi.Router
}

// New builds the server and takes the first snapshot of store.
func New(store storage.Provider, cfg Config) (*Server, error) {
	s := &Server{
		cfg:   cfg.withDefaults(),
		store: store,
		memo:  schedule.NewMemo(),
	}
	if err := s.Refresh(context.Background()); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Refresh re-reads the store and swaps in the new snapshot.
func (s *Server) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r, ok := s.store.(storage.Reloader); ok {
		if err := r.Reload(); err != nil {
			return fmt.Errorf("failed to reload store: %w", err)
		}
	}
	locs, err := s.store.GetAllLocations()
	if err != nil {
		return fmt.Errorf("failed to read locations: %w", err)
	}

	s.mu.Lock()
	s.locs = locs
	s.loadedAt = s.cfg.Now()
	s.mu.Unlock()
	logger.Debug("location snapshot refreshed", "count", len(locs))
	return nil
}

func (s *Server) snapshot() ([]models.Location, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locs, s.loadedAt
}

// moment resolves the current time once for a whole request.
func (s *Server) moment() (time.Time, schedule.Moment) {
	now := s.cfg.Now().In(s.cfg.Location)
	return now, schedule.MomentAt(now)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(s.cfg.RequestsPerMin, time.Minute))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/locations", s.handleListLocations)
		r.Get("/locations/{id}", s.handleGetLocation)
		r.Get("/filters", s.handleFilters)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// The reload job, when configured, runs for the lifetime of the server.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var sched *scheduler.Scheduler
	if s.cfg.ReloadSpec != "" {
		sched = scheduler.New(s.cfg.Location, time.Minute)
		if err := sched.Add("reload", s.cfg.ReloadSpec, s.Refresh); err != nil {
			return err
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if sched != nil {
			sched.Stop(context.Background())
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down, waiting for pending requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shut down: %w", err)
	}
	return <-errCh
}
