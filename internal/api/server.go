// Package api serves normalized policies, stats and cache state over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"policyscope/internal/aggregator"
	"policyscope/internal/cache"
	"policyscope/internal/logger"
	"policyscope/internal/models"
	"policyscope/internal/notify"
)

const shutdownTimeout = 10 * time.Second

// PolicySource produces a fresh policy set.
type PolicySource interface {
	GetAllPolicies(ctx context.Context) (*aggregator.Result, error)
}

// Snapshot is the policy set currently being served.
type Snapshot struct {
	FetchedAt     time.Time
	Policies      []models.Policy
	FailedSources []string
	FromCache     bool
}

// Server holds the handlers' dependencies.
type Server struct {
	source   PolicySource
	cache    *cache.Cache
	notifier *notify.Notifier
	logger   *logger.Logger
	now      func() time.Time

	// refreshMu serializes aggregation so concurrent misses share one fetch.
	refreshMu sync.Mutex
}

// NewServer wires a server. A nil cache disables caching; a nil notifier
// disables events.
func NewServer(source PolicySource, c *cache.Cache, n *notify.Notifier, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}

	if c == nil {
		c = cache.New(cache.NopStore{}, 0, log)
	}

	return &Server{
		source:   source,
		cache:    c,
		notifier: n,
		logger:   log,
		now:      time.Now,
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/policies", s.handlePolicies).Methods(http.MethodGet)
	api.HandleFunc("/policies/{id}", s.handlePolicy).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/cache", s.handleCacheInfo).Methods(http.MethodGet)
	api.HandleFunc("/cache", s.handleCacheClear).Methods(http.MethodDelete)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Slog().Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown failed: %w", err)
	}

	return nil
}

// Load returns cached policies when valid, otherwise aggregates. force
// skips the cache.
func (s *Server) Load(ctx context.Context, force bool) (*Snapshot, error) {
	if !force {
		if snap := s.fromCache(ctx); snap != nil {
			return snap, nil
		}
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	// Another request may have refreshed while this one waited.
	if !force {
		if snap := s.fromCache(ctx); snap != nil {
			return snap, nil
		}
	}

	result, err := s.source.GetAllPolicies(ctx)
	if err != nil {
		if nerr := s.notifier.Failed(err); nerr != nil {
			s.logger.Warn("failed to publish sync event", "error", nerr)
		}

		return nil, err
	}

	failed := result.Failed()

	if err := s.cache.Save(ctx, result.Policies, failed); err != nil {
		s.logger.Warn("failed to cache policies", "error", err)
	}

	if err := s.notifier.Synced(result); err != nil {
		s.logger.Warn("failed to publish sync event", "error", err)
	}

	return &Snapshot{
		FetchedAt:     result.FetchedAt,
		Policies:      result.Policies,
		FailedSources: failed,
	}, nil
}

func (s *Server) fromCache(ctx context.Context) *Snapshot {
	entry, err := s.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) && !errors.Is(err, cache.ErrExpired) {
			s.logger.Warn("cache unavailable", "error", err)
		}

		return nil
	}

	return &Snapshot{
		FetchedAt:     entry.Timestamp,
		Policies:      entry.Policies,
		FailedSources: entry.FailedSources,
		FromCache:     true,
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
