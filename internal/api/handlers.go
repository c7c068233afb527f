package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"policyscope/internal/aggregator"
	"policyscope/internal/formatter"
	"policyscope/internal/models"
	"policyscope/internal/search"
	"policyscope/internal/stats"
)

// PoliciesResponse is returned by the list and refresh endpoints.
type PoliciesResponse struct {
	FetchedAt     time.Time       `json:"fetchedAt"`
	Total         int             `json:"total"`
	Policies      []models.Policy `json:"policies"`
	FailedSources []string        `json:"failedSources"`
	FromCache     bool            `json:"fromCache"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error         string   `json:"error"`
	FailedSources []string `json:"failedSources,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r, false)
	if !ok {
		return
	}

	q := r.URL.Query()
	policies := search.Filter(snap.Policies, search.Query{
		Text:     q.Get("q"),
		Family:   q.Get("type"),
		Platform: q.Get("platform"),
	})

	writeJSON(w, http.StatusOK, newPoliciesResponse(snap, policies))
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snap, ok := s.snapshot(w, r, false)
	if !ok {
		return
	}

	for i := range snap.Policies {
		if snap.Policies[i].ID == id {
			writeJSON(w, http.StatusOK, snap.Policies[i])
			return
		}
	}

	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "policy not found: " + id})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r, false)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, stats.Compute(snap.Policies, s.now()))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r, false)
	if !ok {
		return
	}

	report := formatter.Report(snap.Policies, formatter.ReportOptions{
		GeneratedAt:   s.now(),
		FailedSources: snap.FailedSources,
		SummaryOnly:   r.URL.Query().Get("summary") == "true",
	})

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(report)); err != nil {
		s.logger.Warn("failed to write report", "error", err)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r, true)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, newPoliciesResponse(snap, snap.Policies))
}

func (s *Server) handleCacheInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.cache.Info(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Clear(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// snapshot loads policies or writes the error response.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, force bool) (*Snapshot, bool) {
	snap, err := s.Load(r.Context(), force)
	if err == nil {
		return snap, true
	}

	s.logger.Error("failed to load policies", "error", err)

	var aggErr *aggregator.AggregateError
	if errors.As(err, &aggErr) {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error(), FailedSources: aggErr.Failed})
		return nil, false
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})

	return nil, false
}

func newPoliciesResponse(snap *Snapshot, policies []models.Policy) PoliciesResponse {
	failed := snap.FailedSources
	if failed == nil {
		failed = []string{}
	}

	return PoliciesResponse{
		FetchedAt:     snap.FetchedAt,
		Total:         len(policies),
		Policies:      policies,
		FailedSources: failed,
		FromCache:     snap.FromCache,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
