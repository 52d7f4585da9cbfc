package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dispatchopt/internal/buildinfo"
	"dispatchopt/internal/jobs"
	"dispatchopt/internal/model"
	"dispatchopt/internal/opt"
	"dispatchopt/internal/store"
)

// OptimizeHandler handles POST /v1/optimize
func (s *Server) OptimizeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	job, err := s.Jobs.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, jobs.ErrValidation) {
			writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Submit failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"jobId":    job.ID,
		"status":   string(job.Status),
		"strategy": job.Strategy,
	})
}

// JobByIDHandler handles GET /v1/jobs/{jobId} and the event stream routes
// /v1/jobs/{jobId}/events/stream (SSE) and /v1/jobs/{jobId}/events/ws.
func (s *Server) JobByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	if rest == "" || rest == r.URL.Path {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]

	// Only the bare id and the two events routes exist under /v1/jobs/.
	if len(parts) == 3 && parts[1] == "events" {
		switch parts[2] {
		case "stream":
			s.jobEventsSSE(w, r, id)
			return
		case "ws":
			s.jobEventsWS(w, r, id)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	view, err := s.Jobs.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Job not found", "no job with id "+id, r.URL.Path)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Job lookup failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// StrategiesHandler handles GET /v1/strategies
func (s *Server) StrategiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"strategies": opt.Catalog()})
}

// HealthHandler handles GET /healthz
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	total, active, err := s.Store.CountJobs(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Health check failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"jobsCount":       total,
		"activeJobsCount": active,
		"build":           buildinfo.Info(),
	})
}

// ReadyHandler handles GET /readyz, checking the durable backend when one is
// configured.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
