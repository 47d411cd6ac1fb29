package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/content-pipeline/internal/db"
)

// RunLogsResponse is the body of GET /runs/{id}/logs
type RunLogsResponse struct {
	RunID string        `json:"run_id"`
	Logs  []db.AgentLog `json:"logs"`
	Count int           `json:"count"`
}

// RunListResponse is the body of GET /runs
type RunListResponse struct {
	Runs  []db.RunSummary `json:"runs"`
	Count int             `json:"count"`
}

// handleRunLogs returns every stage record of one run in order
func (s *Server) handleRunLogs(w http.ResponseWriter, r *http.Request) {
	if s.logs == nil {
		err := &ErrStoreUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	logs, err := s.logs.ListAgentLogs(r.Context(), runID)
	if err != nil {
		s.logger.Error("failed to list agent logs", "run_id", runID.String(), "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(logs) == 0 {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, RunLogsResponse{
		RunID: runID.String(),
		Logs:  logs,
		Count: len(logs),
	})
}

// handleListRuns returns the most recent runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.logs == nil {
		err := &ErrStoreUnavailable{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	limit := db.DefaultRunLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = db.ClampRunLimit(n)
	}

	runs, err := s.logs.ListRecentRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if runs == nil {
		runs = []db.RunSummary{}
	}

	s.jsonResponse(w, http.StatusOK, RunListResponse{Runs: runs, Count: len(runs)})
}
