package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pillars/internal/core"
	"pillars/internal/engine"
)

type statusResponse struct {
	TaskID    int64  `json:"task_id"`
	Scope     string `json:"scope"`
	PeriodKey string `json:"period_key"`
	Completed bool   `json:"is_completed"`
	NA        bool   `json:"is_na"`
}

// periodKeyForScope derives the current period key for a scope: the
// Monday date for weeks, YYYY-MM for months, YYYY for years.
func periodKeyForScope(scope core.StatusScope, today core.Date) string {
	switch scope {
	case core.ScopeWeekly:
		return engine.BucketKey(today, engine.BucketWeek)
	case core.ScopeMonthly:
		return engine.BucketKey(today, engine.BucketMonth)
	case core.ScopeYearly:
		return engine.BucketKey(today, engine.BucketYear)
	}
	return ""
}

// handleGetStatuses serves the tracked tasks for one scope's period.
// ?period_key= overrides the current period.
func (s *Server) handleGetStatuses(scope core.StatusScope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		periodKey := strings.TrimSpace(r.URL.Query().Get("period_key"))
		if periodKey == "" {
			periodKey = periodKeyForScope(scope, s.today())
		}

		statuses, err := s.store.ListStatuses(r.Context(), scope, periodKey)
		if err != nil {
			slog.ErrorContext(r.Context(), "List statuses failed", "error", err, "scope", string(scope), "period_key", periodKey)
			writeError(w, http.StatusInternalServerError, "failed to load statuses")
			return
		}

		out := make([]statusResponse, 0, len(statuses))
		for _, st := range statuses {
			out = append(out, statusResponse{
				TaskID:    st.TaskID,
				Scope:     string(st.Scope),
				PeriodKey: st.PeriodKey,
				Completed: st.Completed,
				NA:        st.NA,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type putStatusRequest struct {
	TaskID    int64  `json:"task_id"`
	PeriodKey string `json:"period_key"`
	Completed bool   `json:"is_completed"`
	NA        bool   `json:"is_na"`
}

// handlePutStatus records or updates a task's tracking state for one
// scope's period.
func (s *Server) handlePutStatus(scope core.StatusScope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.PeriodKey == "" {
			req.PeriodKey = periodKeyForScope(scope, s.today())
		}

		status := core.PeriodStatus{
			TaskID:    req.TaskID,
			Scope:     scope,
			PeriodKey: req.PeriodKey,
			Completed: req.Completed,
			NA:        req.NA,
		}
		if req.Completed {
			now := time.Now().UTC()
			status.CompletedAt = &now
		}
		if err := status.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if err := s.store.UpsertStatus(r.Context(), status); err != nil {
			slog.ErrorContext(r.Context(), "Upsert status failed", "error", err, "task_id", req.TaskID, "scope", string(scope))
			writeError(w, http.StatusInternalServerError, "failed to save status")
			return
		}

		writeJSON(w, http.StatusOK, statusResponse{
			TaskID:    status.TaskID,
			Scope:     string(status.Scope),
			PeriodKey: status.PeriodKey,
			Completed: status.Completed,
			NA:        status.NA,
		})
	}
}
