package http

import (
	"log/slog"
	"net/http"

	"pillars/internal/core"
)

type pillarResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Color               string  `json:"color"`
	DailyAllocatedHours float64 `json:"daily_allocated_hours"`
}

type categoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PillarID int64  `json:"pillar_id"`
}

type taskResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	CategoryID       int64  `json:"category_id"`
	Type             string `json:"task_type"`
	Frequency        string `json:"follow_up_frequency"`
	AllocatedMinutes int64  `json:"allocated_minutes"`
	TargetValue      float64 `json:"target_value"`
	Unit             string `json:"unit"`
	Active           bool   `json:"is_active"`
	Completed        bool   `json:"is_completed"`
}

func toTaskResponse(t core.Task) taskResponse {
	return taskResponse{
		ID:               t.ID,
		Name:             t.Name,
		CategoryID:       t.CategoryID,
		Type:             string(t.Type),
		Frequency:        string(t.Frequency),
		AllocatedMinutes: t.AllocatedMinutes,
		TargetValue:      t.TargetValue,
		Unit:             t.Unit,
		Active:           t.Active,
		Completed:        t.Completed,
	}
}

func (s *Server) handleListPillars(w http.ResponseWriter, r *http.Request) {
	pillars, err := s.store.ListPillars(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List pillars failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load pillars")
		return
	}

	out := make([]pillarResponse, 0, len(pillars))
	for _, p := range pillars {
		out = append(out, pillarResponse{
			ID:                  p.ID,
			Name:                p.Name,
			Color:               p.Color,
			DailyAllocatedHours: p.DailyAllocatedHours,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name, PillarID: c.PillarID})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List tasks failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load tasks")
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}
