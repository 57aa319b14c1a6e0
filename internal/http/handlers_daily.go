package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pillars/internal/core"
	"pillars/internal/engine"
)

type entryResponse struct {
	ID      int64   `json:"id"`
	TaskID  int64   `json:"task_id"`
	Date    string  `json:"entry_date"`
	Minutes int64   `json:"minutes"`
	Count   float64 `json:"count"`
	Notes   string  `json:"notes,omitempty"`
}

func toEntryResponse(e core.TimeEntry) entryResponse {
	return entryResponse{
		ID:      e.ID,
		TaskID:  e.TaskID,
		Date:    e.Date.String(),
		Minutes: e.Minutes,
		Count:   e.Count,
		Notes:   e.Notes,
	}
}

type dailyTimeResponse struct {
	Date         string          `json:"date"`
	TotalMinutes int64           `json:"total_minutes"`
	Entries      []entryResponse `json:"entries"`
}

// handleDailyTime returns per-day entry totals over a date range.
// ?start_date/?end_date bound the range, defaulting to today. An
// invalid range is an error, never silently replaced.
func (s *Server) handleDailyTime(w http.ResponseWriter, r *http.Request) {
	startStr := strings.TrimSpace(r.URL.Query().Get("start_date"))
	endStr := strings.TrimSpace(r.URL.Query().Get("end_date"))

	var period engine.Period
	if startStr == "" && endStr == "" {
		today := s.today()
		period = engine.Period{Start: today, End: today}
	} else {
		var err error
		period, err = engine.ResolvePeriod(engine.PeriodCustom, s.today(), startStr, endStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	entries, err := s.store.ListEntriesBetween(r.Context(), period.Start, period.End)
	if err != nil {
		slog.ErrorContext(r.Context(), "List daily entries failed", "error", err,
			"start_date", period.Start.String(), "end_date", period.End.String())
		writeError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}

	byDay := make(map[string]*dailyTimeResponse)
	for _, e := range entries {
		day := e.Date.String()
		if byDay[day] == nil {
			byDay[day] = &dailyTimeResponse{Date: day, Entries: []entryResponse{}}
		}
		byDay[day].TotalMinutes += e.Minutes
		byDay[day].Entries = append(byDay[day].Entries, toEntryResponse(e))
	}

	// Every day in the range appears, entry or not.
	out := make([]dailyTimeResponse, 0, period.Days())
	for d := period.Start; !d.After(period.End.Time); d = d.AddDays(1) {
		if day := byDay[d.String()]; day != nil {
			out = append(out, *day)
		} else {
			out = append(out, dailyTimeResponse{Date: d.String(), Entries: []entryResponse{}})
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListDailyEntries(w http.ResponseWriter, r *http.Request) {
	day, err := core.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := s.store.ListEntriesOn(r.Context(), day)
	if err != nil {
		slog.ErrorContext(r.Context(), "List daily entries failed", "error", err, "entry_date", day.String())
		writeError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

type createEntryRequest struct {
	TaskID  int64   `json:"task_id"`
	Date    string  `json:"entry_date"`
	Minutes int64   `json:"minutes"`
	Count   float64 `json:"count"`
	Notes   string  `json:"notes"`
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	day := s.today()
	if req.Date != "" {
		var err error
		day, err = core.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid entry_date, expected YYYY-MM-DD")
			return
		}
	}

	entry := core.TimeEntry{
		TaskID:  req.TaskID,
		Date:    day,
		Minutes: req.Minutes,
		Count:   req.Count,
		Notes:   sanitizeInput(req.Notes),
	}

	saved, err := s.recorder.RecordEntry(r.Context(), entry)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Record entry failed", "error", err, "task_id", req.TaskID)
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	s.invalidateAnalytics()
	writeJSON(w, http.StatusCreated, toEntryResponse(saved))
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrUnknownTask) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidMinutes) ||
		errors.Is(err, core.ErrInvalidCount) ||
		strings.Contains(err.Error(), "validate entry")
}
