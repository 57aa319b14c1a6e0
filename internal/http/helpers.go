package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pillars/internal/engine"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// periodFromQuery resolves the period selector shared by the analytics
// endpoints: ?period= plus ?start_date=/?end_date= for custom ranges.
// An invalid custom range is a client error, never silently replaced
// with a default.
func (s *Server) periodFromQuery(r *http.Request) (engine.Period, engine.PeriodKind, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("period"))
	if raw == "" {
		raw = string(engine.PeriodWeekToDate)
	}
	kind, err := engine.ParsePeriodKind(raw)
	if err != nil {
		return engine.Period{}, "", err
	}

	period, err := engine.ResolvePeriod(kind, s.today(),
		r.URL.Query().Get("start_date"), r.URL.Query().Get("end_date"))
	if err != nil {
		return engine.Period{}, "", err
	}
	return period, kind, nil
}

// statusFromRangeError maps range resolution failures to a client
// error; anything else is a server fault.
func statusFromRangeError(err error) int {
	var rangeErr *engine.InvalidRangeError
	if errors.As(err, &rangeErr) {
		return http.StatusBadRequest
	}
	if strings.Contains(err.Error(), "unknown period kind") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
