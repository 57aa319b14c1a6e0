package http

import (
	"log/slog"
	"net/http"

	"pillars/internal/streaks"
)

// streakLookbackDays bounds the activity history loaded for live streak
// computation. Longer historical streaks survive via the persisted
// snapshot.
const streakLookbackDays = 400

func (s *Server) currentStreaks(r *http.Request) (streaks.Summary, error) {
	today := s.today()
	days, err := s.store.ActivityDays(r.Context(), today.AddDays(-streakLookbackDays))
	if err != nil {
		return streaks.Summary{}, err
	}

	summary := streaks.Compute(days, today)

	// The snapshot remembers streaks older than the lookback window.
	snapshot, err := s.store.GetStreakSnapshot(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "Streak snapshot unavailable", "error", err)
		return summary, nil
	}
	if snapshot.Longest > summary.Longest {
		summary.Longest = snapshot.Longest
	}
	return summary, nil
}

func (s *Server) handleCurrentStreak(w http.ResponseWriter, r *http.Request) {
	summary, err := s.currentStreaks(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Streak computation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute streaks")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStreakBadges(w http.ResponseWriter, r *http.Request) {
	summary, err := s.currentStreaks(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Streak computation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute streaks")
		return
	}
	writeJSON(w, http.StatusOK, streaks.Badges(summary))
}
