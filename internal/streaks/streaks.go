// Package streaks computes consecutive-day activity streaks and the
// badges earned from them.
package streaks

import (
	"sort"

	"pillars/internal/core"
)

// Summary holds the streak values derived from activity history.
type Summary struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// Badge is a milestone reached by the longest streak.
type Badge struct {
	Name     string `json:"name"`
	Days     int    `json:"days"`
	Earned   bool   `json:"earned"`
	Progress int    `json:"progress"`
}

var milestones = []struct {
	name string
	days int
}{
	{"Week One", 7},
	{"Monthly Habit", 30},
	{"Quarter Master", 90},
	{"Year of Consistency", 365},
}

// Compute derives current and longest streaks from the distinct days
// with recorded activity. The current streak counts back from today and
// survives a not-yet-logged today: it only breaks when yesterday is
// also missing.
func Compute(days []core.Date, today core.Date) Summary {
	if len(days) == 0 {
		return Summary{}
	}

	sorted := make([]core.Date, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j].Time) })

	active := make(map[string]bool, len(sorted))
	for _, d := range sorted {
		active[d.String()] = true
	}

	var longest int
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].DaysUntil(sorted[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if len(sorted) > 0 && longest == 0 {
		longest = 1
	}

	anchor := today
	if !active[anchor.String()] {
		anchor = anchor.AddDays(-1)
	}

	current := 0
	for active[anchor.String()] {
		current++
		anchor = anchor.AddDays(-1)
	}

	if current > longest {
		longest = current
	}

	return Summary{Current: current, Longest: longest}
}

// Badges reports milestone progress against the longest streak.
func Badges(s Summary) []Badge {
	badges := make([]Badge, 0, len(milestones))
	for _, m := range milestones {
		progress := s.Longest
		if progress > m.days {
			progress = m.days
		}
		badges = append(badges, Badge{
			Name:     m.name,
			Days:     m.days,
			Earned:   s.Longest >= m.days,
			Progress: progress,
		})
	}
	return badges
}
