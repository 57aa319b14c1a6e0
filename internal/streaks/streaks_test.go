package streaks

import (
	"testing"

	"pillars/internal/core"
)

func dates(pairs ...[3]int) []core.Date {
	out := make([]core.Date, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, core.NewDate(p[0], p[1], p[2]))
	}
	return out
}

func TestCompute(t *testing.T) {
	today := core.NewDate(2024, 3, 13)

	tests := []struct {
		name        string
		days        []core.Date
		wantCurrent int
		wantLongest int
	}{
		{
			name: "no activity",
		},
		{
			name:        "active today and two days back",
			days:        dates([3]int{2024, 3, 11}, [3]int{2024, 3, 12}, [3]int{2024, 3, 13}),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "today not yet logged keeps streak alive",
			days:        dates([3]int{2024, 3, 11}, [3]int{2024, 3, 12}),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "gap before yesterday breaks current streak",
			days:        dates([3]int{2024, 3, 9}, [3]int{2024, 3, 10}, [3]int{2024, 3, 11}),
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name: "longest run in the past beats current",
			days: dates(
				[3]int{2024, 2, 1}, [3]int{2024, 2, 2}, [3]int{2024, 2, 3},
				[3]int{2024, 2, 4}, [3]int{2024, 2, 5},
				[3]int{2024, 3, 13},
			),
			wantCurrent: 1,
			wantLongest: 5,
		},
		{
			name:        "single isolated day",
			days:        dates([3]int{2024, 1, 15}),
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name: "unsorted input",
			days: dates([3]int{2024, 3, 13}, [3]int{2024, 3, 11}, [3]int{2024, 3, 12}),

			wantCurrent: 3,
			wantLongest: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.days, today)
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
		})
	}
}

func TestBadges(t *testing.T) {
	badges := Badges(Summary{Current: 12, Longest: 35})

	if len(badges) != 4 {
		t.Fatalf("Badges() returned %d badges, want 4", len(badges))
	}

	byName := make(map[string]Badge)
	for _, b := range badges {
		byName[b.Name] = b
	}

	if !byName["Week One"].Earned || !byName["Monthly Habit"].Earned {
		t.Error("7 and 30 day badges should be earned with longest streak 35")
	}
	if byName["Quarter Master"].Earned {
		t.Error("90 day badge should not be earned with longest streak 35")
	}
	if got := byName["Quarter Master"].Progress; got != 35 {
		t.Errorf("Quarter Master progress = %d, want 35", got)
	}
	if got := byName["Monthly Habit"].Progress; got != 30 {
		t.Errorf("Monthly Habit progress = %d, want 30 (capped)", got)
	}
}
