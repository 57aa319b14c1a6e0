package engine

import (
	"errors"
	"testing"

	"pillars/internal/core"
)

func TestResolvePeriod(t *testing.T) {
	// Wednesday
	ref := core.NewDate(2024, 3, 13)

	tests := []struct {
		name      string
		kind      PeriodKind
		wantStart string
		wantEnd   string
	}{
		{
			name:      "today is a single day",
			kind:      PeriodToday,
			wantStart: "2024-03-13",
			wantEnd:   "2024-03-13",
		},
		{
			name:      "week to date starts on Monday",
			kind:      PeriodWeekToDate,
			wantStart: "2024-03-11",
			wantEnd:   "2024-03-13",
		},
		{
			name:      "month to date starts on day one",
			kind:      PeriodMonthToDate,
			wantStart: "2024-03-01",
			wantEnd:   "2024-03-13",
		},
		{
			name:      "last 7 days is a trailing window",
			kind:      PeriodLast7Days,
			wantStart: "2024-03-06",
			wantEnd:   "2024-03-13",
		},
		{
			name:      "last 4 weeks trails 28 days",
			kind:      PeriodLast4Weeks,
			wantStart: "2024-02-14",
			wantEnd:   "2024-03-13",
		},
		{
			name:      "quarter covers the full calendar quarter",
			kind:      PeriodQuarter,
			wantStart: "2024-01-01",
			wantEnd:   "2024-03-31",
		},
		{
			name:      "year covers the full calendar year",
			kind:      PeriodYear,
			wantStart: "2024-01-01",
			wantEnd:   "2024-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePeriod(tt.kind, ref, "", "")
			if err != nil {
				t.Fatalf("ResolvePeriod(%s) error = %v", tt.kind, err)
			}
			if got := p.Start.String(); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := p.End.String(); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestResolvePeriod_Custom(t *testing.T) {
	ref := core.NewDate(2024, 3, 13)

	t.Run("valid range", func(t *testing.T) {
		p, err := ResolvePeriod(PeriodCustom, ref, "2024-01-15", "2024-02-20")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Start.String() != "2024-01-15" || p.End.String() != "2024-02-20" {
			t.Errorf("got [%s, %s]", p.Start, p.End)
		}
	})

	invalid := []struct {
		name  string
		start string
		end   string
	}{
		{"empty start", "", "2024-02-20"},
		{"empty end", "2024-01-15", ""},
		{"unparsable start", "not-a-date", "2024-02-20"},
		{"unparsable end", "2024-01-15", "20/02/2024"},
		{"end before start", "2024-02-20", "2024-01-15"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolvePeriod(PeriodCustom, ref, tt.start, tt.end)
			var rangeErr *InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("want *InvalidRangeError, got %v", err)
			}
		})
	}
}

func TestBucketKey(t *testing.T) {
	tests := []struct {
		name string
		date core.Date
		b    Bucketing
		want string
	}{
		{"day key is the date", core.NewDate(2024, 3, 13), BucketDay, "2024-03-13"},
		{"wednesday maps to monday week", core.NewDate(2024, 3, 13), BucketWeek, "2024-03-11"},
		{"sunday maps back to prior monday", core.NewDate(2024, 3, 17), BucketWeek, "2024-03-11"},
		{"monday maps to itself", core.NewDate(2024, 3, 11), BucketWeek, "2024-03-11"},
		{"month key", core.NewDate(2024, 3, 13), BucketMonth, "2024-03"},
		{"quarter key", core.NewDate(2024, 5, 2), BucketQuarter, "2024-Q2"},
		{"year key", core.NewDate(2024, 5, 2), BucketYear, "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketKey(tt.date, tt.b); got != tt.want {
				t.Errorf("BucketKey(%s, %s) = %s, want %s", tt.date, tt.b, got, tt.want)
			}
		})
	}
}

func TestElapsedDays(t *testing.T) {
	tests := []struct {
		name  string
		start core.Date
		today core.Date
		b     Bucketing
		want  int
	}{
		{
			name:  "three days into a week",
			start: core.NewDate(2024, 3, 11),
			today: core.NewDate(2024, 3, 13),
			b:     BucketWeek,
			want:  3,
		},
		{
			name:  "week fully elapsed clamps to 7",
			start: core.NewDate(2024, 3, 11),
			today: core.NewDate(2024, 4, 1),
			b:     BucketWeek,
			want:  7,
		},
		{
			name:  "future bucket has zero elapsed days",
			start: core.NewDate(2024, 3, 18),
			today: core.NewDate(2024, 3, 13),
			b:     BucketWeek,
			want:  0,
		},
		{
			name:  "first day of bucket counts as one",
			start: core.NewDate(2024, 3, 11),
			today: core.NewDate(2024, 3, 11),
			b:     BucketWeek,
			want:  1,
		},
		{
			name:  "month clamps to its calendar length",
			start: core.NewDate(2024, 2, 1),
			today: core.NewDate(2024, 6, 1),
			b:     BucketMonth,
			want:  29, // leap February
		},
		{
			name:  "quarter clamps to 91",
			start: core.NewDate(2024, 1, 1),
			today: core.NewDate(2024, 12, 31),
			b:     BucketQuarter,
			want:  91,
		},
		{
			name:  "year clamps to 365",
			start: core.NewDate(2023, 1, 1),
			today: core.NewDate(2024, 6, 1),
			b:     BucketYear,
			want:  365,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElapsedDays(tt.start, tt.today, tt.b); got != tt.want {
				t.Errorf("ElapsedDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestElapsedMonths(t *testing.T) {
	tests := []struct {
		name  string
		start core.Date
		today core.Date
		b     Bucketing
		want  int
	}{
		{"first month of quarter", core.NewDate(2024, 4, 1), core.NewDate(2024, 4, 20), BucketQuarter, 1},
		{"second month of quarter", core.NewDate(2024, 4, 1), core.NewDate(2024, 5, 2), BucketQuarter, 2},
		{"quarter clamps to three", core.NewDate(2024, 4, 1), core.NewDate(2024, 9, 1), BucketQuarter, 3},
		{"year clamps to twelve", core.NewDate(2023, 1, 1), core.NewDate(2024, 6, 1), BucketYear, 12},
		{"future bucket", core.NewDate(2024, 7, 1), core.NewDate(2024, 5, 1), BucketQuarter, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ElapsedMonths(tt.start, tt.today, tt.b); got != tt.want {
				t.Errorf("ElapsedMonths() = %d, want %d", got, tt.want)
			}
		})
	}
}
