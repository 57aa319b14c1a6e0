// Package engine implements the time-aggregation and target-comparison
// core shared by every analytics view: period resolution, per-bucket
// aggregation and allocated-vs-actual classification. All functions are
// pure; "today" is always a parameter, never read from the clock.
package engine

import (
	"fmt"
	"strings"
	"time"

	"pillars/internal/core"
)

type PeriodKind string

// The source application used "week" and "month" with two conflicting
// meanings (calendar-period-to-date vs trailing window). Here each
// meaning is a distinct named kind so no caller can be ambiguous.
const (
	PeriodToday       PeriodKind = "today"
	PeriodWeekToDate  PeriodKind = "week_to_date"
	PeriodMonthToDate PeriodKind = "month_to_date"
	PeriodLast7Days   PeriodKind = "last_7_days"
	PeriodLast4Weeks  PeriodKind = "last_4_weeks"
	PeriodQuarter     PeriodKind = "quarter"
	PeriodYear        PeriodKind = "year"
	PeriodCustom      PeriodKind = "custom"
)

// Period is a resolved date range. Both ends are inclusive at day
// granularity.
type Period struct {
	Start core.Date
	End   core.Date
}

// InvalidRangeError reports a custom range that could not be used.
// Resolution never falls back to a default range in that case; the
// caller must surface the error.
type InvalidRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range [%s, %s]: %s", e.Start, e.End, e.Reason)
}

func (k PeriodKind) Valid() bool {
	switch k {
	case PeriodToday, PeriodWeekToDate, PeriodMonthToDate, PeriodLast7Days,
		PeriodLast4Weeks, PeriodQuarter, PeriodYear, PeriodCustom:
		return true
	}
	return false
}

// ParsePeriodKind normalizes a user-supplied period selector.
func ParsePeriodKind(s string) (PeriodKind, error) {
	k := PeriodKind(strings.TrimSpace(strings.ToLower(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown period kind: %q", s)
	}
	return k, nil
}

// ResolvePeriod converts a logical period into a concrete date range.
// customStart and customEnd are only consulted for PeriodCustom.
func ResolvePeriod(kind PeriodKind, ref core.Date, customStart, customEnd string) (Period, error) {
	switch kind {
	case PeriodToday:
		return Period{Start: ref, End: ref}, nil
	case PeriodWeekToDate:
		return Period{Start: StartOfWeek(ref), End: ref}, nil
	case PeriodMonthToDate:
		return Period{Start: core.NewDate(ref.Year(), int(ref.Month()), 1), End: ref}, nil
	case PeriodLast7Days:
		return Period{Start: ref.AddDays(-7), End: ref}, nil
	case PeriodLast4Weeks:
		return Period{Start: ref.AddDays(-28), End: ref}, nil
	case PeriodQuarter:
		start := StartOfQuarter(ref)
		return Period{Start: start, End: Date(start.AddDate(0, 3, -1))}, nil
	case PeriodYear:
		return Period{
			Start: core.NewDate(ref.Year(), 1, 1),
			End:   core.NewDate(ref.Year(), 12, 31),
		}, nil
	case PeriodCustom:
		return resolveCustom(customStart, customEnd)
	}
	return Period{}, fmt.Errorf("unknown period kind: %q", kind)
}

func resolveCustom(startStr, endStr string) (Period, error) {
	if strings.TrimSpace(startStr) == "" || strings.TrimSpace(endStr) == "" {
		return Period{}, &InvalidRangeError{Start: startStr, End: endStr, Reason: "start and end are required"}
	}
	start, err := core.ParseDate(startStr)
	if err != nil {
		return Period{}, &InvalidRangeError{Start: startStr, End: endStr, Reason: "unparsable start date"}
	}
	end, err := core.ParseDate(endStr)
	if err != nil {
		return Period{}, &InvalidRangeError{Start: startStr, End: endStr, Reason: "unparsable end date"}
	}
	if end.Before(start.Time) {
		return Period{}, &InvalidRangeError{Start: startStr, End: endStr, Reason: "end before start"}
	}
	return Period{Start: start, End: end}, nil
}

// Days returns the number of days covered by the period.
func (p Period) Days() int {
	return p.Start.DaysUntil(p.End) + 1
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d core.Date) bool {
	return !d.Before(p.Start.Time) && !d.After(p.End.Time)
}

type Bucketing string

const (
	BucketDay     Bucketing = "day"
	BucketWeek    Bucketing = "week"
	BucketMonth   Bucketing = "month"
	BucketQuarter Bucketing = "quarter"
	BucketYear    Bucketing = "year"
)

func (b Bucketing) Valid() bool {
	switch b {
	case BucketDay, BucketWeek, BucketMonth, BucketQuarter, BucketYear:
		return true
	}
	return false
}

// Date converts a time.Time to a Date, truncating to UTC midnight.
func Date(t time.Time) core.Date {
	return core.NewDate(t.Year(), int(t.Month()), t.Day())
}

// StartOfWeek returns the Monday of the week containing d.
func StartOfWeek(d core.Date) core.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// StartOfQuarter returns the first day of the calendar quarter
// containing d.
func StartOfQuarter(d core.Date) core.Date {
	qm := (int(d.Month())-1)/3*3 + 1
	return core.NewDate(d.Year(), qm, 1)
}

// BucketStart returns the first day of the bucket containing d.
func BucketStart(d core.Date, b Bucketing) core.Date {
	switch b {
	case BucketWeek:
		return StartOfWeek(d)
	case BucketMonth:
		return core.NewDate(d.Year(), int(d.Month()), 1)
	case BucketQuarter:
		return StartOfQuarter(d)
	case BucketYear:
		return core.NewDate(d.Year(), 1, 1)
	}
	return d
}

// BucketKey returns the canonical key for the bucket containing d.
// Week keys are the Monday date, so an entry dated Wednesday lands in
// the Monday-starting week around it.
func BucketKey(d core.Date, b Bucketing) string {
	start := BucketStart(d, b)
	switch b {
	case BucketDay, BucketWeek:
		return start.String()
	case BucketMonth:
		return start.Format("2006-01")
	case BucketQuarter:
		return fmt.Sprintf("%d-Q%d", start.Year(), (int(start.Month())-1)/3+1)
	case BucketYear:
		return start.Format("2006")
	}
	return start.String()
}

// NominalLength returns the bucket's full length in days. Months use
// their true calendar length; quarters and years use the fixed values
// every view divides by.
func NominalLength(bucketStart core.Date, b Bucketing) int {
	switch b {
	case BucketDay:
		return 1
	case BucketWeek:
		return 7
	case BucketMonth:
		return daysInMonth(bucketStart.Year(), int(bucketStart.Month()))
	case BucketQuarter:
		return 91
	case BucketYear:
		return 365
	}
	return 1
}

// ElapsedDays returns how many days of the bucket have elapsed as of
// today, clamped to the bucket's nominal length. A future bucket has
// zero elapsed days. This count, not the nominal length, is the divisor
// for in-progress averages.
func ElapsedDays(bucketStart core.Date, today core.Date, b Bucketing) int {
	if today.Before(bucketStart.Time) {
		return 0
	}
	days := bucketStart.DaysUntil(today) + 1
	if n := NominalLength(bucketStart, b); days > n {
		return n
	}
	return days
}

// ElapsedFraction returns elapsed days over the bucket's nominal
// length, in [0, 1].
func ElapsedFraction(bucketStart core.Date, today core.Date, b Bucketing) float64 {
	return float64(ElapsedDays(bucketStart, today, b)) / float64(NominalLength(bucketStart, b))
}

// ElapsedMonths returns the number of calendar months of the bucket
// that have started as of today, clamped to the bucket's month count.
// Monthly-frequency targets prorate by whole months, not days.
func ElapsedMonths(bucketStart core.Date, today core.Date, b Bucketing) int {
	if today.Before(bucketStart.Time) {
		return 0
	}
	months := (today.Year()-bucketStart.Year())*12 + int(today.Month()) - int(bucketStart.Month()) + 1
	max := 1
	switch b {
	case BucketQuarter:
		max = 3
	case BucketYear:
		max = 12
	}
	if months > max {
		return max
	}
	return months
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
