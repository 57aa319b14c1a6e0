package engine

import (
	"pillars/internal/core"
)

type Status string

const (
	StatusOnTrack  Status = "on_track"
	StatusBehind   Status = "behind"
	StatusNoTarget Status = "no_target"
)

// Verdict is the outcome of comparing actual progress in one bucket
// against the elapsed-time-prorated expectation.
type Verdict struct {
	Status   Status  `json:"status"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
}

// ExpectedValue prorates a task's nominal per-period target by the time
// elapsed in the bucket, honoring the follow-up frequency's own
// granularity:
//
//   - daily tasks expect target x elapsed days
//   - weekly tasks expect target x elapsed days / 7
//   - monthly tasks prorate by whole elapsed months inside month,
//     quarter and year buckets (day-level proration would add
//     fractional-month noise); inside day and week buckets they fall
//     back to a 30-day month
//   - one-time tasks expect their full target once the bucket begins
//
// A future bucket expects zero.
func ExpectedValue(task core.Task, bucketStart core.Date, b Bucketing, today core.Date) float64 {
	elapsed := ElapsedDays(bucketStart, today, b)
	if elapsed == 0 {
		return 0
	}
	target := task.TargetPerPeriod()
	switch task.Frequency {
	case core.Daily:
		return target * float64(elapsed)
	case core.Weekly:
		return target * float64(elapsed) / 7
	case core.Monthly:
		switch b {
		case BucketMonth, BucketQuarter, BucketYear:
			return target * float64(ElapsedMonths(bucketStart, today, b))
		default:
			return target * float64(elapsed) / 30
		}
	case core.OneTime:
		return target
	}
	return 0
}

// Classify compares a bucket's actual value against the prorated
// expectation. Zero progress against a nonzero expectation is behind,
// not neutral: it should stand out. Future buckets are never
// classified, since no progress could possibly exist yet. Each call is
// independent and stateless; results are recomputed from fresh data on
// every render.
func Classify(task core.Task, actual float64, bucketStart core.Date, b Bucketing, today core.Date) Verdict {
	if today.Before(bucketStart.Time) {
		return Verdict{Status: StatusNoTarget, Expected: 0, Actual: actual}
	}
	expected := ExpectedValue(task, bucketStart, b, today)
	v := Verdict{Expected: expected, Actual: actual}
	switch {
	case expected == 0:
		v.Status = StatusNoTarget
	case actual >= expected:
		v.Status = StatusOnTrack
	default:
		v.Status = StatusBehind
	}
	return v
}
