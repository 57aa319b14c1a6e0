package engine

import (
	"math"
	"testing"

	"pillars/internal/core"
)

func dailyTimeTask(allocated int64) core.Task {
	return core.Task{
		ID: 1, Name: "Writing", CategoryID: 10,
		Type: core.TaskTime, Frequency: core.Daily,
		AllocatedMinutes: allocated, Active: true,
	}
}

func TestClassify_DailyTaskInWeekBucket(t *testing.T) {
	weekStart := core.NewDate(2024, 3, 11)
	// Three days elapsed.
	today := core.NewDate(2024, 3, 13)
	task := dailyTimeTask(30)

	tests := []struct {
		name         string
		actual       float64
		wantStatus   Status
		wantExpected float64
	}{
		{
			// 100 minutes over 3 days against 30/day: expected 90.
			name:         "ahead of prorated expectation",
			actual:       100,
			wantStatus:   StatusOnTrack,
			wantExpected: 90,
		},
		{
			name:         "short of prorated expectation",
			actual:       60,
			wantStatus:   StatusBehind,
			wantExpected: 90,
		},
		{
			name:         "exactly on expectation is on track",
			actual:       90,
			wantStatus:   StatusOnTrack,
			wantExpected: 90,
		},
		{
			name:         "a hair under expectation is behind",
			actual:       90 - 1e-9,
			wantStatus:   StatusBehind,
			wantExpected: 90,
		},
		{
			name:         "zero progress is behind, not neutral",
			actual:       0,
			wantStatus:   StatusBehind,
			wantExpected: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(task, tt.actual, weekStart, BucketWeek, today)
			if v.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", v.Status, tt.wantStatus)
			}
			if math.Abs(v.Expected-tt.wantExpected) > 1e-9 {
				t.Errorf("expected = %v, want %v", v.Expected, tt.wantExpected)
			}
		})
	}
}

func TestClassify_FutureBucketNeverClassified(t *testing.T) {
	task := dailyTimeTask(30)
	futureStart := core.NewDate(2024, 3, 18)
	today := core.NewDate(2024, 3, 13)

	for _, actual := range []float64{0, 50, 1000} {
		v := Classify(task, actual, futureStart, BucketWeek, today)
		if v.Status != StatusNoTarget {
			t.Errorf("actual=%v: status = %s, want %s", actual, v.Status, StatusNoTarget)
		}
		if v.Expected != 0 {
			t.Errorf("actual=%v: expected = %v, want 0", actual, v.Expected)
		}
	}
}

func TestClassify_NoAllocationIsNoTarget(t *testing.T) {
	// Malformed TIME task: allocation missing, defaulted to zero.
	task := dailyTimeTask(0)
	v := Classify(task, 45, core.NewDate(2024, 3, 11), BucketWeek, core.NewDate(2024, 3, 13))
	if v.Status != StatusNoTarget {
		t.Errorf("status = %s, want %s", v.Status, StatusNoTarget)
	}
}

func TestExpectedValue_FrequencyProration(t *testing.T) {
	tests := []struct {
		name        string
		frequency   core.Frequency
		allocated   int64
		bucketStart core.Date
		b           Bucketing
		today       core.Date
		want        float64
	}{
		{
			name:      "weekly task three days into a week",
			frequency: core.Weekly, allocated: 70,
			bucketStart: core.NewDate(2024, 3, 11), b: BucketWeek,
			today: core.NewDate(2024, 3, 13),
			want:  30, // 70 x 3/7
		},
		{
			name:      "weekly task with full week elapsed",
			frequency: core.Weekly, allocated: 70,
			bucketStart: core.NewDate(2024, 3, 11), b: BucketWeek,
			today: core.NewDate(2024, 4, 1),
			want:  70,
		},
		{
			name:      "monthly task in second month of quarter",
			frequency: core.Monthly, allocated: 120,
			bucketStart: core.NewDate(2024, 4, 1), b: BucketQuarter,
			today: core.NewDate(2024, 5, 10),
			want:  240, // whole months, not days
		},
		{
			name:      "monthly task in month bucket expects full target",
			frequency: core.Monthly, allocated: 120,
			bucketStart: core.NewDate(2024, 4, 1), b: BucketMonth,
			today: core.NewDate(2024, 4, 2),
			want:  120,
		},
		{
			name:      "one time task expects full target once started",
			frequency: core.OneTime, allocated: 300,
			bucketStart: core.NewDate(2024, 4, 1), b: BucketQuarter,
			today: core.NewDate(2024, 4, 1),
			want:  300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := core.Task{
				ID: 1, Name: "t", Type: core.TaskTime,
				Frequency: tt.frequency, AllocatedMinutes: tt.allocated, Active: true,
			}
			got := ExpectedValue(task, tt.bucketStart, tt.b, tt.today)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ExpectedValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_BooleanTask(t *testing.T) {
	task := core.Task{
		ID: 2, Name: "Call parents", Type: core.TaskBoolean,
		Frequency: core.Weekly, Active: true,
	}
	weekStart := core.NewDate(2024, 3, 11)
	endOfWeek := core.NewDate(2024, 3, 17)

	done := Classify(task, 1, weekStart, BucketWeek, endOfWeek)
	if done.Status != StatusOnTrack {
		t.Errorf("completed boolean task: status = %s, want %s", done.Status, StatusOnTrack)
	}

	missed := Classify(task, 0, weekStart, BucketWeek, endOfWeek)
	if missed.Status != StatusBehind {
		t.Errorf("missed boolean task: status = %s, want %s", missed.Status, StatusBehind)
	}
}
