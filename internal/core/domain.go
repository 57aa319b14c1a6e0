package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TaskTime    TaskType = "TIME"
	TaskCount   TaskType = "COUNT"
	TaskBoolean TaskType = "BOOLEAN"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	OneTime Frequency = "one_time"
)

type (
	TaskType string

	Frequency string

	Date struct {
		time.Time
	}

	// Pillar is a top-level life area. Categories and tasks roll up to
	// exactly one pillar.
	Pillar struct {
		ID                  int64
		Name                string
		Color               string
		DailyAllocatedHours float64
	}

	Category struct {
		ID       int64
		Name     string
		PillarID int64
	}

	// Task is a trackable unit. AllocatedMinutes is meaningful for TIME
	// tasks, TargetValue+Unit for COUNT tasks; BOOLEAN tasks carry an
	// implicit target of one completion per frequency period.
	Task struct {
		ID               int64
		Name             string
		CategoryID       int64
		Type             TaskType
		Frequency        Frequency
		AllocatedMinutes int64
		TargetValue      float64
		Unit             string
		Active           bool
		Completed        bool
		CreatedAt        time.Time
	}

	// TimeEntry records minutes (or a count) against a task on a single
	// day. Several entries may exist for the same task and day; they
	// always accumulate.
	TimeEntry struct {
		ID      int64
		TaskID  int64
		Date    Date
		Minutes int64
		Count   float64
		Notes   string
	}

	// PeriodStatus marks a task as part of a periodic tracking view.
	// The presence of a row is itself the signal that the task was added
	// to that view for the period.
	PeriodStatus struct {
		TaskID      int64
		Scope       StatusScope
		PeriodKey   string
		Completed   bool
		NA          bool
		CompletedAt *time.Time
	}

	StatusScope string
)

const (
	ScopeWeekly  StatusScope = "weekly"
	ScopeMonthly StatusScope = "monthly"
	ScopeYearly  StatusScope = "yearly"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidTaskType  = errors.New("invalid task type")
	ErrInvalidFrequency = errors.New("invalid follow-up frequency")
	ErrInvalidMinutes   = errors.New("invalid minutes")
	ErrInvalidCount     = errors.New("invalid count")
	ErrUnknownTask      = errors.New("unknown task")
	ErrInvalidScope     = errors.New("invalid status scope")
	ErrEmptyPeriodKey   = errors.New("empty period key")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date shifted by n days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// DaysUntil returns the whole days from d to other (negative when other
// is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

func (t TaskType) Valid() bool {
	switch t {
	case TaskTime, TaskCount, TaskBoolean:
		return true
	}
	return false
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, OneTime:
		return true
	}
	return false
}

func (s StatusScope) Valid() bool {
	switch s {
	case ScopeWeekly, ScopeMonthly, ScopeYearly:
		return true
	}
	return false
}

func (p Pillar) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.DailyAllocatedHours < 0 {
		return errors.New("negative daily allocated hours")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.PillarID <= 0 {
		return errors.New("category must belong to a pillar")
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if !t.Type.Valid() {
		return ErrInvalidTaskType
	}
	if !t.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if t.AllocatedMinutes < 0 {
		return ErrInvalidMinutes
	}
	if t.TargetValue < 0 {
		return ErrInvalidCount
	}
	return nil
}

// TargetPerPeriod returns the nominal target for one frequency period.
// Missing allocations default to zero so a single malformed record
// degrades to a no-target verdict instead of failing the whole view.
func (t Task) TargetPerPeriod() float64 {
	switch t.Type {
	case TaskTime:
		return float64(t.AllocatedMinutes)
	case TaskCount:
		return t.TargetValue
	case TaskBoolean:
		return 1
	}
	return 0
}

func (e TimeEntry) Validate() error {
	if e.TaskID <= 0 {
		return ErrUnknownTask
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Minutes < 0 {
		return ErrInvalidMinutes
	}
	if e.Count < 0 {
		return ErrInvalidCount
	}
	if len(e.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}

// Value returns the quantity an entry contributes under the given task
// type: minutes for TIME, count for COUNT, one completion for BOOLEAN.
func (e TimeEntry) Value(kind TaskType) float64 {
	switch kind {
	case TaskTime:
		return float64(e.Minutes)
	case TaskCount:
		return e.Count
	case TaskBoolean:
		if e.Minutes > 0 || e.Count > 0 {
			return 1
		}
	}
	return 0
}

func (s PeriodStatus) Validate() error {
	if s.TaskID <= 0 {
		return ErrUnknownTask
	}
	if !s.Scope.Valid() {
		return ErrInvalidScope
	}
	if strings.TrimSpace(s.PeriodKey) == "" {
		return ErrEmptyPeriodKey
	}
	return nil
}
