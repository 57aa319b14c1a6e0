package engine

import (
	"log/slog"

	"pillars/internal/core"
)

type GroupBy string

const (
	GroupByTask     GroupBy = "task"
	GroupByCategory GroupBy = "category"
	GroupByPillar   GroupBy = "pillar"
)

func (g GroupBy) Valid() bool {
	switch g {
	case GroupByTask, GroupByCategory, GroupByPillar:
		return true
	}
	return false
}

// Options selects how entries are bucketed and grouped. Kind filters
// entries to one task type, so COUNT values never pollute a minutes
// aggregation.
type Options struct {
	Bucketing Bucketing
	GroupBy   GroupBy
	Kind      core.TaskType
}

// Result maps group key (task, category or pillar ID) to bucket key to
// accumulated value.
type Result map[int64]map[string]float64

// Total returns the sum for one group across all buckets.
func (r Result) Total(groupKey int64) float64 {
	var sum float64
	for _, v := range r[groupKey] {
		sum += v
	}
	return sum
}

// Value returns the accumulated value for a (group, bucket) pair, zero
// when absent.
func (r Result) Value(groupKey int64, bucketKey string) float64 {
	return r[groupKey][bucketKey]
}

// Lookup holds prebuilt id-to-entity maps so joins are O(1) instead of
// repeated linear scans over parallel slices.
type Lookup struct {
	tasks      map[int64]core.Task
	categories map[int64]core.Category
	pillars    map[int64]core.Pillar
}

func NewLookup(tasks []core.Task, categories []core.Category, pillarList []core.Pillar) *Lookup {
	lk := &Lookup{
		tasks:      make(map[int64]core.Task, len(tasks)),
		categories: make(map[int64]core.Category, len(categories)),
		pillars:    make(map[int64]core.Pillar, len(pillarList)),
	}
	for _, t := range tasks {
		lk.tasks[t.ID] = t
	}
	for _, c := range categories {
		lk.categories[c.ID] = c
	}
	for _, p := range pillarList {
		lk.pillars[p.ID] = p
	}
	return lk
}

// Task returns the task for an id.
func (lk *Lookup) Task(id int64) (core.Task, bool) {
	t, ok := lk.tasks[id]
	return t, ok
}

// Category returns the category for an id.
func (lk *Lookup) Category(id int64) (core.Category, bool) {
	c, ok := lk.categories[id]
	return c, ok
}

// Pillar returns the pillar for an id.
func (lk *Lookup) Pillar(id int64) (core.Pillar, bool) {
	p, ok := lk.pillars[id]
	return p, ok
}

// groupKey walks the Task -> Category -> Pillar ownership chain for a
// task. ok is false when a link needed by the grouping is missing; such
// tasks are excluded from rollups, never dumped into a catch-all.
func (lk *Lookup) groupKey(task core.Task, groupBy GroupBy) (int64, bool) {
	switch groupBy {
	case GroupByTask:
		return task.ID, true
	case GroupByCategory:
		if _, ok := lk.categories[task.CategoryID]; !ok {
			return 0, false
		}
		return task.CategoryID, true
	case GroupByPillar:
		cat, ok := lk.categories[task.CategoryID]
		if !ok {
			return 0, false
		}
		if _, ok := lk.pillars[cat.PillarID]; !ok {
			return 0, false
		}
		return cat.PillarID, true
	}
	return 0, false
}

// Aggregate sums entry values per (group, bucket) pair. Entries always
// accumulate: daily data can carry several intraday entries for the
// same task. Active tasks of the selected kind appear in the result
// even with no entries, so allocation-vs-actual views render a full
// allocated bar against a zero actual.
func Aggregate(entries []core.TimeEntry, lk *Lookup, opts Options) Result {
	result := make(Result)

	// Zero-fill groups for active tasks first. Orphaned references are
	// only excluded from category/pillar rollups; flat task grouping
	// keeps them.
	for _, task := range lk.tasks {
		if !task.Active || task.Type != opts.Kind {
			continue
		}
		key, ok := lk.groupKey(task, opts.GroupBy)
		if !ok {
			slog.Warn("task excluded from rollup: unresolved ownership chain",
				"task_id", task.ID, "category_id", task.CategoryID, "group_by", string(opts.GroupBy))
			continue
		}
		if result[key] == nil {
			result[key] = make(map[string]float64)
		}
	}

	for _, e := range entries {
		task, ok := lk.tasks[e.TaskID]
		if !ok {
			slog.Warn("entry skipped: unknown task", "task_id", e.TaskID, "date", e.Date.String())
			continue
		}
		if task.Type != opts.Kind {
			continue
		}
		key, ok := lk.groupKey(task, opts.GroupBy)
		if !ok {
			continue
		}
		bucket := BucketKey(e.Date, opts.Bucketing)
		if result[key] == nil {
			result[key] = make(map[string]float64)
		}
		result[key][bucket] += e.Value(opts.Kind)
	}

	return result
}

// AveragePerDay divides a bucket total by the days elapsed so far, not
// the bucket's nominal length. Dividing week-to-date minutes by 7 when
// only 3 days have passed would understate the average. A future bucket
// averages to zero.
func AveragePerDay(total float64, bucketStart core.Date, today core.Date, b Bucketing) float64 {
	elapsed := ElapsedDays(bucketStart, today, b)
	if elapsed == 0 {
		return 0
	}
	return total / float64(elapsed)
}

// Utilization returns spent over allocated as a percentage. A zero
// allocation reports 0%, never NaN or Inf.
func Utilization(spentHours, allocatedHours float64) float64 {
	if allocatedHours <= 0 {
		return 0
	}
	return spentHours / allocatedHours * 100
}
