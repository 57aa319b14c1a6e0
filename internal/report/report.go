// Package report builds exportable summaries of tracked time.
package report

import (
	"context"
	"fmt"
	"sort"

	"pillars/internal/core"
	"pillars/internal/engine"
	"pillars/internal/storage"
)

// WeeklySummary is one exported row set: total minutes per pillar for a
// single week, plus the overall utilization of the allocated time.
type WeeklySummary struct {
	WeekStart string
	WeekEnd   string
	Rows      []PillarRow
}

// PillarRow is the per-pillar slice of a weekly summary.
type PillarRow struct {
	Pillar      string
	Minutes     float64
	Utilization float64
}

// Builder assembles weekly summaries from stored data.
type Builder struct {
	taxonomy storage.TaxonomyReader
	entries  storage.EntryReader
}

func NewBuilder(taxonomy storage.TaxonomyReader, entries storage.EntryReader) *Builder {
	return &Builder{taxonomy: taxonomy, entries: entries}
}

// BuildWeeklySummary aggregates the calendar week containing ref into
// per-pillar totals.
func (b *Builder) BuildWeeklySummary(ctx context.Context, ref core.Date) (WeeklySummary, error) {
	period, err := engine.ResolvePeriod(engine.PeriodWeekToDate, ref, "", "")
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("resolve week: %w", err)
	}
	// Export covers the full week, not just the elapsed part.
	weekStart := engine.StartOfWeek(period.Start)
	weekEnd := weekStart.AddDays(6)

	pillarsList, err := b.taxonomy.ListPillars(ctx)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("list pillars: %w", err)
	}
	categories, err := b.taxonomy.ListCategories(ctx)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("list categories: %w", err)
	}
	tasks, err := b.taxonomy.ListTasks(ctx)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("list tasks: %w", err)
	}
	entries, err := b.entries.ListEntriesBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return WeeklySummary{}, fmt.Errorf("list entries: %w", err)
	}

	lookup := engine.NewLookup(tasks, categories, pillarsList)
	result := engine.Aggregate(entries, lookup, engine.Options{
		Bucketing: engine.BucketWeek,
		GroupBy:   engine.GroupByPillar,
		Kind:      core.TaskTime,
	})

	byName := make(map[int64]core.Pillar, len(pillarsList))
	for _, p := range pillarsList {
		byName[p.ID] = p
	}

	rows := make([]PillarRow, 0, len(result))
	for pillarID, buckets := range result {
		p, ok := byName[pillarID]
		if !ok {
			continue
		}
		var minutes float64
		for _, v := range buckets {
			minutes += v
		}
		allocated := p.DailyAllocatedHours * 60 * 7
		rows = append(rows, PillarRow{
			Pillar:      p.Name,
			Minutes:     minutes,
			Utilization: engine.Utilization(minutes, allocated),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Pillar < rows[j].Pillar })

	return WeeklySummary{
		WeekStart: weekStart.String(),
		WeekEnd:   weekEnd.String(),
		Rows:      rows,
	}, nil
}
