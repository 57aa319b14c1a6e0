package storage

import (
	"context"

	"pillars/internal/core"
)

// TaxonomyReader serves the pillar/category/task hierarchy.
type TaxonomyReader interface {
	ListPillars(ctx context.Context) ([]core.Pillar, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListTasks(ctx context.Context) ([]core.Task, error)
}

// EntryReader serves recorded time entries.
type EntryReader interface {
	ListEntriesBetween(ctx context.Context, start, end core.Date) ([]core.TimeEntry, error)
	ListEntriesOn(ctx context.Context, day core.Date) ([]core.TimeEntry, error)
}

// EntryWriter records new time entries.
type EntryWriter interface {
	CreateEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error)
}

// StatusStore serves and updates periodic tracking statuses.
type StatusStore interface {
	ListStatuses(ctx context.Context, scope core.StatusScope, periodKey string) ([]core.PeriodStatus, error)
	UpsertStatus(ctx context.Context, s core.PeriodStatus) error
}

// StreakStore serves activity history and the persisted streak snapshot.
type StreakStore interface {
	ActivityDays(ctx context.Context, since core.Date) ([]core.Date, error)
	GetStreakSnapshot(ctx context.Context) (StreakSnapshot, error)
	UpsertStreakSnapshot(ctx context.Context, s StreakSnapshot) error
}
