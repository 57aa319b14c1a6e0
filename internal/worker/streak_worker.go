// Package worker keeps derived data fresh: streak snapshots after each
// entry and the weekly spreadsheet export.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pillars/internal/amqp"
	"pillars/internal/core"
	"pillars/internal/report"
	"pillars/internal/storage"
	"pillars/internal/streaks"
)

type StreakWorker struct {
	storage      storage.StreakStore
	builder      *report.Builder
	writer       report.Writer
	lookbackDays int
}

func NewStreakWorker(store storage.StreakStore, builder *report.Builder, writer report.Writer, lookbackDays int) *StreakWorker {
	return &StreakWorker{
		storage:      store,
		builder:      builder,
		writer:       writer,
		lookbackDays: lookbackDays,
	}
}

// HandleEntryRecorded recomputes the streak snapshot when an entry is
// saved. A new entry can only extend or start a streak, so a full
// recompute over the lookback window is always correct.
func (w *StreakWorker) HandleEntryRecorded(ctx context.Context, msg *amqp.EntryRecordedMessage) error {
	slog.InfoContext(ctx, "Processing entry recorded message",
		"entry_id", msg.EntryID,
		"task_id", msg.TaskID,
		"entry_date", msg.EntryDate)

	return w.RecomputeStreaks(ctx)
}

// RecomputeStreaks rebuilds the persisted streak snapshot from the
// activity history inside the lookback window, keeping the historical
// longest streak when it beats the recomputed one.
func (w *StreakWorker) RecomputeStreaks(ctx context.Context) error {
	now := time.Now()
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())

	days, err := w.storage.ActivityDays(ctx, today.AddDays(-w.lookbackDays))
	if err != nil {
		return fmt.Errorf("load activity days: %w", err)
	}

	summary := streaks.Compute(days, today)

	previous, err := w.storage.GetStreakSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load streak snapshot: %w", err)
	}
	longest := summary.Longest
	if previous.Longest > longest {
		longest = previous.Longest
	}

	snapshot := storage.StreakSnapshot{Current: summary.Current, Longest: longest}
	if err := w.storage.UpsertStreakSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("save streak snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Streak snapshot updated",
		"current_streak", snapshot.Current,
		"longest_streak", snapshot.Longest,
		"activity_days", len(days))

	return nil
}

// ExportWeeklyReport builds last week's summary and appends it to the
// spreadsheet. Scheduled for Monday mornings, so the reference date is
// shifted back into the completed week.
func (w *StreakWorker) ExportWeeklyReport(ctx context.Context) error {
	if w.writer == nil {
		slog.InfoContext(ctx, "Report writer not configured, skipping weekly export")
		return nil
	}

	now := time.Now()
	lastWeek := core.NewDate(now.Year(), int(now.Month()), now.Day()).AddDays(-7)

	summary, err := w.builder.BuildWeeklySummary(ctx, lastWeek)
	if err != nil {
		return fmt.Errorf("build weekly summary: %w", err)
	}

	if err := w.writer.AppendWeeklySummary(ctx, summary); err != nil {
		return fmt.Errorf("export weekly summary: %w", err)
	}

	slog.InfoContext(ctx, "Weekly report exported",
		"week_start", summary.WeekStart,
		"pillars", len(summary.Rows))

	return nil
}
