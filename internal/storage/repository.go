package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pillars/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// StreakSnapshot is the single persisted row holding the last computed
// streak values.
type StreakSnapshot struct {
	Current   int
	Longest   int
	UpdatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListPillars(ctx context.Context) ([]core.Pillar, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, daily_allocated_hours FROM pillars ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list pillars: %w", err)
	}
	defer rows.Close()

	var pillars []core.Pillar
	for rows.Next() {
		var p core.Pillar
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.DailyAllocatedHours); err != nil {
			return nil, fmt.Errorf("scan pillar: %w", err)
		}
		pillars = append(pillars, p)
	}
	return pillars, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, pillar_id FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.PillarID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category_id, task_type, follow_up_frequency,
		        allocated_minutes, target_value, unit, is_active, is_completed, created_at
		 FROM tasks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []core.Task
	for rows.Next() {
		var t core.Task
		if err := rows.Scan(&t.ID, &t.Name, &t.CategoryID, &t.Type, &t.Frequency,
			&t.AllocatedMinutes, &t.TargetValue, &t.Unit, &t.Active, &t.Completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *SQLiteRepository) ListEntriesBetween(ctx context.Context, start, end core.Date) ([]core.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, entry_date, minutes, count, notes
		 FROM time_entries
		 WHERE entry_date >= ? AND entry_date <= ?
		 ORDER BY entry_date, id`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list entries between %s and %s: %w", start, end, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *SQLiteRepository) ListEntriesOn(ctx context.Context, day core.Date) ([]core.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, entry_date, minutes, count, notes
		 FROM time_entries
		 WHERE entry_date = ?
		 ORDER BY id`,
		day.String())
	if err != nil {
		return nil, fmt.Errorf("list entries on %s: %w", day, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]core.TimeEntry, error) {
	var entries []core.TimeEntry
	for rows.Next() {
		var e core.TimeEntry
		var day string
		if err := rows.Scan(&e.ID, &e.TaskID, &day, &e.Minutes, &e.Count, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		d, err := core.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("parse entry date %q: %w", day, err)
		}
		e.Date = d
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO time_entries (task_id, entry_date, minutes, count, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		e.TaskID, e.Date.String(), e.Minutes, e.Count, e.Notes)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("create entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("entry insert id: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Time entry saved",
		"id", e.ID,
		"task_id", e.TaskID,
		"entry_date", e.Date.String(),
		"minutes", e.Minutes)

	return e, nil
}

func (r *SQLiteRepository) ListStatuses(ctx context.Context, scope core.StatusScope, periodKey string) ([]core.PeriodStatus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, scope, period_key, is_completed, is_na, completed_at
		 FROM period_statuses
		 WHERE scope = ? AND period_key = ?
		 ORDER BY task_id`,
		string(scope), periodKey)
	if err != nil {
		return nil, fmt.Errorf("list %s statuses for %s: %w", scope, periodKey, err)
	}
	defer rows.Close()

	var statuses []core.PeriodStatus
	for rows.Next() {
		var s core.PeriodStatus
		var completedAt sql.NullTime
		if err := rows.Scan(&s.TaskID, &s.Scope, &s.PeriodKey, &s.Completed, &s.NA, &completedAt); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			s.CompletedAt = &t
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *SQLiteRepository) UpsertStatus(ctx context.Context, s core.PeriodStatus) error {
	var completedAt any
	if s.CompletedAt != nil {
		completedAt = *s.CompletedAt
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO period_statuses (task_id, scope, period_key, is_completed, is_na, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(task_id, scope, period_key) DO UPDATE SET
		     is_completed = excluded.is_completed,
		     is_na = excluded.is_na,
		     completed_at = excluded.completed_at`,
		s.TaskID, string(s.Scope), s.PeriodKey, s.Completed, s.NA, completedAt)
	if err != nil {
		return fmt.Errorf("upsert %s status for task %d: %w", s.Scope, s.TaskID, err)
	}

	slog.InfoContext(ctx, "Period status saved",
		"task_id", s.TaskID,
		"scope", string(s.Scope),
		"period_key", s.PeriodKey,
		"completed", s.Completed)

	return nil
}

// ActivityDays returns the distinct days with at least one entry since
// the given date, oldest first.
func (r *SQLiteRepository) ActivityDays(ctx context.Context, since core.Date) ([]core.Date, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT entry_date FROM time_entries
		 WHERE entry_date >= ?
		 ORDER BY entry_date`,
		since.String())
	if err != nil {
		return nil, fmt.Errorf("list activity days: %w", err)
	}
	defer rows.Close()

	var days []core.Date
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan activity day: %w", err)
		}
		d, err := core.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("parse activity day %q: %w", day, err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *SQLiteRepository) GetStreakSnapshot(ctx context.Context) (StreakSnapshot, error) {
	var s StreakSnapshot
	err := r.db.QueryRowContext(ctx,
		`SELECT current_streak, longest_streak, updated_at FROM streak_snapshot WHERE id = 1`).
		Scan(&s.Current, &s.Longest, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return StreakSnapshot{}, nil
	}
	if err != nil {
		return StreakSnapshot{}, fmt.Errorf("get streak snapshot: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) UpsertStreakSnapshot(ctx context.Context, s StreakSnapshot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO streak_snapshot (id, current_streak, longest_streak, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     current_streak = excluded.current_streak,
		     longest_streak = excluded.longest_streak,
		     updated_at = excluded.updated_at`,
		s.Current, s.Longest, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert streak snapshot: %w", err)
	}
	return nil
}
