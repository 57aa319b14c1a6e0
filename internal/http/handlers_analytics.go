package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"pillars/internal/core"
	"pillars/internal/engine"
)

// analyticsData is the joined snapshot every analytics handler starts
// from.
type analyticsData struct {
	pillars    []core.Pillar
	categories []core.Category
	tasks      []core.Task
	entries    []core.TimeEntry
}

// loadAnalyticsData fetches the taxonomy and the period's entries
// concurrently.
func (s *Server) loadAnalyticsData(r *http.Request, period engine.Period) (analyticsData, error) {
	var data analyticsData

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.pillars, err = s.store.ListPillars(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.categories, err = s.store.ListCategories(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.tasks, err = s.store.ListTasks(ctx)
		return err
	})
	g.Go(func() (err error) {
		data.entries, err = s.store.ListEntriesBetween(ctx, period.Start, period.End)
		return err
	})

	if err := g.Wait(); err != nil {
		return analyticsData{}, err
	}
	return data, nil
}

func (s *Server) handlePillarDistribution(w http.ResponseWriter, r *http.Request) {
	period, _, err := s.periodFromQuery(r)
	if err != nil {
		writeError(w, statusFromRangeError(err), err.Error())
		return
	}

	cacheKey := period.Start.String() + ":" + period.End.String()
	if cached, ok := s.pillarCache.Get(cacheKey); ok {
		slog.DebugContext(r.Context(), "Pillar distribution cache hit", "start_date", period.Start.String(), "end_date", period.End.String())
		writeJSON(w, http.StatusOK, cached)
		return
	}

	data, err := s.loadAnalyticsData(r, period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Pillar distribution load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load analytics data")
		return
	}

	lookup := engine.NewLookup(data.tasks, data.categories, data.pillars)
	result := engine.Aggregate(data.entries, lookup, engine.Options{
		Bucketing: engine.BucketDay,
		GroupBy:   engine.GroupByPillar,
		Kind:      core.TaskTime,
	})

	days := float64(period.Days())
	out := make([]core.PillarUsage, 0, len(data.pillars))
	for _, p := range data.pillars {
		spentHours := result.Total(p.ID) / 60
		allocatedHours := p.DailyAllocatedHours * days
		out = append(out, core.PillarUsage{
			PillarID:              p.ID,
			Name:                  p.Name,
			Color:                 p.Color,
			AllocatedHours:        allocatedHours,
			SpentHours:            spentHours,
			UtilizationPercentage: engine.Utilization(spentHours, allocatedHours),
		})
	}

	s.pillarCache.Set(cacheKey, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	period, _, err := s.periodFromQuery(r)
	if err != nil {
		writeError(w, statusFromRangeError(err), err.Error())
		return
	}

	// Optional ?pillar_id= narrows the breakdown to one pillar.
	var pillarID int64
	if raw := strings.TrimSpace(r.URL.Query().Get("pillar_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid pillar_id")
			return
		}
		pillarID = id
	}

	cacheKey := period.Start.String() + ":" + period.End.String() + ":" + strconv.FormatInt(pillarID, 10)
	if cached, ok := s.categoryCache.Get(cacheKey); ok {
		slog.DebugContext(r.Context(), "Category breakdown cache hit", "start_date", period.Start.String(), "end_date", period.End.String())
		writeJSON(w, http.StatusOK, cached)
		return
	}

	data, err := s.loadAnalyticsData(r, period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Category breakdown load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load analytics data")
		return
	}

	lookup := engine.NewLookup(data.tasks, data.categories, data.pillars)
	result := engine.Aggregate(data.entries, lookup, engine.Options{
		Bucketing: engine.BucketDay,
		GroupBy:   engine.GroupByCategory,
		Kind:      core.TaskTime,
	})

	// Categories have no allocation of their own; derive a per-day rate
	// from their active TIME tasks' targets.
	allocatedPerDay := make(map[int64]float64)
	for _, t := range data.tasks {
		if !t.Active || t.Type != core.TaskTime {
			continue
		}
		allocatedPerDay[t.CategoryID] += dailyAllocatedMinutes(t)
	}

	days := float64(period.Days())
	out := make([]core.CategoryUsage, 0, len(data.categories))
	for _, c := range data.categories {
		if pillarID != 0 && c.PillarID != pillarID {
			continue
		}
		spentHours := result.Total(c.ID) / 60
		allocatedHours := allocatedPerDay[c.ID] / 60 * days
		out = append(out, core.CategoryUsage{
			CategoryID:            c.ID,
			Name:                  c.Name,
			PillarID:              c.PillarID,
			AllocatedHours:        allocatedHours,
			SpentHours:            spentHours,
			UtilizationPercentage: engine.Utilization(spentHours, allocatedHours),
		})
	}

	s.categoryCache.Set(cacheKey, out)
	writeJSON(w, http.StatusOK, out)
}

// dailyAllocatedMinutes spreads a task's per-period allocation over one
// day of its frequency period.
func dailyAllocatedMinutes(t core.Task) float64 {
	switch t.Frequency {
	case core.Daily:
		return float64(t.AllocatedMinutes)
	case core.Weekly:
		return float64(t.AllocatedMinutes) / 7
	case core.Monthly:
		return float64(t.AllocatedMinutes) / 30
	}
	return 0
}

type taskProgressResponse struct {
	TaskID    int64          `json:"task_id"`
	Name      string         `json:"name"`
	Type      string         `json:"task_type"`
	Frequency string         `json:"follow_up_frequency"`
	Verdict   engine.Verdict `json:"verdict"`
}

// bucketForKind maps calendar period kinds to the matching bucket
// granularity for progress classification.
func bucketForKind(kind engine.PeriodKind) (engine.Bucketing, error) {
	switch kind {
	case engine.PeriodToday:
		return engine.BucketDay, nil
	case engine.PeriodWeekToDate:
		return engine.BucketWeek, nil
	case engine.PeriodMonthToDate:
		return engine.BucketMonth, nil
	case engine.PeriodQuarter:
		return engine.BucketQuarter, nil
	case engine.PeriodYear:
		return engine.BucketYear, nil
	}
	return "", fmt.Errorf("period %q has no calendar bucket for progress classification", kind)
}

func (s *Server) handleTaskProgress(w http.ResponseWriter, r *http.Request) {
	period, kind, err := s.periodFromQuery(r)
	if err != nil {
		writeError(w, statusFromRangeError(err), err.Error())
		return
	}
	bucket, err := bucketForKind(kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.loadAnalyticsData(r, period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Task progress load failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load analytics data")
		return
	}

	today := s.today()
	bucketStart := engine.BucketStart(today, bucket)
	lookup := engine.NewLookup(data.tasks, data.categories, data.pillars)

	out := make([]taskProgressResponse, 0, len(data.tasks))
	for _, taskKind := range []core.TaskType{core.TaskTime, core.TaskCount, core.TaskBoolean} {
		result := engine.Aggregate(data.entries, lookup, engine.Options{
			Bucketing: bucket,
			GroupBy:   engine.GroupByTask,
			Kind:      taskKind,
		})
		for _, t := range data.tasks {
			if !t.Active || t.Type != taskKind {
				continue
			}
			actual := result.Total(t.ID)
			out = append(out, taskProgressResponse{
				TaskID:    t.ID,
				Name:      t.Name,
				Type:      string(t.Type),
				Frequency: string(t.Frequency),
				Verdict:   engine.Classify(t, actual, bucketStart, bucket, today),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })

	writeJSON(w, http.StatusOK, out)
}
