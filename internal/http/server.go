// Package http exposes the analytics and tracking API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pillars/internal/cache"
	"pillars/internal/core"
	"pillars/internal/storage"
)

// Store is everything the handlers read from and write to.
type Store interface {
	storage.TaxonomyReader
	storage.EntryReader
	storage.StatusStore
	storage.StreakStore
}

// EntryRecorder saves a new time entry and triggers downstream
// processing.
type EntryRecorder interface {
	RecordEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error)
}

type Server struct {
	http.Server

	store    Store
	recorder EntryRecorder

	rateLimiter *rateLimiter

	// Analytics responses keyed by resolved date range.
	pillarCache   *cache.LRUCache[[]core.PillarUsage]
	categoryCache *cache.LRUCache[[]core.CategoryUsage]
	cacheManager  *cache.Manager

	// today is swapped in tests to pin the reference date.
	today func() core.Date

	shutdownOnce sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run
// server.
func NewServer(addr string, store Store, recorder EntryRecorder, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:         store,
		recorder:      recorder,
		rateLimiter:   newRateLimiter(),
		pillarCache:   cache.NewLRUCache[[]core.PillarUsage](100, cacheTTL),
		categoryCache: cache.NewLRUCache[[]core.CategoryUsage](100, cacheTTL),
		cacheManager:  cache.NewManager(),
		today: func() core.Date {
			now := time.Now()
			return core.NewDate(now.Year(), int(now.Month()), now.Day())
		},
	}

	s.cacheManager.Register(s.pillarCache)
	s.cacheManager.Register(s.categoryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /tasks", s.withMiddleware(s.handleListTasks))
	mux.HandleFunc("GET /pillars", s.withMiddleware(s.handleListPillars))
	mux.HandleFunc("GET /categories", s.withMiddleware(s.handleListCategories))

	mux.HandleFunc("GET /analytics/pillar-distribution", s.withMiddleware(s.handlePillarDistribution))
	mux.HandleFunc("GET /analytics/category-breakdown", s.withMiddleware(s.handleCategoryBreakdown))
	mux.HandleFunc("GET /analytics/task-progress", s.withMiddleware(s.handleTaskProgress))

	mux.HandleFunc("GET /daily-time", s.withMiddleware(s.handleDailyTime))
	mux.HandleFunc("GET /daily-time/entries/{date}", s.withMiddleware(s.handleListDailyEntries))
	mux.HandleFunc("POST /daily-time/entries", s.withMiddleware(s.handleCreateEntry))

	mux.HandleFunc("GET /weekly-time/status", s.withMiddleware(s.handleGetStatuses(core.ScopeWeekly)))
	mux.HandleFunc("PUT /weekly-time/status", s.withMiddleware(s.handlePutStatus(core.ScopeWeekly)))
	mux.HandleFunc("GET /monthly-time/status", s.withMiddleware(s.handleGetStatuses(core.ScopeMonthly)))
	mux.HandleFunc("PUT /monthly-time/status", s.withMiddleware(s.handlePutStatus(core.ScopeMonthly)))
	mux.HandleFunc("GET /yearly-time/status", s.withMiddleware(s.handleGetStatuses(core.ScopeYearly)))
	mux.HandleFunc("PUT /yearly-time/status", s.withMiddleware(s.handlePutStatus(core.ScopeYearly)))

	mux.HandleFunc("GET /streaks/current", s.withMiddleware(s.handleCurrentStreak))
	mux.HandleFunc("GET /streaks/badges", s.withMiddleware(s.handleStreakBadges))

	return s
}

// withMiddleware adds security headers, rate limiting and request
// logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP)

		// Writes are rate limited per client.
		if (r.Method == http.MethodPost || r.Method == http.MethodPut) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateAnalytics drops cached analytics. Entries can land in any
// cached range, so everything goes.
func (s *Server) invalidateAnalytics() {
	s.pillarCache.Clear()
	s.categoryCache.Clear()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
