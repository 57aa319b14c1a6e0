package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"pillars/internal/amqp"
	"pillars/internal/config"
	applog "pillars/internal/log"
	"pillars/internal/report"
	"pillars/internal/report/google"
	"pillars/internal/storage"
	"pillars/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting pillars-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Spreadsheet export is optional.
	var reportWriter report.Writer
	if cfg.GoogleSpreadsheetID != "" {
		client, err := google.NewClient(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		reportWriter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builder := report.NewBuilder(repo, repo)
	streakWorker := worker.NewStreakWorker(repo, builder, reportWriter, cfg.StreakLookbackDays)

	// Catch up on anything missed while the worker was down.
	if err := streakWorker.RecomputeStreaks(ctx); err != nil {
		logger.Error("Startup streak recompute failed", "error", err)
	}

	go func() {
		err := amqpClient.ConsumeEntryRecorded(ctx, func(msg *amqp.EntryRecordedMessage) error {
			return streakWorker.HandleEntryRecorded(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
			cancel()
		}
	}()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RecomputeSchedule, func() {
		if err := streakWorker.RecomputeStreaks(ctx); err != nil {
			logger.Error("Scheduled streak recompute failed", "error", err)
		}
	}); err != nil {
		logger.Error("Invalid recompute schedule", "error", err, "schedule", cfg.RecomputeSchedule)
		os.Exit(1)
	}
	if _, err := scheduler.AddFunc(cfg.ExportSchedule, func() {
		if err := streakWorker.ExportWeeklyReport(ctx); err != nil {
			logger.Error("Scheduled weekly export failed", "error", err)
		}
	}); err != nil {
		logger.Error("Invalid export schedule", "error", err, "schedule", cfg.ExportSchedule)
		os.Exit(1)
	}
	scheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	cancel()
	logger.Info("Shutting down worker...")

	select {
	case <-scheduler.Stop().Done():
		logger.Info("Worker shutdown complete")
	case <-time.After(10 * time.Second):
		logger.Warn("Shutdown timeout reached")
	}
}
