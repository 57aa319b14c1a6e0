package services

import (
	"context"
	"fmt"
	"log/slog"

	"pillars/internal/amqp"
	"pillars/internal/core"
	"pillars/internal/storage"
)

// EntryService orchestrates time entry writes across SQLite and AMQP.
type EntryService struct {
	storage    storage.EntryWriter
	amqpClient *amqp.Client
}

func NewEntryService(storage storage.EntryWriter, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// RecordEntry validates and saves an entry, then publishes a worker
// notification. The publish is best-effort: the entry is already
// durable in SQLite, so a broker outage never fails the request.
func (s *EntryService) RecordEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.TimeEntry{}, fmt.Errorf("validate entry: %w", err)
	}

	saved, err := s.storage.CreateEntry(ctx, e)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("save entry: %w", err)
	}

	if err := s.publishEntryRecorded(ctx, saved); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry recorded message",
			"entry_id", saved.ID, "error", err)
	}

	return saved, nil
}

func (s *EntryService) publishEntryRecorded(ctx context.Context, e core.TimeEntry) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping entry recorded message")
		return nil
	}

	return s.amqpClient.PublishEntryRecorded(ctx, e.ID, e.TaskID, e.Date.String())
}
