package services

import (
	"context"
	"errors"
	"testing"

	"pillars/internal/core"
)

type fakeEntryWriter struct {
	saved []core.TimeEntry
	err   error
}

func (f *fakeEntryWriter) CreateEntry(_ context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	if f.err != nil {
		return core.TimeEntry{}, f.err
	}
	e.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, e)
	return e, nil
}

func TestEntryService_RecordEntry(t *testing.T) {
	writer := &fakeEntryWriter{}
	svc := NewEntryService(writer, nil) // no broker: publish is skipped

	entry := core.TimeEntry{
		TaskID:  7,
		Date:    core.NewDate(2024, 3, 13),
		Minutes: 45,
	}

	saved, err := svc.RecordEntry(context.Background(), entry)
	if err != nil {
		t.Fatalf("RecordEntry() error = %v", err)
	}
	if saved.ID == 0 {
		t.Error("RecordEntry() did not assign an ID")
	}
	if len(writer.saved) != 1 {
		t.Fatalf("writer saved %d entries, want 1", len(writer.saved))
	}
}

func TestEntryService_RecordEntry_Invalid(t *testing.T) {
	writer := &fakeEntryWriter{}
	svc := NewEntryService(writer, nil)

	_, err := svc.RecordEntry(context.Background(), core.TimeEntry{
		TaskID:  7,
		Date:    core.NewDate(2024, 3, 13),
		Minutes: -5,
	})
	if !errors.Is(err, core.ErrInvalidMinutes) {
		t.Errorf("RecordEntry() error = %v, want ErrInvalidMinutes", err)
	}
	if len(writer.saved) != 0 {
		t.Error("invalid entry reached storage")
	}
}

func TestEntryService_RecordEntry_StorageError(t *testing.T) {
	writer := &fakeEntryWriter{err: errors.New("disk full")}
	svc := NewEntryService(writer, nil)

	_, err := svc.RecordEntry(context.Background(), core.TimeEntry{
		TaskID:  7,
		Date:    core.NewDate(2024, 3, 13),
		Minutes: 30,
	})
	if err == nil {
		t.Fatal("RecordEntry() = nil, want storage error")
	}
}
