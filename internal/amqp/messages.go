package amqp

import (
	"encoding/json"
	"time"
)

// EntryRecordedMessage notifies the worker that a time entry was saved.
// It carries only identifiers; the worker reloads whatever it needs from
// the database.
type EntryRecordedMessage struct {
	EntryID   int64     `json:"entry_id"`
	TaskID    int64     `json:"task_id"`
	EntryDate string    `json:"entry_date"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryRecordedMessage(entryID, taskID int64, entryDate string) *EntryRecordedMessage {
	return &EntryRecordedMessage{
		EntryID:   entryID,
		TaskID:    taskID,
		EntryDate: entryDate,
		Timestamp: time.Now(),
	}
}

func (m *EntryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntryRecordedMessageFromJSON(data []byte) (*EntryRecordedMessage, error) {
	var msg EntryRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
