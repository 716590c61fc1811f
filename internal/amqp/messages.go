package amqp

import (
	"encoding/json"
	"time"
)

// DatasetRefreshMessage announces that a source file was (re)ingested.
// Consumers only need to flush their caches; the rows live in SQLite.
type DatasetRefreshMessage struct {
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Skipped   int       `json:"skipped"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDatasetRefreshMessage creates a refresh message for one ingested source.
func NewDatasetRefreshMessage(source string, rows, skipped int) *DatasetRefreshMessage {
	return &DatasetRefreshMessage{
		Source:    source,
		Rows:      rows,
		Skipped:   skipped,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *DatasetRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetRefreshMessageFromJSON parses a message from JSON bytes.
func DatasetRefreshMessageFromJSON(data []byte) (*DatasetRefreshMessage, error) {
	var msg DatasetRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
