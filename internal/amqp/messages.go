package amqp

import (
	"encoding/json"
	"time"
)

// BookingSyncMessage asks the ledger worker to re-sync one booking. It only
// carries the ID and version; the worker fetches the current row from the
// database, so a stale message after a quick edit still syncs the latest
// state.
type BookingSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Deleted   bool      `json:"deleted"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBookingSyncMessage creates a sync message for a created or edited
// booking.
func NewBookingSyncMessage(id, version int64) *BookingSyncMessage {
	return &BookingSyncMessage{ID: id, Version: version, Timestamp: time.Now()}
}

// NewBookingDeleteMessage creates a sync message for a deleted booking.
func NewBookingDeleteMessage(id int64) *BookingSyncMessage {
	return &BookingSyncMessage{ID: id, Deleted: true, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes.
func (m *BookingSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BookingSyncMessageFromJSON creates a message from JSON bytes.
func BookingSyncMessageFromJSON(data []byte) (*BookingSyncMessage, error) {
	var msg BookingSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
