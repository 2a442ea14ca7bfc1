package ws

import "time"

const DataChangedEvent = "data.changed"

// Event is the frame pushed to every connected admin UI when a storage key
// changes. The UI re-reads the key over HTTP; the event carries no payload.
type Event struct {
	Type      string `json:"type"`
	Key       string `json:"key"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

func NewDataChanged(key string, count int) *Event {
	return &Event{
		Type:      DataChangedEvent,
		Key:       key,
		Count:     count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
