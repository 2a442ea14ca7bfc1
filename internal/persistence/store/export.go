package store

import (
	"encoding/json"

	"github.com/jinxingedu/kindersync/internal/domain"
)

// ExportAll renders every registered domain array into one JSON document for
// manual backup download. Not part of the sync protocol.
func (s *RecordStore) ExportAll() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dump := make(map[string][]domain.Record, len(domain.RegisteredKeys()))
	for _, key := range domain.RegisteredKeys() {
		dump[string(key)] = s.get(key)
	}
	return json.MarshalIndent(dump, "", "  ")
}

// KeyStats describes one domain array for the operator status view.
type KeyStats struct {
	Key       string `json:"key"`
	Count     int    `json:"count"`
	SizeBytes int    `json:"sizeBytes"`
}

// Stats reports per-key record counts and serialized sizes.
func (s *RecordStore) Stats() []KeyStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make([]KeyStats, 0, len(domain.RegisteredKeys()))
	for _, key := range domain.RegisteredKeys() {
		raw, ok := s.kv.Get(string(key))
		if !ok {
			stats = append(stats, KeyStats{Key: string(key)})
			continue
		}
		var records []json.RawMessage
		_ = json.Unmarshal(raw, &records)
		stats = append(stats, KeyStats{
			Key:       string(key),
			Count:     len(records),
			SizeBytes: len(raw),
		})
	}
	return stats
}
