// Package store implements the local record store: JSON domain arrays keyed by
// the storage-key registry, an operation-log ledger, composite save-with-log
// operations and the confirmation-gated pending queue. Every successful write
// schedules a cloud mirror upload; the write itself never waits on the network.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
	"github.com/jinxingedu/kindersync/internal/infrastructure/metrics"
	"github.com/jinxingedu/kindersync/internal/persistence/kv"
)

// UploadScheduler receives a debounced upload request after every successful
// write. The record store never calls the mirror directly.
type UploadScheduler interface {
	Schedule(key domain.StorageKey)
}

// Notifier is told about every persisted change so connected admin UIs can
// refresh. Failures to notify must not affect the write.
type Notifier interface {
	DataChanged(key domain.StorageKey, count int)
}

type RecordStore struct {
	kv     kv.Store
	logger logging.Logger

	mu        sync.Mutex
	scheduler UploadScheduler
	notifier  Notifier
}

func New(store kv.Store, logger logging.Logger) *RecordStore {
	return &RecordStore{kv: store, logger: logger}
}

// SetScheduler attaches the sync coordinator. Done after construction because
// the coordinator reads back through this store.
func (s *RecordStore) SetScheduler(scheduler UploadScheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler = scheduler
}

func (s *RecordStore) SetNotifier(notifier Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = notifier
}

// Get returns the persisted array for key. Absent or malformed values come
// back as an empty slice; records without a string id are quarantined so they
// cannot poison id-keyed merges downstream.
func (s *RecordStore) Get(key domain.StorageKey) []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(key)
}

func (s *RecordStore) get(key domain.StorageKey) []domain.Record {
	raw, ok := s.kv.Get(string(key))
	if !ok {
		return []domain.Record{}
	}

	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn(logging.Storage, logging.Read, "malformed array value, treating as empty", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
		return []domain.Record{}
	}

	valid := records[:0]
	dropped := 0
	for _, rec := range records {
		if rec.Valid() {
			valid = append(valid, rec)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		metrics.QuarantinedRecords.WithLabelValues(string(key)).Add(float64(dropped))
		s.logger.Warn(logging.Storage, logging.Quarantine, "dropped records without ids", map[logging.ExtraKey]any{
			logging.Key:   string(key),
			logging.Count: dropped,
		})
	}
	return valid
}

// Set replaces the full array for key. Returns false on a persistence failure
// without raising; on success it schedules a mirror upload and notifies
// listeners, neither of which can fail the write.
func (s *RecordStore) Set(key domain.StorageKey, records []domain.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(key, records, true)
}

// Replace persists like Set but does not schedule an upload. Reconciliation
// uses it so the merged write-back does not immediately re-trigger the
// debounced push it is part of.
func (s *RecordStore) Replace(key domain.StorageKey, records []domain.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(key, records, false)
}

func (s *RecordStore) set(key domain.StorageKey, records []domain.Record, schedule bool) bool {
	if records == nil {
		records = []domain.Record{}
	}
	return s.persist(key, records, len(records), schedule)
}

// persist serializes v and writes it under key. count is what listeners get
// told; typed callers (ledger, pending queue) pass their own slice lengths.
func (s *RecordStore) persist(key domain.StorageKey, v any, count int, schedule bool) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		metrics.StoreWriteFailures.WithLabelValues(string(key)).Inc()
		s.logger.Error(logging.Storage, logging.Write, "failed to serialize array", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
		return false
	}

	if err := s.kv.Set(string(key), raw); err != nil {
		metrics.StoreWriteFailures.WithLabelValues(string(key)).Inc()
		s.logger.Error(logging.Storage, logging.Write, "failed to persist array", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
		return false
	}

	metrics.StoreWrites.WithLabelValues(string(key)).Inc()

	if schedule && s.scheduler != nil {
		s.scheduler.Schedule(key)
	}
	if s.notifier != nil {
		s.notifier.DataChanged(key, count)
	}
	return true
}

// getTyped unmarshals the raw array under key into dest, tolerating absent or
// malformed values (dest is left empty).
func (s *RecordStore) getTyped(key domain.StorageKey, dest any) {
	raw, ok := s.kv.Get(string(key))
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn(logging.Storage, logging.Read, "malformed typed value, treating as empty", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
	}
}

// MarkSynced records the wall-clock time of the last whole-store sync pass.
// The bookkeeping key is outside the registry and never mirrors.
func (s *RecordStore) MarkSynced() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, _ := json.Marshal(time.Now().UTC().Format(time.RFC3339))
	_ = s.kv.Set(string(domain.KeyLastSyncTime), raw)
}

// LastSyncTime returns the recorded sync timestamp, or "" when never synced.
func (s *RecordStore) LastSyncTime() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.kv.Get(string(domain.KeyLastSyncTime))
	if !ok {
		return ""
	}
	var ts string
	if err := json.Unmarshal(raw, &ts); err != nil {
		return ""
	}
	return ts
}
