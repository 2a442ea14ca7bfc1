package store

import (
	"fmt"

	"github.com/jinxingedu/kindersync/internal/domain"
)

// SaveWithLog upserts (or deletes) a single record and, on success, appends
// exactly one ledger entry classified by what actually happened: CREATE when
// the id was absent, UPDATE when it pre-existed, DELETE when isDelete is set.
// Deleting an absent id is a no-op on the array but still logs a DELETE with a
// nil before-state, matching the audit trail the admin UI expects.
func (s *RecordStore) SaveWithLog(key domain.StorageKey, record domain.Record, module, recordType string, actor domain.Actor, isDelete bool) bool {
	if !record.Valid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.get(key)
	idx := domain.IndexByID(records, record.ID())

	var before domain.Record
	if idx >= 0 {
		before = records[idx]
	}

	switch {
	case isDelete:
		if idx >= 0 {
			records = append(records[:idx], records[idx+1:]...)
		}
	case idx >= 0:
		records[idx] = record
	default:
		records = append(records, record)
	}

	if !s.set(key, records, true) {
		return false
	}

	action := domain.ActionUpdate
	verb := "updated"
	switch {
	case isDelete:
		action = domain.ActionDelete
		verb = "deleted"
	case before == nil:
		action = domain.ActionCreate
		verb = "created"
	}

	var after any
	if !isDelete {
		after = record
	}
	var beforeData any
	if before != nil {
		beforeData = before
	}

	summary := fmt.Sprintf("%s %s %s", verb, recordType, record.DisplayName())
	s.appendLog(actor, action, module, recordType, record.ID(), record.DisplayName(), summary, beforeData, after)
	return true
}

// BatchSaveWithLog replaces the whole domain array in one write and logs a
// single UPDATE entry with a count. Item-level before/after is deliberately
// not captured: batch is a bulk replace, not N upserts.
func (s *RecordStore) BatchSaveWithLog(key domain.StorageKey, records []domain.Record, module, recordType string, actor domain.Actor, summary string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set(key, records, true) {
		return false
	}

	s.appendLog(actor, domain.ActionUpdate, module, recordType, "batch", "batch "+recordType, summary, nil, map[string]any{"count": len(records)})
	return true
}
