package store

import (
	"fmt"

	"github.com/jinxingedu/kindersync/internal/domain"
)

// Stage queues a record for human confirmation and returns the queue entry id.
// Nothing reaches a domain array until Confirm.
func (s *RecordStore) Stage(module, recordType string, data domain.Record, createdBy string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []domain.PendingUpload
	s.getTyped(domain.KeyPendingUploads, &pending)

	entry := domain.NewPendingUpload(module, recordType, data, createdBy)
	pending = append(pending, entry)
	s.persist(domain.KeyPendingUploads, pending, len(pending), true)
	return entry.ID
}

// Confirm resolves a PENDING entry: the staged record is upserted into the
// target domain array, the entry is marked CONFIRMED and a ledger entry is
// appended. Returns false with no side effect when the id is unknown or the
// entry already reached a terminal state.
func (s *RecordStore) Confirm(pendingID string, targetKey domain.StorageKey, actor domain.Actor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []domain.PendingUpload
	s.getTyped(domain.KeyPendingUploads, &pending)

	idx := -1
	for i := range pending {
		if pending[i].ID == pendingID {
			idx = i
			break
		}
	}
	if idx < 0 || pending[idx].Status != domain.StatusPending {
		return false
	}

	item := pending[idx]
	records := s.get(targetKey)
	existing := domain.IndexByID(records, item.Data.ID())

	var before domain.Record
	if existing >= 0 {
		before = records[existing]
		records[existing] = item.Data
	} else {
		records = append(records, item.Data)
	}

	if !s.set(targetKey, records, true) {
		return false
	}

	pending[idx].Status = domain.StatusConfirmed
	s.persist(domain.KeyPendingUploads, pending, len(pending), true)

	action := domain.ActionCreate
	verb := "created"
	var beforeData any
	if before != nil {
		action = domain.ActionUpdate
		verb = "updated"
		beforeData = before
	}

	summary := fmt.Sprintf("%s %s %s after confirmation", verb, item.Type, item.Data.DisplayName())
	s.appendLog(actor, action, item.Module, item.Type, item.Data.ID(), item.Data.DisplayName(), summary, beforeData, item.Data)
	return true
}

// Cancel marks a PENDING entry CANCELLED. No domain array changes and no
// ledger entry; same precondition as Confirm.
func (s *RecordStore) Cancel(pendingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []domain.PendingUpload
	s.getTyped(domain.KeyPendingUploads, &pending)

	for i := range pending {
		if pending[i].ID == pendingID {
			if pending[i].Status != domain.StatusPending {
				return false
			}
			pending[i].Status = domain.StatusCancelled
			s.persist(domain.KeyPendingUploads, pending, len(pending), true)
			return true
		}
	}
	return false
}

// Pending lists unresolved entries, optionally filtered by module.
func (s *RecordStore) Pending(module string) []domain.PendingUpload {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []domain.PendingUpload
	s.getTyped(domain.KeyPendingUploads, &pending)

	open := make([]domain.PendingUpload, 0, len(pending))
	for _, item := range pending {
		if item.Status != domain.StatusPending {
			continue
		}
		if module != "" && item.Module != module {
			continue
		}
		open = append(open, item)
	}
	return open
}
