package records

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/json"
	"github.com/jinxingedu/kindersync/internal/persistence/store"
)

type Handler struct {
	store *store.RecordStore
}

func NewHandler(store *store.RecordStore) *Handler {
	return &Handler{store: store}
}

// storageKey extracts and validates the {key} URL parameter. Unregistered
// keys are rejected before any store access.
func storageKey(w http.ResponseWriter, r *http.Request) (domain.StorageKey, bool) {
	key := domain.StorageKey(chi.URLParam(r, "key"))
	if key == "" {
		json.WriteValidationError(w, errors.New("storage key is missing"))
		return "", false
	}
	if !domain.IsRegistered(key) {
		json.WriteNotFoundError(w, domain.ErrUnknownKey)
		return "", false
	}
	return key, true
}

func (h *Handler) ListRecordsHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(w, r)
	if !ok {
		return
	}

	recs := h.store.Get(key)
	json.Write(w, http.StatusOK, listRecordsResponse{
		Key:     string(key),
		Count:   len(recs),
		Records: recs,
	})
}

// ReplaceRecordsHandler swaps the whole array for a key. Writes go through the
// normal path, so a debounced upload is scheduled; no ledger entry is made.
func (h *Handler) ReplaceRecordsHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(w, r)
	if !ok {
		return
	}

	var recs []domain.Record
	if err := json.Read(r, &recs); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if recs == nil {
		recs = []domain.Record{}
	}

	if !h.store.Set(key, recs) {
		json.WriteInternalError(w, errors.New("failed to persist records"))
		return
	}
	json.Write(w, http.StatusOK, saveResponse{Saved: true, Count: len(recs)})
}

func (h *Handler) SaveRecordHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(w, r)
	if !ok {
		return
	}

	var req saveRecordRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if !req.Record.Valid() {
		json.WriteValidationError(w, errors.New("record must carry a non-empty string id"))
		return
	}
	if !req.Operator.Valid() {
		json.WriteValidationError(w, errors.New("operator id is required"))
		return
	}

	if !h.store.SaveWithLog(key, req.Record, req.Module, req.RecordType, req.Operator, false) {
		json.WriteInternalError(w, errors.New("failed to save record"))
		return
	}
	json.Write(w, http.StatusOK, saveResponse{Saved: true, Count: len(h.store.Get(key))})
}

// DeleteRecordHandler removes one record by id and writes a DELETE ledger
// entry. Deleting an id that is not present is a successful no-op.
func (h *Handler) DeleteRecordHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		json.WriteValidationError(w, errors.New("record id is missing"))
		return
	}

	var req deleteRecordRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if !req.Operator.Valid() {
		json.WriteValidationError(w, errors.New("operator id is required"))
		return
	}

	if !h.store.SaveWithLog(key, domain.Record{"id": id}, req.Module, req.RecordType, req.Operator, true) {
		json.WriteInternalError(w, errors.New("failed to delete record"))
		return
	}
	json.Write(w, http.StatusOK, saveResponse{Saved: true, Count: len(h.store.Get(key))})
}

// BatchSaveRecordsHandler replaces the array in one write with a single
// ledger entry, for bulk imports.
func (h *Handler) BatchSaveRecordsHandler(w http.ResponseWriter, r *http.Request) {
	key, ok := storageKey(w, r)
	if !ok {
		return
	}

	var req batchSaveRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if !req.Operator.Valid() {
		json.WriteValidationError(w, errors.New("operator id is required"))
		return
	}

	if !h.store.BatchSaveWithLog(key, req.Records, req.Module, req.RecordType, req.Operator, req.Summary) {
		json.WriteInternalError(w, errors.New("failed to save records"))
		return
	}
	json.Write(w, http.StatusOK, saveResponse{Saved: true, Count: len(req.Records)})
}
