package pending

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

func (h *Handler) StagePendingHandler(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.Module == "" || len(req.Data) == 0 {
		json.WriteValidationError(w, errors.New("module and data are required"))
		return
	}

	id := h.store.Stage(req.Module, req.RecordType, req.Data, req.CreatedBy)
	json.Write(w, http.StatusCreated, stageResponse{ID: id})
}

func (h *Handler) ListPendingHandler(w http.ResponseWriter, r *http.Request) {
	entries := h.store.Pending(r.URL.Query().Get("module"))
	json.Write(w, http.StatusOK, listPendingResponse{Count: len(entries), Pending: entries})
}

// ConfirmPendingHandler upserts the staged data into the target key and marks
// the entry CONFIRMED. Confirming an already-resolved entry is a conflict.
func (h *Handler) ConfirmPendingHandler(w http.ResponseWriter, r *http.Request) {
	pendingID := chi.URLParam(r, "pendingId")
	if pendingID == "" {
		json.WriteValidationError(w, errors.New("pending id is missing"))
		return
	}

	var req confirmRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	targetKey := domain.StorageKey(req.TargetKey)
	if !domain.IsRegistered(targetKey) {
		json.WriteNotFoundError(w, domain.ErrUnknownKey)
		return
	}
	if !req.Operator.Valid() {
		json.WriteValidationError(w, errors.New("operator id is required"))
		return
	}

	if !h.store.Confirm(pendingID, targetKey, req.Operator) {
		json.WriteConflictError(w, domain.ErrAlreadyResolved)
		return
	}
	json.Write(w, http.StatusOK, resolveResponse{Resolved: true})
}

func (h *Handler) CancelPendingHandler(w http.ResponseWriter, r *http.Request) {
	pendingID := chi.URLParam(r, "pendingId")
	if pendingID == "" {
		json.WriteValidationError(w, errors.New("pending id is missing"))
		return
	}

	if !h.store.Cancel(pendingID) {
		json.WriteConflictError(w, domain.ErrAlreadyResolved)
		return
	}
	json.Write(w, http.StatusOK, resolveResponse{Resolved: true})
}
