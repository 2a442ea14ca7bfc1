package syncops

import (
	"net/http"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/json"
	"github.com/jinxingedu/kindersync/internal/mirror"
	"github.com/jinxingedu/kindersync/internal/persistence/store"
	"github.com/jinxingedu/kindersync/internal/syncer"
)

// Handler exposes the operator-facing sync surface: replica status, a
// reachability probe, and the manual push and reconcile triggers.
type Handler struct {
	store       *store.RecordStore
	mirror      *mirror.Client
	coordinator *syncer.Coordinator
}

func NewHandler(store *store.RecordStore, mirror *mirror.Client, coordinator *syncer.Coordinator) *Handler {
	return &Handler{
		store:       store,
		mirror:      mirror,
		coordinator: coordinator,
	}
}

func (h *Handler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	json.Write(w, http.StatusOK, statusResponse{
		Mirror:       h.mirror.Status(),
		LastSyncTime: h.store.LastSyncTime(),
		Keys:         h.store.Stats(),
	})
}

func (h *Handler) GetMirrorHealthHandler(w http.ResponseWriter, r *http.Request) {
	json.Write(w, http.StatusOK, h.mirror.HealthCheck(r.Context()))
}

func (h *Handler) UploadAllHandler(w http.ResponseWriter, r *http.Request) {
	results := h.coordinator.UploadAll(r.Context())
	json.Write(w, http.StatusOK, uploadAllResponse{Results: results})
}

func (h *Handler) ReconcileHandler(w http.ResponseWriter, r *http.Request) {
	results := h.coordinator.Reconcile(r.Context(), domain.RegisteredKeys())
	json.Write(w, http.StatusOK, reconcileResponse{Results: results})
}

// ExportHandler streams a JSON snapshot of every registered key, for offline
// backup from the admin UI.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.ExportAll()
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="kindersync-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	json.Write(w, http.StatusOK, statsResponse{Keys: h.store.Stats()})
}
