package logs

import (
	"net/http"

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

// ListLogsHandler returns ledger entries newest first, optionally narrowed by
// module, user, action and an inclusive date range (YYYY-MM-DD).
func (h *Handler) ListLogsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.LogFilter{
		Module:    q.Get("module"),
		UserID:    q.Get("userId"),
		Action:    domain.Action(q.Get("action")),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}

	entries := h.store.QueryLogs(filter)
	json.Write(w, http.StatusOK, listLogsResponse{Count: len(entries), Logs: entries})
}
