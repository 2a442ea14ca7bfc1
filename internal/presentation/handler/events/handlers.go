package events

import (
	"net/http"

	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
	"github.com/jinxingedu/kindersync/internal/infrastructure/ws"
)

type Handler struct {
	hub    *ws.Hub
	logger logging.Logger
}

func NewHandler(hub *ws.Hub, logger logging.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// SubscribeHandler upgrades the connection and attaches it to the change
// feed. The client receives every subsequent data.changed event until it
// disconnects.
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.hub.Upgrade(w, r)
	if err != nil {
		h.logger.Warn(logging.General, logging.Startup, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	client := ws.NewClient(conn)
	h.hub.Register() <- client

	go client.WritePump()
	go client.ReadPump(h.hub)
}
