// Package ws pushes change notifications to connected admin UIs over
// websockets. The feed is broadcast-only; clients never send data frames.
package ws

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
)

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event

	mu      sync.RWMutex
	clients map[string]*Client

	upgrader websocket.Upgrader
	logger   logging.Logger
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 64),
		clients:    make(map[string]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

func (h *Hub) Register() chan<- *Client   { return h.register }
func (h *Hub) Unregister() chan<- *Client { return h.unregister }

func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return h.upgrader.Upgrade(w, r, nil)
}

// Run owns the client set. It returns when ctx is cancelled, closing every
// client's channel so the write pumps drain and exit.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case cl := <-h.register:
			h.mu.Lock()
			h.clients[cl.ID] = cl
			h.mu.Unlock()

		case cl := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[cl.ID]; ok {
				delete(h.clients, cl.ID)
				close(cl.Message)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			for _, cl := range h.clients {
				select {
				case cl.Message <- event:
				default:
					// Slow client, drop the event; it will catch up on the
					// next one.
				}
			}
			h.mu.RUnlock()

		case <-ctx.Done():
			h.mu.Lock()
			for id, cl := range h.clients {
				delete(h.clients, id)
				close(cl.Message)
			}
			h.mu.Unlock()
			return
		}
	}
}

// DataChanged queues a change event for broadcast. Never blocks the caller;
// under backpressure the event is dropped.
func (h *Hub) DataChanged(key domain.StorageKey, count int) {
	select {
	case h.broadcast <- NewDataChanged(string(key), count):
	default:
		h.logger.Warn(logging.General, logging.Write, "event feed saturated, dropping event", map[logging.ExtraKey]any{
			logging.Key: string(key),
		})
	}
}
