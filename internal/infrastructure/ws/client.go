package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Client struct {
	ID      string
	Message chan *Event

	conn *connWrapper
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:      uuid.NewString(),
		Message: make(chan *Event, 16),
		conn:    newConnWrapper(conn),
	}
}

// WritePump drains the client's event channel onto the connection and keeps
// the connection alive with pings. Runs as its own goroutine per client.
func (cl *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case event, ok := <-cl.Message:
			if !ok {
				return
			}
			if err := cl.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			if err := cl.conn.Ping(writeWait); err != nil {
				return
			}
		}
	}
}

// ReadPump discards inbound frames; the feed is one-way. It exists to notice
// the close handshake and unregister the client.
func (cl *Client) ReadPump(hub *Hub) {
	defer func() {
		hub.Unregister() <- cl
	}()

	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
