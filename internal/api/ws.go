package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/banshee-data/motor.report/internal/monitoring"
	"github.com/banshee-data/motor.report/internal/motor"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard may be served from another origin on the LAN.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans one record per cycle out to all connected websocket clients. Slow
// clients are disconnected rather than allowed to back up the broadcast.
type Hub struct {
	clients    map[*websocket.Conn]chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]chan []byte),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 16),
	}
}

// Run owns the client set until the context is cancelled. All map access
// happens here.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for conn, send := range h.clients {
				close(send)
				conn.Close()
				delete(h.clients, conn)
			}
			return
		case conn := <-h.register:
			send := make(chan []byte, 32)
			h.clients[conn] = send
			go writePump(conn, send)
			monitoring.Logf("api: websocket client connected (%d active)", len(h.clients))
		case conn := <-h.unregister:
			if send, ok := h.clients[conn]; ok {
				close(send)
				delete(h.clients, conn)
				conn.Close()
				monitoring.Logf("api: websocket client disconnected (%d active)", len(h.clients))
			}
		case msg := <-h.broadcast:
			for conn, send := range h.clients {
				select {
				case send <- msg:
				default:
					close(send)
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// Broadcast queues a record for delivery to all clients. Drops the record if
// the hub itself is saturated; the next cycle supersedes it anyway.
func (h *Hub) Broadcast(rec motor.Record) {
	msg, err := json.Marshal(rec)
	if err != nil {
		monitoring.Logf("api: failed to marshal record for broadcast: %v", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
	}
}

// HandleWebsocket upgrades the connection and registers it with the hub.
func (h *Hub) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		monitoring.Logf("api: websocket upgrade failed: %v", err)
		return
	}
	h.register <- conn

	// Reads are discarded; the socket is push-only. The read loop exists to
	// detect the client closing.
	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func writePump(conn *websocket.Conn, send <-chan []byte) {
	for msg := range send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
