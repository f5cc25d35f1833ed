package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Hub pushes live detection updates to connected WebSocket clients. The
// pipeline publishes one message per processed frame.
type Hub struct {
	log     logrus.FieldLogger
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		log:     log,
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the client
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a JSON message to every connected client. Clients whose
// writes fail are dropped.
func (h *Hub) Broadcast(v any) {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return
	}
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	var stale []*websocket.Conn
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := conn.WriteJSON(v); err != nil {
			stale = append(stale, conn)
		}
	}

	if len(stale) > 0 {
		h.mu.Lock()
		for _, conn := range stale {
			delete(h.clients, conn)
			conn.Close()
		}
		h.mu.Unlock()
	}
}
