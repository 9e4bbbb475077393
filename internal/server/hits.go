package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handstrike/internal/impact"
)

// HitsHandler broadcasts hit notifications to connected WebSocket clients.
// Delivery is fire-and-forget: slow or broken clients miss hits, they are
// never buffered per client.
type HitsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewHitsHandler creates a HitsHandler with no connected clients.
func NewHitsHandler() *HitsHandler {
	return &HitsHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *HitsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
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
			break
		}
	}
}

// Publish sends a hit notification to all connected clients. Called from
// the coordinator tick; write errors are left to the read loop to clean up.
func (h *HitsHandler) Publish(hit impact.Hit) {
	msg, err := json.Marshal(hit)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
