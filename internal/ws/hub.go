package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

const (
	EventSubmissionScored      = "submission_scored"
	EventTargetUpdated         = "target_updated"
	EventContestReset          = "contest_reset"
	EventParticipantRegistered = "participant_registered"
)

type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans contest events out to every connected display.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

func (h *Hub) AddConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[conn] = true
	log.Printf("ws: client connected (total: %d)", len(h.conns))
}

func (h *Hub) RemoveConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[conn] {
		delete(h.conns, conn)
		conn.Close()
		log.Printf("ws: client disconnected (total: %d)", len(h.conns))
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast writes message to every client. Clients that fail the write are
// dropped.
func (h *Hub) Broadcast(message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
