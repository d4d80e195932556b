package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/track"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FramesHandler accepts joint frames from a tracking device over
// WebSocket: each text message is one JSON-encoded track.Report, pushed
// straight into the frame loop's source.
type FramesHandler struct {
	ingest *track.PushSource
}

// NewFramesHandler creates a FramesHandler feeding the given source.
func NewFramesHandler(ingest *track.PushSource) *FramesHandler {
	return &FramesHandler{ingest: ingest}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var report track.Report
		if err := json.Unmarshal(data, &report); err != nil {
			log.Printf("server: frame unmarshal error: %v", err)
			continue
		}
		h.ingest.Push(report)
	}
}

// EventHub broadcasts interaction events to all connected WebSocket
// clients.
type EventHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests and keeps the connection
// registered until the client goes away.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

// Publish sends one event to every connected client. kind names the event
// type; payload is marshaled as-is.
func (h *EventHub) Publish(kind string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(map[string]any{
		"type":      kind,
		"event":     payload,
		"timestamp": time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("server: event marshal error: %v", err)
		return
	}

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
