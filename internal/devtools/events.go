package devtools

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lumen-dev/lumen/pkg/runtime"
)

// EventType labels a devtools stream event.
type EventType string

const (
	EventFlush EventType = "flush"
	EventAsset EventType = "asset"
)

// Event is sent to connected devtools clients via WebSocket.
type Event struct {
	Type       EventType `json:"type"`
	Renders    int       `json:"renders,omitempty"`
	Errors     int       `json:"errors,omitempty"`
	DurationMS float64   `json:"durationMs,omitempty"`
	File       string    `json:"file,omitempty"`
}

// EventServer manages WebSocket connections for the devtools stream.
type EventServer struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// NewEventServer creates a new event server.
func NewEventServer() *EventServer {
	return &EventServer{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins in dev
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (s *EventServer) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Keep connection alive until client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

// NotifyFlush streams a flush summary to all clients.
func (s *EventServer) NotifyFlush(summary runtime.FlushSummary) {
	s.broadcast(Event{
		Type:       EventFlush,
		Renders:    summary.Renders,
		Errors:     summary.Errors,
		DurationMS: float64(summary.Duration.Microseconds()) / 1000,
	})
}

// NotifyAsset tells clients an asset changed on disk.
func (s *EventServer) NotifyAsset(file string) {
	s.broadcast(Event{Type: EventAsset, File: file})
}

// broadcast sends an event to all connected clients.
func (s *EventServer) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	s.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			s.mu.Lock()
			delete(s.clients, client)
			s.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *EventServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close closes all client connections.
func (s *EventServer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}
