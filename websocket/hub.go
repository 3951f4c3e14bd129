package websocket

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed to connected dashboards.
const (
	EventTypeConnected         = "connected"
	EventTypeCommitmentCreated = "commitment_created"
)

// Event is a message sent over WebSocket to dashboard viewers.
type Event struct {
	Type         string      `json:"type"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
	EmployeeCode string      `json:"employeeCode,omitempty"`
}

// Client represents a connected dashboard viewer.
type Client struct {
	EmployeeCode string
	Conn         *websocket.Conn
}

// Hub maintains the set of active clients and broadcasts events. A new
// commitment is broadcast to everyone; dashboards re-render on receipt
// so team leads and management see submissions without polling.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 16),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				if err := client.Conn.WriteJSON(event); err != nil {
					log.Printf("websocket write to %s failed: %v", client.EmployeeCode, err)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues an event for every connected client. Non-blocking;
// if the hub is backed up the event is dropped, since a dashboard that
// misses one refresh picks the row up on its next render anyway.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("websocket broadcast queue full, dropping %s event", event.Type)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
