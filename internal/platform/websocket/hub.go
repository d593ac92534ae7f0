// Package websocket pushes server-side state changes to connected clients.
// It implements a hub-and-spoke pattern where each connection is keyed to a
// single patient and receives events broadcast for that patient.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
)

// Event represents a real-time notification sent to WebSocket clients.
type Event struct {
	Type      string          `json:"type"`
	PatientID string          `json:"patient_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents a single WebSocket connection bound to one patient.
type Client struct {
	ID        string
	PatientID string
	Send      chan []byte
	conn      Conn
}

// NewClient wraps a connection for the given patient.
func NewClient(patientID string, conn Conn) *Client {
	return &Client{
		ID:        uuid.New().String(),
		PatientID: patientID,
		Send:      make(chan []byte, 256),
		conn:      conn,
	}
}

// Hub is the central connection manager that tracks clients per patient.
// All operations are thread-safe via sync.RWMutex.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // patient ID -> set of clients
	all     map[*Client]struct{}            // all connected clients
}

// NewHub creates a new Hub ready to manage WebSocket clients.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
	}
}

// Register adds a client to the hub under its patient key.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}

	if h.clients[client.PatientID] == nil {
		h.clients[client.PatientID] = make(map[*Client]struct{})
	}
	h.clients[client.PatientID][client] = struct{}{}
}

// Unregister removes a client from the hub and closes its Send channel.
// Calling it for an already-removed client is a no-op.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	if subscribers, ok := h.clients[client.PatientID]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.clients, client.PatientID)
		}
	}

	delete(h.all, client)
	close(client.Send)
}

// Broadcast sends an event to all connections of the event's patient.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("websocket: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	subscribers, ok := h.clients[event.PatientID]
	if !ok {
		return
	}

	for client := range subscribers {
		select {
		case client.Send <- data:
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// PatientClientCount returns the number of connections for one patient.
func (h *Hub) PatientClientCount(patientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[patientID])
}

// Upgrader is the shared HTTP-to-WebSocket upgrader.
var Upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// ServeClient registers the client and runs its read and write pumps until
// the connection drops. onClose runs exactly once during teardown, before the
// client is unregistered.
func (h *Hub) ServeClient(client *Client, onClose func()) {
	h.Register(client)

	go h.writePump(client)
	go h.readPump(client, onClose)
}

// readPump drains inbound messages until the connection errors. Inbound
// payloads are ignored; the gate stream is push-only.
func (h *Hub) readPump(client *Client, onClose func()) {
	defer func() {
		if onClose != nil {
			onClose()
		}
		h.Unregister(client)
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump writes messages from the Send channel to the connection.
func (h *Hub) writePump(client *Client) {
	defer client.conn.Close()

	for message := range client.Send {
		if err := client.conn.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
			break
		}
	}
}

// GorillaConn wraps a gorilla/websocket.Conn to satisfy the Conn interface.
type GorillaConn struct {
	*gorillawebsocket.Conn
}
