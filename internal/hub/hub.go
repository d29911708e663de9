// Package hub provides connection management and fan-out broadcast for
// WebSocket clients.
package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// sendBufferSize is the per-connection outbound buffer. Connections that
// fall this far behind have events dropped rather than blocking broadcasts.
const sendBufferSize = 256

// Connection represents a single WebSocket connection.
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	mu   sync.Mutex
}

// Hub manages all WebSocket connections and broadcasts events to them.
// Broadcasts are best-effort, at-most-once per currently-connected client:
// no queuing, no replay for late joiners.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
	}
}

// NewConnection wraps a websocket connection. The caller must Register it.
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		Conn: ws,
		Send: make(chan []byte, sendBufferSize),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	h.connections[conn.ID] = conn
	h.mu.Unlock()
	log.Printf("Connection registered: %s", conn.ID)
}

// Unregister removes a connection and closes its send channel.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	if _, ok := h.connections[conn.ID]; ok {
		delete(h.connections, conn.ID)
		close(conn.Send)
	}
	h.mu.Unlock()
	log.Printf("Connection unregistered: %s", conn.ID)
}

// Broadcast sends data to every connected client. It never blocks: clients
// whose buffers are full have this event dropped. Broadcasting with zero
// connected clients is not an error.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, conn := range h.connections {
		select {
		case conn.Send <- data:
		default:
			log.Printf("Connection %s buffer full, dropping event", id)
		}
	}
}

// BroadcastJSON marshals v and broadcasts it to every connected client.
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection.
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline for the connection.
func (c *Connection) SetReadDeadline(t time.Time) error {
	return c.Conn.SetReadDeadline(t)
}

// Close closes the underlying connection.
func (c *Connection) Close() error {
	return c.Conn.Close()
}
