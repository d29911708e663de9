// Package ws provides WebSocket upgrade handling for notification clients.
package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/kidtutor/orchestrator/internal/config"
	"github.com/kidtutor/orchestrator/internal/hub"
)

// Server handles WebSocket connections. Clients receive broadcast
// notification events; inbound messages are logged and otherwise ignored.
type Server struct {
	cfg      *config.Config
	hub      *hub.Hub
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, h *hub.Hub) *Server {
	return &Server{
		cfg: cfg,
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket handles WebSocket upgrade and connection lifecycle.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	conn := s.hub.NewConnection(ws)
	s.hub.Register(conn)

	ws.SetReadLimit(s.cfg.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)

	return nil
}

// readPump drains messages from the connection until it closes.
func (s *Server) readPump(conn *hub.Connection) {
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		log.Printf("WebSocket message received: %s", message)
	}
}

// writePump forwards broadcast data to the connection and keeps it alive
// with pings.
func (s *Server) writePump(conn *hub.Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				// Hub closed the channel
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
