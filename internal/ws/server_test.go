package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidtutor/orchestrator/internal/config"
	"github.com/kidtutor/orchestrator/internal/domain"
	"github.com/kidtutor/orchestrator/internal/hub"
)

func newTestConfig() *config.Config {
	return &config.Config{
		PingInterval:   30 * time.Second,
		WriteTimeout:   5 * time.Second,
		ReadTimeout:    30 * time.Second,
		MaxMessageSize: 65536,
	}
}

func dialTestServer(t *testing.T) (*hub.Hub, *websocket.Conn) {
	t.Helper()

	h := hub.NewHub()
	server := NewServer(newTestConfig(), h)

	e := echo.New()
	e.GET("/ws", server.HandleWebSocket)

	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return h, conn
}

func waitForConnections(t *testing.T, h *hub.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ConnectionCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d connections, got %d", want, h.ConnectionCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketReceivesBroadcast(t *testing.T) {
	h, conn := dialTestServer(t)
	waitForConnections(t, h, 1)

	err := h.BroadcastJSON(domain.ShowTimeEvent{
		Type: domain.EventTypeShowTime,
		Time: "12:30:00",
	})
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event domain.ShowTimeEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, domain.EventTypeShowTime, event.Type)
	assert.Equal(t, "12:30:00", event.Time)
}

func TestWebSocketDisconnectUnregisters(t *testing.T) {
	h, conn := dialTestServer(t)
	waitForConnections(t, h, 1)

	conn.Close()
	waitForConnections(t, h, 0)
}
