package hub

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func newTestConnection() *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		Send: make(chan []byte, sendBufferSize),
	}
}

func TestBroadcastWithNoConnections(t *testing.T) {
	h := NewHub()
	// Must not panic or block.
	h.Broadcast([]byte(`{"type":"show-time"}`))
	if h.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", h.ConnectionCount())
	}
}

func TestBroadcastDeliversToAll(t *testing.T) {
	h := NewHub()
	c1 := newTestConnection()
	c2 := newTestConnection()
	h.Register(c1)
	h.Register(c2)

	h.Broadcast([]byte("event"))

	for _, c := range []*Connection{c1, c2} {
		select {
		case data := <-c.Send:
			if string(data) != "event" {
				t.Fatalf("unexpected payload: %s", data)
			}
		default:
			t.Fatalf("connection %s received nothing", c.ID)
		}
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	slow := &Connection{ID: "slow", Send: make(chan []byte, 1)}
	h.Register(slow)

	h.Broadcast([]byte("first"))
	// Buffer is full now; this one must be dropped without blocking.
	h.Broadcast([]byte("second"))

	if got := <-slow.Send; string(got) != "first" {
		t.Fatalf("unexpected payload: %s", got)
	}
	select {
	case got := <-slow.Send:
		t.Fatalf("expected dropped event, got %s", got)
	default:
	}
}

func TestBroadcastJSON(t *testing.T) {
	h := NewHub()
	c := newTestConnection()
	h.Register(c)

	if err := h.BroadcastJSON(map[string]string{"type": "show-time", "time": "12:30:00"}); err != nil {
		t.Fatalf("BroadcastJSON failed: %v", err)
	}

	var event map[string]string
	if err := json.Unmarshal(<-c.Send, &event); err != nil {
		t.Fatalf("payload did not decode: %v", err)
	}
	if event["type"] != "show-time" {
		t.Fatalf("unexpected event: %v", event)
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	c := newTestConnection()
	h.Register(c)
	if h.ConnectionCount() != 1 {
		t.Fatalf("expected 1 connection, got %d", h.ConnectionCount())
	}

	h.Unregister(c)
	if h.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", h.ConnectionCount())
	}
	if _, open := <-c.Send; open {
		t.Fatal("expected send channel to be closed")
	}

	// Second unregister is a no-op.
	h.Unregister(c)
}
