package domain

import (
	"encoding/json"
	"time"
)

// Session is the durable link between an application user and a remote
// conversation thread. At most one session exists per user; the thread ID is
// immutable once set.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ThreadID  string    `json:"thread_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToolInvocation is a single request, surfaced by a run in the
// requires_action state, for externally computed output. The call ID
// correlates the request with its submitted result.
type ToolInvocation struct {
	CallID    string          `json:"call_id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolOutput pairs a tool invocation with its computed output, keyed by the
// backend-assigned call ID.
type ToolOutput struct {
	CallID string `json:"tool_call_id"`
	Output string `json:"output"`
}

// RunState is a point-in-time view of a remote run. PendingToolCalls is
// populated only while the run status is requires_action.
type RunState struct {
	RunID            string
	ThreadID         string
	Status           RunStatus
	PendingToolCalls []ToolInvocation
}

// ShowTimeEvent is the payload broadcast to connected clients when the
// assistant asks for the current time.
type ShowTimeEvent struct {
	Type EventType `json:"type"`
	Time string    `json:"time"`
}
