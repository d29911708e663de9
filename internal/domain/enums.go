// Package domain defines the core domain models for the orchestrator.
package domain

// RunStatus represents the status of a remote assistant run, as reported by
// the assistant backend.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusExpired        RunStatus = "expired"
	RunStatusIncomplete     RunStatus = "incomplete"
)

// Terminal reports whether the backend will never advance the run past this
// status. Every status the backend documents as final counts, not just
// completed/failed. Unknown statuses are non-terminal and left to the poll
// bound.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired, RunStatusIncomplete:
		return true
	}
	return false
}

// EventType represents the type of a notification event pushed to connected
// websocket clients.
type EventType string

const (
	EventTypeShowTime EventType = "show-time"
)
