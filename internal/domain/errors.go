package domain

import "fmt"

// NoResponseText is returned when a completed run produced no assistant
// message.
const NoResponseText = "No response"

// ValidationError reports a missing required input, detected before any
// network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// UpstreamError is any non-success outcome from the remote assistant backend,
// carrying the upstream-provided message when available. StatusCode is zero
// for transport-level failures.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("assistant backend error [%d]: %s", e.StatusCode, e.Message)
	}
	return "assistant backend error: " + e.Message
}

// ConflictError reports an attempt to create a second session for a user.
type ConflictError struct {
	UserID string
}

func (e *ConflictError) Error() string {
	return "session already exists for user " + e.UserID
}

// TimeoutError reports a run that did not reach a terminal status within the
// configured poll bound.
type TimeoutError struct {
	RunID    string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run %s did not reach a terminal status after %d polls", e.RunID, e.Attempts)
}
