package service

import (
	"context"
	"fmt"

	"github.com/kidtutor/orchestrator/internal/adapter/assistant"
	"github.com/kidtutor/orchestrator/internal/domain"
)

// TutorAssistant is the assistant definition executed for every session.
func TutorAssistant() *assistant.AssistantRequest {
	return &assistant.AssistantRequest{
		Name:         "KidTutor",
		Instructions: "You are a kind and helpful tutor for kids. Use simple language and explain things clearly.",
		Model:        "gpt-4o",
		Tools: []assistant.ToolDefinition{
			{Type: "code_interpreter"},
			{Type: "file_search"},
			{
				Type: "function",
				Function: &assistant.FunctionDefinition{
					Name:        domain.ToolGetCourseFee,
					Description: "Returns course fee details.",
					Parameters: map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"courseId": map[string]interface{}{
								"type":        "string",
								"description": "ID of the course",
							},
						},
					},
				},
			},
			{
				Type: "function",
				Function: &assistant.FunctionDefinition{
					Name:        domain.ToolShowTime,
					Description: "Show the current time.",
					Parameters: map[string]interface{}{
						"type":       "object",
						"properties": map[string]interface{}{},
					},
				},
			},
		},
	}
}

// InitAssistant registers the tutor assistant definition on the backend and
// returns its ID.
func (s *Service) InitAssistant(ctx context.Context) (string, error) {
	assistantID, err := s.backend.CreateAssistant(ctx, TutorAssistant())
	if err != nil {
		return "", fmt.Errorf("failed to create assistant: %w", err)
	}
	return assistantID, nil
}

// StartSession creates a remote thread for the user and stores the mapping.
// Returns a *domain.ConflictError if the user already has a session.
func (s *Service) StartSession(ctx context.Context, userID string) (*domain.Session, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Field: "user_id"}
	}

	existing, err := s.store.GetSessionByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{UserID: userID}
	}

	threadID, err := s.backend.CreateThread(ctx, []assistant.ThreadMessage{
		{Role: "assistant", Content: "You are helping a student. Be clear and friendly."},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	// The unique index on user_id still backs this even if two requests
	// race past the lookup above.
	session, err := s.store.CreateSession(ctx, userID, threadID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns all stored sessions.
func (s *Service) ListSessions(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// ThreadMessages returns the remote message list for a thread, newest first.
func (s *Service) ThreadMessages(ctx context.Context, threadID string) ([]assistant.Message, error) {
	if threadID == "" {
		return nil, &domain.ValidationError{Field: "thread_id"}
	}
	messages, err := s.backend.ListMessages(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
