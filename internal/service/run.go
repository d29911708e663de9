package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/kidtutor/orchestrator/internal/domain"
)

// AskRequest carries one user question through the orchestration.
type AskRequest struct {
	UserID      string `json:"user_id"`
	AssistantID string `json:"assistant_id"`
	ThreadID    string `json:"thread_id"`
	Question    string `json:"question"`
}

func (r AskRequest) validate() error {
	if r.UserID == "" {
		return &domain.ValidationError{Field: "user_id"}
	}
	if r.AssistantID == "" {
		return &domain.ValidationError{Field: "assistant_id"}
	}
	if r.ThreadID == "" {
		return &domain.ValidationError{Field: "thread_id"}
	}
	if r.Question == "" {
		return &domain.ValidationError{Field: "question"}
	}
	return nil
}

// AskQuestion drives one question from message submission to reply: append
// the user message, start a run, advance it to a terminal status (resolving
// tool calls along the way) and fetch the newest assistant message. Any
// upstream failure aborts the whole operation; no remote side effects are
// rolled back.
func (s *Service) AskQuestion(ctx context.Context, req AskRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	unlock := s.locks.lock(req.ThreadID)
	defer unlock()

	if err := s.backend.CreateMessage(ctx, req.ThreadID, "user", req.Question); err != nil {
		return "", fmt.Errorf("failed to append user message: %w", err)
	}

	// The first successful question becomes the session title.
	if err := s.store.SetTitleOnce(ctx, req.UserID, req.ThreadID, req.Question); err != nil {
		log.Printf("WARN: failed to set session title: %v", err)
	}

	runID, err := s.backend.CreateRun(ctx, req.ThreadID, req.AssistantID)
	if err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}

	if err := s.pollRun(ctx, req.ThreadID, runID); err != nil {
		return "", err
	}

	return s.fetchReply(ctx, req.ThreadID)
}

// pollRun advances the remote run until it reaches a terminal status, up to
// the configured attempt bound.
func (s *Service) pollRun(ctx context.Context, threadID, runID string) error {
	for attempt := 0; attempt < s.poller.MaxAttempts; attempt++ {
		if err := s.poller.sleep(ctx); err != nil {
			return err
		}

		state, err := s.backend.GetRun(ctx, threadID, runID)
		if err != nil {
			return fmt.Errorf("failed to poll run: %w", err)
		}

		switch {
		case state.Status == domain.RunStatusCompleted:
			return nil
		case state.Status == domain.RunStatusRequiresAction:
			if err := s.resolveToolCalls(ctx, threadID, runID, state.PendingToolCalls); err != nil {
				return err
			}
		case state.Status.Terminal():
			return &domain.UpstreamError{Message: fmt.Sprintf("run %s ended with status %s", runID, state.Status)}
		}
	}
	return &domain.TimeoutError{RunID: runID, Attempts: s.poller.MaxAttempts}
}

// resolveToolCalls dispatches every pending invocation concurrently and
// submits the collected outputs as one batch. Every invocation resolves to
// an output; only ctx cancellation or a rejected submission aborts.
func (s *Service) resolveToolCalls(ctx context.Context, threadID, runID string, calls []domain.ToolInvocation) error {
	if len(calls) == 0 {
		return nil
	}

	outputs := make([]domain.ToolOutput, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			outputs[i] = s.registry.Dispatch(gctx, call)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.backend.SubmitToolOutputs(ctx, threadID, runID, outputs); err != nil {
		return fmt.Errorf("failed to submit tool outputs: %w", err)
	}
	return nil
}

// fetchReply returns the text of the newest assistant-authored message, or
// the no-response sentinel when there is none.
func (s *Service) fetchReply(ctx context.Context, threadID string) (string, error) {
	messages, err := s.backend.ListMessages(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to list messages: %w", err)
	}

	// Messages arrive newest first.
	for _, msg := range messages {
		if msg.Role != "assistant" {
			continue
		}
		for _, part := range msg.Content {
			if part.Type == "text" && part.Text != nil && part.Text.Value != "" {
				return part.Text.Value, nil
			}
		}
		break
	}
	return domain.NoResponseText, nil
}
