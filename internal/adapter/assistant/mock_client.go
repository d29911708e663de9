package assistant

import (
	"context"
	"sync"

	"github.com/kidtutor/orchestrator/internal/domain"
)

// MockBackend is a scripted in-memory Backend for tests. Successive GetRun
// calls consume the scripted states; the last state repeats once the script
// is exhausted.
type MockBackend struct {
	mu sync.Mutex

	AssistantID string
	ThreadID    string
	RunID       string

	// Script of run states returned by GetRun, in order.
	PollStates []domain.RunState
	pollIndex  int

	// Messages returned by ListMessages, newest first.
	Messages []Message

	CreateAssistantErr error
	CreateThreadErr    error
	CreateMessageErr   error
	CreateRunErr       error
	GetRunErr          error
	SubmitOutputsErr   error
	ListMessagesErr    error

	// Recorded calls.
	AppendedMessages []ThreadMessage
	RunStarts        int
	PollCalls        int
	Submitted        [][]domain.ToolOutput
	ListCalls        int
}

var _ Backend = (*MockBackend)(nil)

// NewMockBackend creates a mock with default identifiers.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		AssistantID: "asst_mock",
		ThreadID:    "thread_mock",
		RunID:       "run_mock",
	}
}

// Script replaces the poll state sequence and rewinds the script.
func (m *MockBackend) Script(states ...domain.RunState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollStates = states
	m.pollIndex = 0
}

func (m *MockBackend) CreateAssistant(ctx context.Context, req *AssistantRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateAssistantErr != nil {
		return "", m.CreateAssistantErr
	}
	return m.AssistantID, nil
}

func (m *MockBackend) CreateThread(ctx context.Context, seed []ThreadMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateThreadErr != nil {
		return "", m.CreateThreadErr
	}
	return m.ThreadID, nil
}

func (m *MockBackend) CreateMessage(ctx context.Context, threadID, role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateMessageErr != nil {
		return m.CreateMessageErr
	}
	m.AppendedMessages = append(m.AppendedMessages, ThreadMessage{Role: role, Content: content})
	return nil
}

func (m *MockBackend) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateRunErr != nil {
		return "", m.CreateRunErr
	}
	m.RunStarts++
	return m.RunID, nil
}

func (m *MockBackend) GetRun(ctx context.Context, threadID, runID string) (*domain.RunState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRunErr != nil {
		return nil, m.GetRunErr
	}
	m.PollCalls++
	if len(m.PollStates) == 0 {
		return &domain.RunState{RunID: runID, ThreadID: threadID, Status: domain.RunStatusCompleted}, nil
	}
	state := m.PollStates[m.pollIndex]
	if m.pollIndex < len(m.PollStates)-1 {
		m.pollIndex++
	}
	state.RunID = runID
	state.ThreadID = threadID
	return &state, nil
}

func (m *MockBackend) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.ToolOutput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitOutputsErr != nil {
		return m.SubmitOutputsErr
	}
	m.Submitted = append(m.Submitted, outputs)
	return nil
}

func (m *MockBackend) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMessagesErr != nil {
		return nil, m.ListMessagesErr
	}
	m.ListCalls++
	return m.Messages, nil
}
