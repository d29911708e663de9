// Package assistant provides the HTTP client for the remote assistant
// backend, which manages threads, runs and messages.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kidtutor/orchestrator/internal/domain"
)

// betaHeader is the protocol-version header required on every call.
const betaHeader = "assistants=v2"

// Backend defines the assistant backend operations the orchestrator needs.
type Backend interface {
	// CreateAssistant registers an assistant definition and returns its ID.
	CreateAssistant(ctx context.Context, req *AssistantRequest) (string, error)

	// CreateThread creates a conversation thread, optionally seeded with
	// initial messages, and returns its ID.
	CreateThread(ctx context.Context, seed []ThreadMessage) (string, error)

	// CreateMessage appends a message to a thread.
	CreateMessage(ctx context.Context, threadID, role, content string) error

	// CreateRun starts executing the assistant over the thread and returns
	// the run ID.
	CreateRun(ctx context.Context, threadID, assistantID string) (string, error)

	// GetRun fetches the current run state, including any pending tool
	// calls when the run requires action.
	GetRun(ctx context.Context, threadID, runID string) (*domain.RunState, error)

	// SubmitToolOutputs submits the collected tool outputs as one batch.
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.ToolOutput) error

	// ListMessages returns the thread's messages, newest first.
	ListMessages(ctx context.Context, threadID string) ([]Message, error)
}

// Client is the HTTP assistant backend client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Backend = (*Client)(nil)

// NewClient creates a new assistant backend client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// AssistantRequest describes an assistant definition.
type AssistantRequest struct {
	Name         string           `json:"name"`
	Instructions string           `json:"instructions"`
	Model        string           `json:"model"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// ToolDefinition declares a tool the assistant may call.
type ToolDefinition struct {
	Type     string              `json:"type"`
	Function *FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition describes a callable function tool.
type FunctionDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters,omitempty"`
}

// ThreadMessage is a message used to seed a new thread.
type ThreadMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message is a message stored on a thread.
type Message struct {
	ID        string        `json:"id"`
	Role      string        `json:"role"`
	Content   []ContentPart `json:"content"`
	CreatedAt int64         `json:"created_at"`
}

// ContentPart is one part of a message's content.
type ContentPart struct {
	Type string     `json:"type"`
	Text *TextValue `json:"text,omitempty"`
}

// TextValue holds the text of a content part.
type TextValue struct {
	Value string `json:"value"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError represents the error details.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

type runResponse struct {
	ID             string           `json:"id"`
	ThreadID       string           `json:"thread_id"`
	Status         domain.RunStatus `json:"status"`
	RequiredAction *requiredAction  `json:"required_action,omitempty"`
}

type requiredAction struct {
	Type              string             `json:"type"`
	SubmitToolOutputs *submitToolOutputs `json:"submit_tool_outputs,omitempty"`
}

type submitToolOutputs struct {
	ToolCalls []wireToolCall `json:"tool_calls"`
}

type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function wireFunctionCall `json:"function"`
}

type wireFunctionCall struct {
	Name string `json:"name"`
	// Arguments is a JSON object encoded as a string by the backend.
	Arguments string `json:"arguments"`
}

type messageList struct {
	Data []Message `json:"data"`
}

// CreateAssistant registers an assistant definition.
func (c *Client) CreateAssistant(ctx context.Context, req *AssistantRequest) (string, error) {
	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "/assistants", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateThread creates a new conversation thread.
func (c *Client) CreateThread(ctx context.Context, seed []ThreadMessage) (string, error) {
	body := map[string]interface{}{}
	if len(seed) > 0 {
		body["messages"] = seed
	}
	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "/threads", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// CreateMessage appends a message to a thread.
func (c *Client) CreateMessage(ctx context.Context, threadID, role, content string) error {
	body := ThreadMessage{Role: role, Content: content}
	return c.do(ctx, http.MethodPost, "/threads/"+threadID+"/messages", body, nil)
}

// CreateRun starts executing the assistant over the thread.
func (c *Client) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	body := map[string]string{"assistant_id": assistantID}
	var resp runResponse
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// GetRun fetches the current run state.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*domain.RunState, error) {
	var resp runResponse
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &resp); err != nil {
		return nil, err
	}

	state := &domain.RunState{
		RunID:    resp.ID,
		ThreadID: threadID,
		Status:   resp.Status,
	}
	if resp.RequiredAction != nil && resp.RequiredAction.SubmitToolOutputs != nil {
		for _, call := range resp.RequiredAction.SubmitToolOutputs.ToolCalls {
			state.PendingToolCalls = append(state.PendingToolCalls, domain.ToolInvocation{
				CallID:    call.ID,
				Name:      call.Function.Name,
				Arguments: json.RawMessage(call.Function.Arguments),
			})
		}
	}
	return state, nil
}

// SubmitToolOutputs submits the collected tool outputs as one batch.
func (c *Client) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.ToolOutput) error {
	body := map[string]interface{}{"tool_outputs": outputs}
	return c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs/"+runID+"/submit_tool_outputs", body, nil)
}

// ListMessages returns the thread's messages, newest first.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	var resp messageList
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/messages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// do sends one request and decodes the response into out when non-nil.
// Non-2xx responses become *domain.UpstreamError carrying the upstream
// message when it can be decoded.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.UpstreamError{Message: "failed to read response: " + err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != nil && errResp.Error.Message != "" {
			return &domain.UpstreamError{StatusCode: resp.StatusCode, Message: errResp.Error.Message}
		}
		return &domain.UpstreamError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", betaHeader)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
