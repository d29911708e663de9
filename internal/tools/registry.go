// Package tools implements the tool dispatch registry. A run in the
// requires_action state hands each pending invocation to Dispatch, which
// always resolves to an output string: a single unsupported, blocked or
// failing tool call must never abort the enclosing run.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/kidtutor/orchestrator/internal/domain"
	"github.com/kidtutor/orchestrator/policy"
)

// Output sentinels produced when a handler cannot run.
const (
	OutputNotRecognized = "Tool not recognized."
	OutputBlocked       = "Tool call blocked by policy."
)

// HandlerFunc computes the output for one tool invocation.
type HandlerFunc func(ctx context.Context, args domain.ToolArgs) (string, error)

// Broadcaster pushes an event payload to all connected observers.
// Best-effort: delivery is not acknowledged.
type Broadcaster interface {
	BroadcastJSON(v interface{}) error
}

// Registry stores tool handlers keyed by tool name, with an optional OPA
// policy gate consulted before each dispatch.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	engine   *policy.Engine
}

// NewRegistry creates an empty registry. The policy engine may be nil, in
// which case every known tool is allowed.
func NewRegistry(engine *policy.Engine) *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
		engine:   engine,
	}
}

// Register adds a handler for a tool name.
func (r *Registry) Register(toolName string, h HandlerFunc) error {
	if toolName == "" {
		return fmt.Errorf("tool name is required")
	}
	if h == nil {
		return fmt.Errorf("handler is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[toolName]; exists {
		return fmt.Errorf("handler already registered for %s", toolName)
	}
	r.handlers[toolName] = h
	return nil
}

// Dispatch resolves one invocation to an output. Unknown tools, policy
// blocks and handler failures all degrade to output text instead of errors.
func (r *Registry) Dispatch(ctx context.Context, inv domain.ToolInvocation) domain.ToolOutput {
	out := domain.ToolOutput{CallID: inv.CallID}

	r.mu.RLock()
	h := r.handlers[inv.Name]
	r.mu.RUnlock()

	if h == nil {
		out.Output = OutputNotRecognized
		return out
	}

	if r.blocked(ctx, inv) {
		out.Output = OutputBlocked
		return out
	}

	result, err := h(ctx, domain.ParseToolArgs(inv.Name, inv.Arguments))
	if err != nil {
		log.Printf("WARN: tool %s failed: %v", inv.Name, err)
		out.Output = fmt.Sprintf("Tool %s is currently unavailable.", inv.Name)
		return out
	}

	out.Output = result
	return out
}

// blocked consults the policy engine. Evaluation failures count as allow:
// a broken policy must not take the conversation down with it.
func (r *Registry) blocked(ctx context.Context, inv domain.ToolInvocation) bool {
	if r.engine == nil {
		return false
	}

	args := map[string]interface{}{}
	if len(inv.Arguments) > 0 {
		if err := json.Unmarshal(inv.Arguments, &args); err != nil {
			args = map[string]interface{}{}
		}
	}

	decision, err := r.engine.Evaluate(ctx, map[string]interface{}{
		"tool_name": inv.Name,
		"args":      args,
	})
	if err != nil {
		log.Printf("WARN: policy evaluation failed for %s: %v", inv.Name, err)
		return false
	}
	return decision == policy.DecisionBlock
}
