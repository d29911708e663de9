// Package policy evaluates tool-call policy via OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decision values returned by the tool policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.tool_policy.decision"),
		rego.Module("tool_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the tool policy. Input is a map with keys tool_name and
// args. Returns allow or block; an empty result defaults to allow.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy is the default tool policy content. Fee lookups for
// internal course IDs stay inside the admin API.
const DefaultPolicy = `
package tool_policy

default decision = "allow"

decision = "block" {
	input.tool_name == "get_course_fee"
	startswith(input.args.courseId, "internal-")
}
`
