// Package policy evaluates user questions against content policy before they
// reach the language model.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA guard-rails engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a guard-rails engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// ValidateQuestion evaluates the question against the policy.
// Returns: decision (allow, block), error.
func (e *Engine) ValidateQuestion(ctx context.Context, question string) (string, error) {
	input := map[string]interface{}{"question": question}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default; an empty result means it did not load.
		return "allow", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return "allow", nil
}

// DefaultPolicy is the default guard-rails policy content.
const DefaultPolicy = `
package chat_policy

default decision = "allow"

# Block questions asking for harmful instructions.
decision = "block" {
	regex.match("(?i)(build|make|assemble)\\s+(a\\s+)?bomb", input.question)
}

decision = "block" {
	regex.match("(?i)how\\s+to\\s+(hack|exploit)\\s", input.question)
}
`
