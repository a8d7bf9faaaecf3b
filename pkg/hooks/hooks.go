// Package hooks provides the pre/post tool-execution mediator. Pre-hooks run
// in registration order and may block an invocation; post-hooks run after a
// successful tool body and are strictly best-effort.
package hooks

import (
	"context"

	"github.com/papercomputeco/reins/pkg/task"
)

// Invocation is one mediated tool call.
type Invocation struct {
	// Tool is the registered tool name.
	Tool string

	// Params are the raw tool parameters.
	Params map[string]any

	// Task is the session state the call runs under.
	Task *task.Task
}

// StringParam returns a string-typed parameter, or "".
func (i *Invocation) StringParam(key string) string {
	s, _ := i.Params[key].(string)
	return s
}

// PreResult is a pre-hook's verdict on an invocation.
type PreResult struct {
	Allow bool
	Error *ToolError
}

// Allowed is the passing verdict.
func Allowed() PreResult {
	return PreResult{Allow: true}
}

// Blocked builds a blocking verdict carrying the agent-facing error.
func Blocked(err *ToolError) PreResult {
	return PreResult{Allow: false, Error: err}
}

// PreHook inspects an invocation before the tool body runs. A returned
// non-nil error marks an infrastructure fault, not a denial: the registry
// logs it and moves on.
type PreHook interface {
	ID() string
	Pre(ctx context.Context, inv *Invocation) (PreResult, error)
}

// PostHook observes a successfully executed invocation. Errors are logged
// and never propagated; the side effect has already happened.
type PostHook interface {
	ID() string
	Post(ctx context.Context, inv *Invocation, result string) error
}
