package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/logger"

	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/task"
)

// Result is the outcome of one mediated tool call. Exactly one of Output,
// Denied, or Err is meaningful: Denied carries an agent-correctable policy
// payload, Err a fatal parameter or execution fault.
type Result struct {
	Output   string
	Denied   *hooks.ToolError
	Err      error
	Duration time.Duration
}

// IsDenied reports whether the call was blocked by policy.
func (r *Result) IsDenied() bool {
	return r.Denied != nil
}

// Executor routes tool calls through the hook pipeline: pre-hooks, tool
// body, post-hooks, serialized per task.
type Executor struct {
	registry *Registry
	hooks    *hooks.Registry
	logger   *zap.Logger
}

// NewExecutor creates an executor over a tool registry and a hook registry.
func NewExecutor(registry *Registry, hookRegistry *hooks.Registry, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{registry: registry, hooks: hookRegistry, logger: logger}
}

// Registry exposes the underlying tool registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Run executes one tool call under t. Calls on the same task are strictly
// serial; a call does not begin until the previous call's post-hooks have
// completed.
func (e *Executor) Run(ctx context.Context, t *task.Task, name string, params map[string]any) Result {
	var res Result
	t.Serialize(func() {
		res = e.run(ctx, t, name, params)
	})
	return res
}

func (e *Executor) run(ctx context.Context, t *task.Task, name string, params map[string]any) Result {
	start := time.Now()

	tool := e.registry.Get(name)
	if tool == nil {
		return Result{
			Err:      fmt.Errorf("%w: %s", ErrToolNotFound, name),
			Duration: time.Since(start),
		}
	}

	if params == nil {
		params = map[string]any{}
	}
	inv := &hooks.Invocation{Tool: name, Params: params, Task: t}

	var denial *hooks.ToolError
	allowed := e.hooks.RunPre(ctx, inv, func(te *hooks.ToolError) {
		denial = te
	})
	if !allowed {
		if denial == nil {
			denial = hooks.NewToolError(name, "blocked", "tool execution blocked by a pre-hook")
		}
		e.logger.Debug("tool call blocked",
			logger.Tool(name),
			logger.Reason(denial.Reason),
			logger.TaskID(t.ID),
		)
		return Result{Denied: denial, Duration: time.Since(start)}
	}

	output, err := tool.Execute(ctx, t, params)
	if err != nil {
		// Policy outcomes raised inside the tool body (stale_file) travel
		// the same channel as gate denials.
		var te *hooks.ToolError
		if errors.As(err, &te) {
			return Result{Denied: te, Duration: time.Since(start)}
		}
		return Result{Err: err, Duration: time.Since(start)}
	}

	e.hooks.RunPost(ctx, inv, output)

	return Result{Output: output, Duration: time.Since(start)}
}
