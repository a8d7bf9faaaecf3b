package hooks

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/logger"
)

// Registry holds the ordered pre and post hook lists. Hooks are identified
// by id; registering a duplicate id is a no-op with a warning.
type Registry struct {
	mu     sync.Mutex
	pre    []PreHook
	post   []PostHook
	logger *zap.Logger
}

// NewRegistry creates an empty hook registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger}
}

// RegisterPre appends a pre-hook in execution order.
func (r *Registry) RegisterPre(h PreHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.pre {
		if existing.ID() == h.ID() {
			r.logger.Warn("duplicate pre-hook registration ignored", logger.Hook(h.ID()))
			return
		}
	}
	r.pre = append(r.pre, h)
}

// RegisterPost appends a post-hook in execution order.
func (r *Registry) RegisterPost(h PostHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.post {
		if existing.ID() == h.ID() {
			r.logger.Warn("duplicate post-hook registration ignored", logger.Hook(h.ID()))
			return
		}
	}
	r.post = append(r.post, h)
}

// UnregisterPre removes the pre-hook with the given id.
func (r *Registry) UnregisterPre(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.pre {
		if h.ID() == id {
			r.pre = append(r.pre[:i], r.pre[i+1:]...)
			return
		}
	}
}

// UnregisterPost removes the post-hook with the given id.
func (r *Registry) UnregisterPost(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.post {
		if h.ID() == id {
			r.post = append(r.post[:i], r.post[i+1:]...)
			return
		}
	}
}

// RunPre executes pre-hooks in registration order. The first blocking hook
// short-circuits: its payload goes to sink and the invocation is denied. A
// hook that faults or panics is logged and skipped; a misbehaving hook must
// not deny all tool execution.
func (r *Registry) RunPre(ctx context.Context, inv *Invocation, sink func(*ToolError)) bool {
	for _, h := range r.snapshotPre() {
		result, err := r.safePre(ctx, h, inv)
		if err != nil {
			r.logger.Error("pre-hook fault; continuing",
				logger.Hook(h.ID()),
				logger.Tool(inv.Tool),
				zap.Error(err),
			)
			continue
		}
		if !result.Allow {
			if result.Error != nil && sink != nil {
				sink(result.Error)
			}
			return false
		}
	}
	return true
}

// RunPost executes every post-hook unconditionally. Errors are logged, never
// propagated.
func (r *Registry) RunPost(ctx context.Context, inv *Invocation, result string) {
	for _, h := range r.snapshotPost() {
		if err := r.safePost(ctx, h, inv, result); err != nil {
			r.logger.Error("post-hook fault",
				logger.Hook(h.ID()),
				logger.Tool(inv.Tool),
				zap.Error(err),
			)
		}
	}
}

func (r *Registry) snapshotPre() []PreHook {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PreHook, len(r.pre))
	copy(out, r.pre)
	return out
}

func (r *Registry) snapshotPost() []PostHook {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PostHook, len(r.post))
	copy(out, r.post)
	return out
}

func (r *Registry) safePre(ctx context.Context, h PreHook, inv *Invocation) (result PreResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Allowed()
			err = &panicError{hook: h.ID(), value: rec}
		}
	}()
	return h.Pre(ctx, inv)
}

func (r *Registry) safePost(ctx context.Context, h PostHook, inv *Invocation, result string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{hook: h.ID(), value: rec}
		}
	}()
	return h.Post(ctx, inv, result)
}
