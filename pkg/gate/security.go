package gate

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/logger"

	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/scope"
	"github.com/papercomputeco/reins/pkg/tools"
)

// SecurityConfig tunes the gate policy.
type SecurityConfig struct {
	// StrictAuthorization denies destructive operations when no
	// authorization surface is reachable. The default is fail-open: a
	// broken confirmation UI must not silently deny all service.
	StrictAuthorization bool
}

// SecurityHook is the pre-execution gate. For every destructive tool call it
// requires, in order: an active intent, an intent that is not disabled, a
// target inside the intent's owned scope, and human approval. Infrastructure
// faults inside those checks log and fall open; only the policy itself
// denies.
type SecurityHook struct {
	caps    *tools.Registry
	ignored *intent.IgnoreCache
	cfg     SecurityConfig
	auth    Authorizer
	logger  *zap.Logger
}

// NewSecurityHook builds the gate over a capability table, an ignore cache,
// and an authorization surface.
func NewSecurityHook(caps *tools.Registry, ignored *intent.IgnoreCache, auth Authorizer, cfg SecurityConfig, logger *zap.Logger) *SecurityHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecurityHook{
		caps:    caps,
		ignored: ignored,
		cfg:     cfg,
		auth:    auth,
		logger:  logger,
	}
}

// ID implements hooks.PreHook.
func (h *SecurityHook) ID() string { return "security" }

// Pre implements hooks.PreHook.
func (h *SecurityHook) Pre(ctx context.Context, inv *hooks.Invocation) (hooks.PreResult, error) {
	if h.caps.Capability(inv.Tool) == tools.Safe {
		return hooks.Allowed(), nil
	}

	intentID := inv.Task.ActiveIntent()
	if intentID == "" {
		if inv.Tool == tools.ToolSelectIntent {
			return hooks.Allowed(), nil
		}
		return hooks.Blocked(hooks.NewToolError(inv.Tool, hooks.ReasonMissingIntentID,
			"no active intent; call select_active_intent before destructive operations",
		)), nil
	}

	if h.ignored.IsIgnored(inv.Task.WorkspaceRoot, intentID) {
		return hooks.Blocked(hooks.NewToolError(inv.Tool, hooks.ReasonIntentIgnored,
			fmt.Sprintf("intent %s is disabled by %s", intentID, intent.IgnoreFile),
		).WithIntent(intentID)), nil
	}

	if verdict := h.checkScope(inv, intentID); verdict != nil {
		return *verdict, nil
	}

	return h.authorize(ctx, inv, intentID), nil
}

// checkScope enforces the owned-scope constraint when the tool targets a
// path and the intent declares a non-empty scope. Returns nil to continue.
func (h *SecurityHook) checkScope(inv *hooks.Invocation, intentID string) *hooks.PreResult {
	path := inv.StringParam(tools.ParamPath)
	if path == "" {
		return nil
	}

	declared, err := intent.FindIntent(inv.Task.WorkspaceRoot, intentID)
	if err != nil {
		h.logger.Warn("scope check could not load the manifest; falling open",
			logger.Intent(intentID),
			zap.Error(err),
		)
		return nil
	}
	if declared == nil || len(declared.OwnedScope) == 0 {
		// Undeclared scope is no constraint, not deny-all.
		return nil
	}

	rel, err := inv.Task.WorkspaceRelative(path)
	if err != nil {
		h.logger.Warn("scope check could not resolve the target path; falling open",
			logger.File(path),
			zap.Error(err),
		)
		return nil
	}

	if !scope.IsWithin(rel, declared.OwnedScope) {
		blocked := hooks.Blocked(hooks.NewToolError(inv.Tool, hooks.ReasonScopeViolation,
			fmt.Sprintf("%s is outside the owned scope of intent %s", rel, intentID),
		).WithIntent(intentID).WithFile(rel))
		return &blocked
	}

	return nil
}

// authorize runs the modal human confirmation, the last stop before the
// tool body.
func (h *SecurityHook) authorize(ctx context.Context, inv *hooks.Invocation, intentID string) hooks.PreResult {
	decision, err := h.auth.Confirm(ctx, h.describe(inv, intentID))
	if err != nil {
		if h.cfg.StrictAuthorization {
			return hooks.Blocked(hooks.NewToolError(inv.Tool, hooks.ReasonUserRejected,
				"authorization is unavailable and this deployment requires explicit approval",
			).WithIntent(intentID))
		}
		if !errors.Is(err, ErrUnavailable) {
			h.logger.Warn("authorization fault; falling open",
				logger.Tool(inv.Tool),
				zap.Error(err),
			)
		}
		return hooks.Allowed()
	}

	if decision != Approve {
		return hooks.Blocked(hooks.NewToolError(inv.Tool, hooks.ReasonUserRejected,
			"the operator rejected this operation",
		).WithIntent(intentID))
	}

	return hooks.Allowed()
}

// describe builds the human-readable confirmation line from the intent and
// tool-specific context.
func (h *SecurityHook) describe(inv *hooks.Invocation, intentID string) string {
	switch inv.Tool {
	case tools.ToolWriteFile:
		target := inv.StringParam(tools.ParamPath)
		if rel, err := inv.Task.WorkspaceRelative(target); err == nil {
			target = rel
		}
		return fmt.Sprintf("[%s] write to %s", intentID, target)
	case tools.ToolExecuteCommand:
		return fmt.Sprintf("[%s] run: %s", intentID, inv.StringParam(tools.ParamCommand))
	default:
		return fmt.Sprintf("[%s] execute %s", intentID, inv.Tool)
	}
}
