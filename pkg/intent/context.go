package intent

import (
	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/trace"
)

// ContextView is the ephemeral, per-intent view handed to the agent: the
// manifest entry plus the subset of ledger records attributed to it. Built on
// demand, never persisted.
type ContextView struct {
	IntentID    string
	Constraints string
	Scope       string
	OwnedScope  []string
	Traces      []trace.Record
}

// Loader materializes context views from a workspace.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a context loader. A nil logger disables diagnostics.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load builds the context view for intentID. Returns nil when the intent is
// not present in the manifest. A missing manifest behaves like an empty one,
// and a missing or unreadable ledger degrades to an empty trace history: the
// view is advisory and must not fail the caller over auxiliary state.
func (l *Loader) Load(workspaceRoot, intentID string) (*ContextView, error) {
	found, err := FindIntent(workspaceRoot, intentID)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, nil
	}

	traces, err := trace.NewReader(workspaceRoot, l.logger).ReadFiltered(trace.Query{IntentID: intentID})
	if err != nil {
		l.logger.Warn("reading trace ledger for context view",
			zap.String("intent_id", intentID),
			zap.Error(err),
		)
		traces = nil
	}

	return &ContextView{
		IntentID:    found.ID,
		Constraints: found.Constraints,
		Scope:       found.Scope,
		OwnedScope:  found.OwnedScope,
		Traces:      traces,
	}, nil
}
