package gate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/logger"

	"github.com/papercomputeco/reins/pkg/eventstream"
	"github.com/papercomputeco/reins/pkg/fingerprint"
	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/mutation"
	"github.com/papercomputeco/reins/pkg/tools"
	"github.com/papercomputeco/reins/pkg/trace"
	"github.com/papercomputeco/reins/pkg/vcs"
)

// TraceHook is the post-execution journaler. After a successful file write
// it classifies the mutation against the file's last committed version and
// appends a record to the workspace ledger. Tracing is non-critical: the
// side effect already happened, so every failure here is logged and
// swallowed.
type TraceHook struct {
	publisher eventstream.Publisher
	logger    *zap.Logger
}

// NewTraceHook builds the journaler. A nil publisher disables event
// emission.
func NewTraceHook(publisher eventstream.Publisher, logger *zap.Logger) *TraceHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TraceHook{publisher: publisher, logger: logger}
}

// ID implements hooks.PostHook.
func (h *TraceHook) ID() string { return "trace" }

// Post implements hooks.PostHook.
func (h *TraceHook) Post(ctx context.Context, inv *hooks.Invocation, _ string) error {
	if inv.Tool != tools.ToolWriteFile {
		return nil
	}

	intentID := inv.StringParam(tools.ParamIntentID)
	if intentID == "" {
		intentID = inv.Task.ActiveIntent()
	}
	if intentID == "" {
		// The security gate should have made this impossible.
		h.logger.Warn("write completed without an intent id; skipping trace",
			logger.TaskID(inv.Task.ID),
		)
		return nil
	}

	rel, err := inv.Task.WorkspaceRelative(inv.StringParam(tools.ParamPath))
	if err != nil {
		h.logger.Warn("could not resolve written path for trace", zap.Error(err))
		return nil
	}
	newContent := inv.StringParam(tools.ParamContent)

	var oldContent *string
	if head, ok := vcs.FileAtHead(inv.Task.WorkspaceRoot, rel); ok {
		oldContent = &head
	}

	hint := mutation.Class(inv.StringParam(tools.ParamMutationClass))
	class := mutation.Classify(oldContent, newContent, hint)

	hash := fingerprint.HashString(newContent)
	record := &trace.Record{
		ReqID:           inv.Task.ID,
		IntentID:        intentID,
		File:            rel,
		Timestamp:       trace.FormatTimestamp(time.Now()),
		MutationClass:   class,
		ContentHash:     hash,
		ModelIdentifier: inv.Task.ModelIdentifier,
		Related:         []string{inv.Task.ID},
		Ranges:          trace.Ranges{ContentHash: hash},
	}

	if revision := vcs.CurrentRevision(inv.Task.WorkspaceRoot); revision != "" {
		record.VCS = &trace.VCS{
			Revision: revision,
			Branch:   vcs.CurrentBranch(inv.Task.WorkspaceRoot),
		}
	}

	if err := trace.NewWriter(inv.Task.WorkspaceRoot).Append(record); err != nil {
		h.logger.Error("appending trace record",
			logger.File(rel),
			logger.Intent(intentID),
			zap.Error(err),
		)
		return nil
	}

	h.publish(ctx, inv, record)
	return nil
}

func (h *TraceHook) publish(ctx context.Context, inv *hooks.Invocation, record *trace.Record) {
	if h.publisher == nil {
		return
	}

	event := &eventstream.TraceAppendedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeTraceAppended,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source: eventstream.EventSource{
			Workspace: inv.Task.WorkspaceRoot,
			TaskID:    inv.Task.ID,
		},
		Record: *record,
	}
	if err := h.publisher.PublishTrace(ctx, event); err != nil {
		h.logger.Warn("publishing trace event", zap.Error(err))
	}
}
