// Package eventstream defines transport-neutral event payloads emitted when
// ledger records are appended, plus the publisher interface backends
// implement.
package eventstream

import (
	"time"

	"github.com/papercomputeco/reins/pkg/trace"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeTraceAppended is emitted after a mutation record is appended
	// to the workspace ledger.
	EventTypeTraceAppended = "reins.trace.appended"
)

// TraceAppendedEvent is the payload for one appended ledger record.
type TraceAppendedEvent struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	EventID       string       `json:"event_id"`
	EmittedAt     time.Time    `json:"emitted_at"`
	Source        EventSource  `json:"source"`
	Record        trace.Record `json:"record"`
}

// EventSource identifies where the mutation originated.
type EventSource struct {
	Workspace string `json:"workspace,omitempty"`
	TaskID    string `json:"task_id,omitempty"`
}
