package eventstream

import "context"

// Publisher publishes trace events to an event stream backend.
type Publisher interface {
	PublishTrace(ctx context.Context, event *TraceAppendedEvent) error
	Close() error
}
