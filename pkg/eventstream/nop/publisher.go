package nop

import (
	"context"

	"github.com/papercomputeco/reins/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishTrace validates input and otherwise does nothing.
func (p *Publisher) PublishTrace(_ context.Context, event *eventstream.TraceAppendedEvent) error {
	if event == nil {
		return eventstream.ErrNilTraceEvent
	}
	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
