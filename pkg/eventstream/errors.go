package eventstream

import "errors"

// ErrNilTraceEvent indicates a nil trace event payload was provided to a publisher.
var ErrNilTraceEvent = errors.New("nil trace event")
