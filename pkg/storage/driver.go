// Package storage defines the read-side index over the trace ledger. The
// JSONL file in the workspace stays authoritative; a driver is a rebuildable
// query structure for the API and CLI, never a second source of truth.
package storage

import (
	"context"

	"github.com/papercomputeco/reins/pkg/trace"
)

// Driver indexes ledger records for querying.
type Driver interface {
	// Put stores a record. Returns true if the record was newly inserted,
	// false if an identical record was already indexed. Re-indexing the
	// same ledger is a no-op, which keeps rebuilds idempotent.
	Put(ctx context.Context, record *trace.Record) (bool, error)

	// Query returns records matching q, oldest first.
	Query(ctx context.Context, q trace.Query) ([]trace.Record, error)

	// Stats summarizes the indexed ledger.
	Stats(ctx context.Context) (*Stats, error)

	// Close closes the index and releases any resources.
	Close() error
}

// Stats is an aggregate view of the indexed ledger.
type Stats struct {
	Total    int            `json:"total"`
	ByClass  map[string]int `json:"by_class"`
	ByIntent map[string]int `json:"by_intent"`
}

// Rebuild replays a workspace ledger into a driver. Safe to run repeatedly.
func Rebuild(ctx context.Context, driver Driver, workspaceRoot string) (int, error) {
	records, err := trace.NewReader(workspaceRoot, nil).Read()
	if err != nil {
		return 0, err
	}

	inserted := 0
	for i := range records {
		fresh, err := driver.Put(ctx, &records[i])
		if err != nil {
			return inserted, err
		}
		if fresh {
			inserted++
		}
	}
	return inserted, nil
}
