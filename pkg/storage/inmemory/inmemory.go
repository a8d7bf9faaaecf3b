// Package inmemory provides a memory-backed storage driver, the default when
// no sqlite path is configured.
package inmemory

import (
	"context"
	"sync"

	"github.com/papercomputeco/reins/pkg/storage"
	"github.com/papercomputeco/reins/pkg/trace"
)

// Driver implements storage.Driver over an in-process slice.
type Driver struct {
	mu      sync.RWMutex
	records []trace.Record
	seen    map[string]struct{}
}

// NewDriver creates an empty in-memory index.
func NewDriver() *Driver {
	return &Driver{seen: make(map[string]struct{})}
}

func key(r *trace.Record) string {
	return r.ReqID + "\x00" + r.File + "\x00" + r.Timestamp + "\x00" + r.ContentHash
}

// Put implements storage.Driver.
func (d *Driver) Put(_ context.Context, record *trace.Record) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := key(record)
	if _, ok := d.seen[k]; ok {
		return false, nil
	}
	d.seen[k] = struct{}{}
	d.records = append(d.records, *record)
	return true, nil
}

// Query implements storage.Driver.
func (d *Driver) Query(_ context.Context, q trace.Query) ([]trace.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []trace.Record
	for _, r := range d.records {
		if q.IntentID != "" && r.IntentID != q.IntentID {
			continue
		}
		if q.File != "" && r.File != q.File {
			continue
		}
		if q.MutationClass != "" && string(r.MutationClass) != q.MutationClass {
			continue
		}
		out = append(out, r)
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Stats implements storage.Driver.
func (d *Driver) Stats(_ context.Context) (*storage.Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := &storage.Stats{
		Total:    len(d.records),
		ByClass:  make(map[string]int),
		ByIntent: make(map[string]int),
	}
	for _, r := range d.records {
		stats.ByClass[string(r.MutationClass)]++
		stats.ByIntent[r.IntentID]++
	}
	return stats, nil
}

// Close implements storage.Driver.
func (d *Driver) Close() error {
	return nil
}
