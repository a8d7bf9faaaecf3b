package trace

import (
	"sync"

	"github.com/papercomputeco/reins/pkg/fingerprint"
	"github.com/papercomputeco/reins/pkg/scope"
)

// Tracker is the per-task map of read-time content fingerprints backing the
// optimistic file lock. It starts empty at task creation and is cleared when
// the task ends. Callers store on every read and on every successful write,
// so the snapshot tracks the most recent on-disk state the task believes
// authoritative.
type Tracker struct {
	mu     sync.Mutex
	hashes map[string]string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{hashes: make(map[string]string)}
}

// Store records the fingerprint of content for path.
func (t *Tracker) Store(path, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hashes[scope.Normalize(path)] = fingerprint.HashString(content)
}

// Get returns the recorded fingerprint for path, if any.
func (t *Tracker) Get(path string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.hashes[scope.Normalize(path)]
	return h, ok
}

// Unchanged reports whether currentContent still matches the recorded
// fingerprint for path. A path with no recorded fingerprint is unchanged:
// first writes must never be blocked.
func (t *Tracker) Unchanged(path, currentContent string) bool {
	h, ok := t.Get(path)
	if !ok {
		return true
	}
	return h == fingerprint.HashString(currentContent)
}

// Clear forgets the fingerprint for path.
func (t *Tracker) Clear(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.hashes, scope.Normalize(path))
}

// ClearAll forgets every fingerprint.
func (t *Tracker) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hashes = make(map[string]string)
}

// Len returns the number of tracked paths.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.hashes)
}
