// Package task models one agent work session against a workspace: its
// identity, its working directory, its selected intent, and the file
// fingerprint snapshot that backs the optimistic lock.
package task

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/papercomputeco/reins/pkg/scope"
	"github.com/papercomputeco/reins/pkg/trace"
)

// Task is the per-session state threaded through every tool invocation.
// Tool calls on one task are strictly serial: a tool cannot begin until the
// previous tool's post-hooks have completed. That serialization is what makes
// the read-hash/write-hash comparison in the tracker sound.
type Task struct {
	// ID identifies the task; it becomes the req_id on ledger records.
	ID string

	// WorkspaceRoot is the absolute path of the mediated workspace.
	WorkspaceRoot string

	// WorkingDir is the directory relative paths resolve against.
	WorkingDir string

	// ModelIdentifier optionally names the model driving this task.
	ModelIdentifier string

	// Tracker holds the task's read-time content fingerprints. Empty at
	// task start, cleared at task end.
	Tracker *trace.Tracker

	mu           sync.Mutex
	execMu       sync.Mutex
	activeIntent string
}

// New creates a task. An empty workingDir defaults to the workspace root.
func New(id, workspaceRoot, workingDir string) *Task {
	if workingDir == "" {
		workingDir = workspaceRoot
	}
	return &Task{
		ID:            id,
		WorkspaceRoot: workspaceRoot,
		WorkingDir:    workingDir,
		Tracker:       trace.NewTracker(),
	}
}

// ActiveIntent returns the currently selected intent id, or "".
func (t *Task) ActiveIntent() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeIntent
}

// SetActiveIntent selects an intent. The only transitions are unset→set and
// set→set; an intent is never deselected during a task.
func (t *Task) SetActiveIntent(intentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activeIntent = intentID
}

// Serialize runs fn under the task's tool-call lock. The executor holds this
// lock across pre-hooks, the tool body, and post-hooks.
func (t *Task) Serialize(fn func()) {
	t.execMu.Lock()
	defer t.execMu.Unlock()
	fn()
}

// WorkspaceRelative resolves p against the working directory and rewrites it
// workspace-relative with forward slashes, the form the ledger and scope
// matcher speak.
func (t *Task) WorkspaceRelative(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(t.WorkingDir, p)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(t.WorkspaceRoot, abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s against workspace: %w", p, err)
	}
	return scope.Normalize(rel), nil
}

// Abs resolves p to an absolute path under the working directory.
func (t *Task) Abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(t.WorkingDir, p))
}

// Close ends the task and drops its fingerprint snapshot.
func (t *Task) Close() {
	t.Tracker.ClearAll()
}
