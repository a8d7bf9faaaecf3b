// Package watch observes the workspace orchestration inputs (the intent
// manifest and the ignore list) so a running server can log edits as they
// land. Enforcement never depends on the watcher: the manifest is re-read on
// every gate decision and the ignore cache invalidates by mtime. The watcher
// is operator visibility only.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/logger"

	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/trace"
)

// Watcher tails the orchestration inputs of one workspace.
type Watcher struct {
	workspaceRoot string
	logger        *zap.Logger
	fsw           *fsnotify.Watcher
}

// New creates a watcher over the workspace's orchestration directory and
// ignore file.
func New(workspaceRoot string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating workspace watcher: %w", err)
	}

	// Watch the directories, not the files: editors replace files on save
	// and a file-level watch dies with the old inode.
	if err := fsw.Add(workspaceRoot); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching workspace root: %w", err)
	}
	orchDir := filepath.Join(workspaceRoot, trace.Dir)
	if err := fsw.Add(orchDir); err != nil {
		logger.Debug("orchestration directory not watchable yet", zap.Error(err))
	}

	return &Watcher{
		workspaceRoot: workspaceRoot,
		logger:        logger,
		fsw:           fsw,
	}, nil
}

// Run consumes events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	manifestPath := intent.ManifestPath(w.workspaceRoot)
	ignorePath := filepath.Join(w.workspaceRoot, intent.IgnoreFile)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			switch filepath.Clean(event.Name) {
			case filepath.Clean(manifestPath):
				w.logIntentManifest()
			case filepath.Clean(ignorePath):
				w.logger.Info("ignore list changed", logger.File(intent.IgnoreFile))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("workspace watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) logIntentManifest() {
	intents, err := intent.LoadManifest(w.workspaceRoot)
	if err != nil {
		w.logger.Warn("intent manifest changed but is unreadable", zap.Error(err))
		return
	}

	ids := make([]string, 0, len(intents))
	for _, in := range intents {
		ids = append(ids, in.ID)
	}
	w.logger.Info("intent manifest changed",
		zap.Int("intents", len(ids)),
		zap.Strings("ids", ids),
	)
}
