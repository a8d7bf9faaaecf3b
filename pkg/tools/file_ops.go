package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/task"
)

// ReadFileTool returns the tool for reading workspace files. Every read
// refreshes the task's fingerprint for the file, arming the optimistic lock
// for the next write.
func ReadFileTool() *Tool {
	return &Tool{
		Name:        ToolReadFile,
		Description: "Read the contents of a file in the workspace",
		Capability:  Safe,
		Schema: Schema{
			Required: []string{ParamPath},
			Properties: map[string]Property{
				ParamPath: {
					Type:        "string",
					Description: "The file path to read, relative to the working directory",
				},
			},
		},
		Execute: executeReadFile,
	}
}

func executeReadFile(_ context.Context, t *task.Task, params map[string]any) (string, error) {
	path, _ := params[ParamPath].(string)
	if path == "" {
		return "", fmt.Errorf("%s is required", ParamPath)
	}

	data, err := os.ReadFile(t.Abs(path))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)

	if rel, relErr := t.WorkspaceRelative(path); relErr == nil {
		t.Tracker.Store(rel, content)
	}

	return content, nil
}

// WriteFileTool returns the tool for writing workspace files. Writes to an
// existing file are optimistic-locked: if the on-disk content no longer
// matches the task's last-observed fingerprint, the write aborts with a
// stale_file payload and the agent must re-read before retrying.
func WriteFileTool() *Tool {
	return &Tool{
		Name:        ToolWriteFile,
		Description: "Write content to a file in the workspace, creating it if needed",
		Capability:  Destructive,
		Schema: Schema{
			Required: []string{ParamPath, ParamContent},
			Properties: map[string]Property{
				ParamPath: {
					Type:        "string",
					Description: "The file path to write, relative to the working directory",
				},
				ParamContent: {
					Type:        "string",
					Description: "The full new content of the file",
				},
				ParamIntentID: {
					Type:        "string",
					Description: "The intent this mutation belongs to (defaults to the task's active intent)",
				},
				ParamMutationClass: {
					Type:        "string",
					Description: "Optional declared mutation class: AST_REFACTOR or INTENT_EVOLUTION",
				},
			},
		},
		Execute: executeWriteFile,
	}
}

func executeWriteFile(_ context.Context, t *task.Task, params map[string]any) (string, error) {
	path, _ := params[ParamPath].(string)
	if path == "" {
		return "", fmt.Errorf("%s is required", ParamPath)
	}
	content, ok := params[ParamContent].(string)
	if !ok {
		return "", fmt.Errorf("%s is required", ParamContent)
	}

	abs := t.Abs(path)
	rel, err := t.WorkspaceRelative(path)
	if err != nil {
		return "", err
	}

	current, err := os.ReadFile(abs)
	switch {
	case err == nil:
		if !t.Tracker.Unchanged(rel, string(current)) {
			return "", hooks.NewToolError(ToolWriteFile, hooks.ReasonStaleFile,
				fmt.Sprintf("%s changed on disk since it was last read; read it again before writing", rel),
			).WithFile(rel)
		}
	case errors.Is(err, os.ErrNotExist):
		// New file; first writes are never blocked.
	default:
		return "", fmt.Errorf("reading current content of %s: %w", rel, err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("creating parent directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", rel, err)
	}

	t.Tracker.Store(rel, content)

	return fmt.Sprintf("Wrote %d bytes to %s", len(content), rel), nil
}
