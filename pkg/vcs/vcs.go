// Package vcs provides read-only probes of the workspace version control
// system. Every probe degrades to an absent value: a missing git binary, a
// non-repository workspace, or a timed-out subprocess all look the same to
// callers as "no VCS information available".
package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// probeTimeout bounds every git subprocess. An expired probe reports absent.
const probeTimeout = 5 * time.Second

// CurrentRevision returns the revision currently checked out in the
// workspace, or "" when the workspace is not a repository or the probe fails.
func CurrentRevision(workspaceRoot string) string {
	if !hasMetadataDir(workspaceRoot) {
		return ""
	}
	out, ok := runGit(workspaceRoot, "rev-parse", "HEAD")
	if !ok {
		return ""
	}
	return out
}

// CurrentBranch returns the checked-out branch name, or "" when detached or
// when the probe fails.
func CurrentBranch(workspaceRoot string) string {
	if !hasMetadataDir(workspaceRoot) {
		return ""
	}
	out, ok := runGit(workspaceRoot, "rev-parse", "--abbrev-ref", "HEAD")
	if !ok || out == "HEAD" {
		return ""
	}
	return out
}

// FileAtHead returns the committed content of relativePath at HEAD.
// The second return is false when the file is not tracked, the workspace is
// not a repository, or the probe fails.
func FileAtHead(workspaceRoot, relativePath string) (string, bool) {
	if !hasMetadataDir(workspaceRoot) {
		return "", false
	}
	ref := "HEAD:" + filepath.ToSlash(relativePath)
	return runGitRaw(workspaceRoot, "show", ref)
}

// hasMetadataDir reports whether a .git metadata entry exists under root.
// Worktrees keep a .git file instead of a directory, so any entry counts.
func hasMetadataDir(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}

// runGit runs a git subcommand in root and returns its trimmed stdout.
func runGit(root string, args ...string) (string, bool) {
	out, ok := runGitRaw(root, args...)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// runGitRaw runs a git subcommand in root and returns stdout verbatim.
func runGitRaw(root string, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	full := append([]string{"-C", root}, args...)
	out, err := exec.CommandContext(ctx, "git", full...).Output()
	if err != nil {
		return "", false
	}
	return string(out), true
}
