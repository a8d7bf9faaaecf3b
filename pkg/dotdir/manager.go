// Package dotdir manages the .reins/ and ~/.reins directories that hold the
// tool's own configuration, as distinct from the workspace's .orchestration/
// state which belongs to the mediated contract.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the reins directory.
	dirName = ".reins"

	// indexFile is the sqlite trace index kept alongside config.toml. The
	// workspace ledger stays authoritative; this file is rebuildable.
	indexFile = "trace.db"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .reins/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.reins/ dir
//  3. Home ~/.reins/ dir
//  4. If none found, attempt to create ~/.reins/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reins directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// IndexPath returns the default location of the sqlite trace index inside
// the resolved .reins/ directory. Used when no explicit index path is
// configured, so repeated syncs reuse one index file; its location follows
// Target's resolution, not the workspace being indexed.
func (m *Manager) IndexPath(overrideDir string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, indexFile), nil
}

// localDirExists checks whether a .reins/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
