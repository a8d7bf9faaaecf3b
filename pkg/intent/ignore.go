package intent

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// IgnoreFile is the workspace-relative disabled-intent list.
const IgnoreFile = ".intentignore"

// IgnoreCache answers "is this intent disabled?" from .intentignore. Entries
// are cached per workspace and invalidated by file mtime, so an edit to the
// list takes effect on the next lookup without a process restart.
type IgnoreCache struct {
	mu      sync.Mutex
	entries map[string]ignoreEntry
}

type ignoreEntry struct {
	mtime time.Time
	ids   map[string]struct{}
}

// NewIgnoreCache creates an empty cache.
func NewIgnoreCache() *IgnoreCache {
	return &IgnoreCache{entries: make(map[string]ignoreEntry)}
}

// IsIgnored reports whether intentID is listed in the workspace ignore file.
// A missing file means nothing is ignored.
func (c *IgnoreCache) IsIgnored(workspaceRoot, intentID string) bool {
	ids := c.load(workspaceRoot)
	_, ok := ids[intentID]
	return ok
}

func (c *IgnoreCache) load(workspaceRoot string) map[string]struct{} {
	path := filepath.Join(workspaceRoot, IgnoreFile)

	info, err := os.Stat(path)
	if err != nil {
		c.mu.Lock()
		delete(c.entries, workspaceRoot)
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	cached, ok := c.entries[workspaceRoot]
	c.mu.Unlock()
	if ok && cached.mtime.Equal(info.ModTime()) {
		return cached.ids
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	ids := parseIgnoreList(string(data))

	c.mu.Lock()
	c.entries[workspaceRoot] = ignoreEntry{mtime: info.ModTime(), ids: ids}
	c.mu.Unlock()

	return ids
}

// parseIgnoreList splits on CR/LF, trims, and drops blanks and # comments.
// Matching is exact id equality; patterns are a forward-compatible extension.
func parseIgnoreList(content string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, line := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == '\r'
	}) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids[line] = struct{}{}
	}
	return ids
}
