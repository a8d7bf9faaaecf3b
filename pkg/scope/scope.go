// Package scope decides whether a workspace-relative path falls inside an
// intent's owned scope. Patterns are path prefixes with an optional /* or /**
// suffix; matching is containment, not glob expansion.
package scope

import (
	"strings"
)

// Normalize converts a path to forward slashes and trims surrounding
// whitespace so patterns written on Windows and POSIX agree. Backslashes are
// rewritten unconditionally; ledger paths are forward-slash by contract
// regardless of the host separator.
func Normalize(p string) string {
	return strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
}

// IsWithin reports whether relativePath is contained by any pattern in
// ownedScope. An empty ownedScope declares no constraint; callers skip the
// check entirely rather than treating it as deny-all.
func IsWithin(relativePath string, ownedScope []string) bool {
	rel := strings.TrimPrefix(Normalize(relativePath), "./")

	for _, pattern := range ownedScope {
		base := Normalize(pattern)
		base = strings.TrimSuffix(base, "/**")
		base = strings.TrimSuffix(base, "/*")
		base = strings.TrimPrefix(base, "./")

		// A pattern that reduces to nothing must not match everything.
		if base == "" {
			continue
		}

		if rel == base || strings.HasPrefix(rel, base+"/") {
			return true
		}
	}

	return false
}
