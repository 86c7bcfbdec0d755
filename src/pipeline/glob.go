package pipeline

import (
	"path"
	"path/filepath"
	"strings"
)

// matchGlob extends path.Match with "**" (zero or more path segments).
func matchGlob(pattern, p string) bool {
	if !strings.Contains(pattern, "**") {
		matched, _ := path.Match(pattern, p)
		return matched
	}

	idx := strings.Index(pattern, "**")
	prefix := strings.TrimRight(pattern[:idx], "/")
	suffix := strings.TrimLeft(pattern[idx+2:], "/")

	if prefix != "" {
		// The prefix may itself hold wildcards: match it against the same
		// number of leading segments.
		n := strings.Count(prefix, "/") + 1
		parts := strings.Split(p, "/")
		if len(parts) < n {
			return false
		}
		if ok, _ := path.Match(prefix, strings.Join(parts[:n], "/")); !ok {
			return false
		}
		p = strings.Join(parts[n:], "/")
	}

	if suffix == "" {
		return true
	}

	// Try the suffix against every tail: "a/b/c", "b/c", "c".
	parts := strings.Split(p, "/")
	for i := 0; i <= len(parts); i++ {
		if matchGlob(suffix, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

// matchesAny reports whether rel matches one of patterns. Patterns holding
// "/" or "**" match the whole slash path; others match the base name only.
func matchesAny(patterns []string, rel string) bool {
	norm := strings.TrimPrefix(filepath.ToSlash(rel), "./")
	base := path.Base(norm)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		target := base
		if strings.Contains(pattern, "/") || strings.Contains(pattern, "**") {
			target = norm
		}
		if matchGlob(pattern, target) {
			return true
		}
	}
	return false
}
