package adapter

import "strings"

// IsSelect reports whether a statement produces a result set, so callers
// can route it to Query instead of Exec. Leading line and block comments
// are skipped before the keyword check.
func IsSelect(query string) bool {
	q := strings.TrimSpace(query)
	// Strip leading comments (-- and /* */)
	for {
		if strings.HasPrefix(q, "--") {
			if idx := strings.Index(q, "\n"); idx >= 0 {
				q = strings.TrimSpace(q[idx+1:])
				continue
			}
			return false
		}
		if strings.HasPrefix(q, "/*") {
			if idx := strings.Index(q, "*/"); idx >= 0 {
				q = strings.TrimSpace(q[idx+2:])
				continue
			}
			return false
		}
		break
	}
	upper := strings.ToUpper(q)
	for _, prefix := range []string{
		"SELECT", "WITH", "VALUES", "TABLE", "SHOW",
		"EXPLAIN", "DESCRIBE", "DESC", "PRAGMA",
	} {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}
