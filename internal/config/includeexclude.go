package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IncludeExclude holds the include/exclude glob lists that gate which files
// a directory-scan or session-restore operation considers, grounded on
// internal/config/kdl_config.go's Include/Exclude lists and
// internal/indexing/watcher.go's shouldProcessPath, which both use
// doublestar for pattern matching (Domain Stack: doublestar wired into
// config include/exclude as well as props wildcard matching).
type IncludeExclude struct {
	Include []string
	Exclude []string
}

// Match reports whether relPath should be considered: it must match at
// least one Include pattern (or Include is empty, meaning "everything"),
// and must not match any Exclude pattern.
func (ie IncludeExclude) Match(relPath string) bool {
	relPath = filepathToSlash(relPath)
	if matchesAny(ie.Exclude, relPath) {
		return false
	}
	if len(ie.Include) == 0 {
		return true
	}
	return matchesAny(ie.Include, relPath)
}

func matchesAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
