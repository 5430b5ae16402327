// Package pathmodel implements Path, the engine's immutable, fully-resolved
// filesystem path value (spec §3, §4.1).
package pathmodel

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// caseSensitive mirrors the original PropSetFile's caseSensitiveFilenames
// switch: case-sensitive on POSIX hosts other than macOS,
// case-preserving/insensitive on Windows and macOS. Fixed at process start.
var caseSensitive = runtime.GOOS != "windows" && runtime.GOOS != "darwin"

// Path is an immutable, fully-resolved path. The zero value represents
// Untitled.
type Path struct {
	full string
}

// Untitled is the empty Path representing an unsaved, unnamed buffer.
var Untitled = Path{}

// Absolute resolves raw against the current working directory and returns
// the canonicalised Path. An empty raw string yields Untitled.
func Absolute(raw string) (Path, error) {
	if raw == "" {
		return Untitled, nil
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return Path{}, err
	}
	return Path{full: filepath.Clean(abs)}, nil
}

// Join builds a Path by joining a directory and a file name.
func Join(dir, name string) (Path, error) {
	return Absolute(filepath.Join(dir, name))
}

// IsUntitled reports whether p represents an unsaved document.
func (p Path) IsUntitled() bool {
	return p.full == ""
}

// String returns the canonical path string ("" for Untitled).
func (p Path) String() string {
	return p.full
}

// Directory returns the directory component.
func (p Path) Directory() string {
	if p.IsUntitled() {
		return ""
	}
	return filepath.Dir(p.full)
}

// Name returns the file name component, including its extension.
func (p Path) Name() string {
	if p.IsUntitled() {
		return ""
	}
	return filepath.Base(p.full)
}

// Extension returns the file extension, without the leading dot.
func (p Path) Extension() string {
	ext := filepath.Ext(p.Name())
	return strings.TrimPrefix(ext, ".")
}

// ModifiedTime reports the on-disk modification time. The second return
// value is false if the path is untitled or does not exist.
func (p Path) ModifiedTime() (time.Time, bool) {
	if p.IsUntitled() {
		return time.Time{}, false
	}
	info, err := os.Stat(p.full)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Exists reports whether the path currently exists on disk.
func (p Path) Exists() bool {
	if p.IsUntitled() {
		return false
	}
	_, err := os.Stat(p.full)
	return err == nil
}

// Equal compares two paths respecting the host's case policy. Two Untitled
// paths are never equal to one another (each unsaved buffer is distinct).
func Equal(a, b Path) bool {
	if a.IsUntitled() || b.IsUntitled() {
		return false
	}
	if caseSensitive {
		return a.full == b.full
	}
	return strings.EqualFold(a.full, b.full)
}

// ToRelative renders p relative to root for display, falling back to the
// absolute form when p falls outside root.
func ToRelative(p Path, root string) string {
	if p.IsUntitled() || root == "" {
		return p.full
	}
	rel, err := filepath.Rel(filepath.Clean(root), p.full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p.full
	}
	return rel
}
