package buffer

import "github.com/standardbeagle/scite-core/internal/pathmodel"

// RecentFile records a closed or previously-opened document's position so it
// can be resumed later (spec §3).
type RecentFile struct {
	Path      pathmodel.Path
	Selection SelectionRange
	ScrollTop int
}

// RecentFiles is the bounded, most-recently-used stack behind the File >
// MRU menu and session persistence (spec §3).
type RecentFiles struct {
	capacity int
	entries  []RecentFile
}

// NewRecentFiles creates a RecentFiles list bounded to capacity entries.
func NewRecentFiles(capacity int) *RecentFiles {
	if capacity <= 0 {
		capacity = 10
	}
	return &RecentFiles{capacity: capacity}
}

// Push records entry at the head of the list, moving an existing entry for
// the same path to the head instead of duplicating it.
func (r *RecentFiles) Push(entry RecentFile) {
	for i, e := range r.entries {
		if pathmodel.Equal(e.Path, entry.Path) {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	r.entries = append([]RecentFile{entry}, r.entries...)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
}

// Entries returns the MRU list, head first.
func (r *RecentFiles) Entries() []RecentFile {
	out := make([]RecentFile, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of tracked entries.
func (r *RecentFiles) Len() int { return len(r.entries) }
