package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/standardbeagle/scite-core/internal/buffer"
	scerrors "github.com/standardbeagle/scite-core/internal/errors"
	"github.com/standardbeagle/scite-core/internal/pathmodel"
	"github.com/standardbeagle/scite-core/internal/props"
)

// SessionStore persists the open-buffer list and cursor/scroll positions
// between runs as a `.properties`-grammar file (spec §C "Session files"),
// following the original's LoadSession/SaveSession key layout: buffer.N.path,
// buffer.N.scroll, buffer.N.selection.start/end, plus buffer.count and
// buffer.current for the whole set.
type SessionStore struct{}

// NewSessionStore returns a ready SessionStore; it carries no state of its
// own beyond the path it is pointed at per call.
func NewSessionStore() *SessionStore { return &SessionStore{} }

// Load reads a session file at path and returns the ordered list of
// RecentFile entries it describes, with the index of the entry that was
// current when the session was saved ("ephemeral" entries — buffers that
// were never saved to a real path — are skipped, matching the original).
func (SessionStore) Load(path string) ([]buffer.RecentFile, int, error) {
	ps := props.New(false)
	if _, ok := ps.ReadFile(path, ""); !ok {
		return nil, 0, scerrors.NewIoError("load session", path, os.ErrNotExist)
	}

	count := ps.GetInt("buffer.count", 0)
	current := ps.GetInt("buffer.current", 0)

	entries := make([]buffer.RecentFile, 0, count)
	for i := 0; i < count; i++ {
		raw := ps.Get(fmt.Sprintf("buffer.%d.path", i))
		if raw == "" {
			continue
		}
		p, err := pathmodel.Absolute(raw)
		if err != nil {
			continue
		}
		entries = append(entries, buffer.RecentFile{
			Path: p,
			Selection: buffer.SelectionRange{
				Start: ps.GetInt(fmt.Sprintf("buffer.%d.selection.start", i), 0),
				End:   ps.GetInt(fmt.Sprintf("buffer.%d.selection.end", i), 0),
			},
			ScrollTop: ps.GetInt(fmt.Sprintf("buffer.%d.scroll", i), 0),
		})
	}
	return entries, current, nil
}

// Save writes every non-untitled open buffer in bufs to path, in set order,
// recording its path, selection and scroll position plus which index was
// current (spec §C).
func (SessionStore) Save(path string, bufs *buffer.Set) error {
	var b strings.Builder
	n := 0
	current := 0
	for i := 0; i < bufs.Len(); i++ {
		buf := bufs.At(i)
		if buf.IsUntitled() {
			continue
		}
		if i == bufs.Current() {
			current = n
		}
		fmt.Fprintf(&b, "buffer.%d.path=%s\n", n, buf.Path.String())
		fmt.Fprintf(&b, "buffer.%d.selection.start=%d\n", n, buf.Selection.Start)
		fmt.Fprintf(&b, "buffer.%d.selection.end=%d\n", n, buf.Selection.End)
		fmt.Fprintf(&b, "buffer.%d.scroll=%d\n", n, buf.ScrollTop)
		n++
	}
	fmt.Fprintf(&b, "buffer.count=%d\n", n)
	fmt.Fprintf(&b, "buffer.current=%d\n", current)

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return scerrors.NewIoError("save session", path, err)
	}
	return nil
}
