package buffer

import (
	"context"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/scite-core/internal/debug"
	scerrors "github.com/standardbeagle/scite-core/internal/errors"
	"github.com/standardbeagle/scite-core/internal/pathmodel"
	"github.com/standardbeagle/scite-core/internal/props"
)

// DefaultCapacity mirrors SciTE's default buffer-count limit (spec §3: 10-100).
const DefaultCapacity = 20

// Saver persists one buffer's text to disk. The caller's widget owns the
// text itself (spec §1 Non-goals); BufferSet only sequences the calls.
type Saver func(ctx context.Context, b *Buffer) error

// Set is a fixed-capacity, ring-managed collection of Buffers with LRU
// ordering and a recent-files stack (spec §3, §4.3).
type Set struct {
	capacity int
	base     *props.Store
	buffers  []*Buffer
	current  int
	lru      []int

	// pathIndex maps an xxhash of the canonical path string to candidate
	// buffer indices, mirroring the teacher's hashed lookup keys.
	pathIndex map[uint64][]int

	Recent *RecentFiles
}

// New creates a Set with one empty untitled buffer, as the editor always
// starts with (and is never left without one, spec §4.3).
func New(capacity int, base *props.Store) *Set {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Set{
		capacity:  capacity,
		base:      base,
		pathIndex: make(map[uint64][]int),
		Recent:    NewRecentFiles(10),
	}
	s.appendNew()
	return s
}

func pathHash(p pathmodel.Path) uint64 {
	return xxhash.Sum64String(p.String())
}

func (s *Set) appendNew() int {
	b := NewEmpty(s.base)
	idx := len(s.buffers)
	s.buffers = append(s.buffers, b)
	s.lru = append([]int{idx}, s.lru...)
	s.current = idx
	return idx
}

// Len returns the number of open buffers.
func (s *Set) Len() int { return len(s.buffers) }

// Current returns the index of the focused buffer.
func (s *Set) Current() int { return s.current }

// At returns the buffer at index i.
func (s *Set) At(i int) *Buffer { return s.buffers[i] }

// CurrentBuffer returns the focused buffer.
func (s *Set) CurrentBuffer() *Buffer { return s.buffers[s.current] }

// indexPath records idx under p's hash bucket.
func (s *Set) indexPath(idx int, p pathmodel.Path) {
	if p.IsUntitled() {
		return
	}
	h := pathHash(p)
	s.pathIndex[h] = append(s.pathIndex[h], idx)
}

func (s *Set) unindexPath(idx int, p pathmodel.Path) {
	if p.IsUntitled() {
		return
	}
	h := pathHash(p)
	bucket := s.pathIndex[h]
	for i, v := range bucket {
		if v == idx {
			s.pathIndex[h] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
}

// FindByPath returns the index of an open buffer at p, respecting the host's
// path case policy (spec §4.3).
func (s *Set) FindByPath(p pathmodel.Path) (int, bool) {
	if p.IsUntitled() {
		return 0, false
	}
	for _, idx := range s.pathIndex[pathHash(p)] {
		if pathmodel.Equal(s.buffers[idx].Path, p) {
			return idx, true
		}
	}
	return 0, false
}

// Add appends a new empty buffer and makes it current. Returns an error if
// the set is already at capacity.
func (s *Set) Add() (int, error) {
	if len(s.buffers) >= s.capacity {
		return 0, scerrors.NewConfigError("buffer.count", "", errAtCapacity)
	}
	idx := s.appendNew()
	debug.LogBuffer("added buffer %d (len=%d)", idx, len(s.buffers))
	return idx, nil
}

// Open either selects an already-open buffer at p or adds a new one bound to
// it, implementing the dedup contract of spec §4.3 and scenario S3.
func (s *Set) Open(p pathmodel.Path) (int, error) {
	if idx, ok := s.FindByPath(p); ok {
		s.SetCurrent(idx)
		return idx, nil
	}
	// Only reuse the current buffer in place once the set is already at
	// capacity (mirroring SciTEBase::Open's "buffers.size == buffers.length"
	// branch); otherwise an untitled/clean current buffer still gets to
	// stay open alongside the newly opened one (spec §8 scenario S3).
	cur := s.CurrentBuffer()
	if cur.IsUntitled() && !cur.Dirty && s.Len() == s.capacity {
		cur.Path = p
		s.indexPath(s.current, p)
		return s.current, nil
	}
	idx, err := s.Add()
	if err != nil {
		return 0, err
	}
	s.buffers[idx].Path = p
	s.indexPath(idx, p)
	return idx, nil
}

// removeLRU deletes idx from the LRU stack.
func (s *Set) removeLRU(idx int) {
	for i, v := range s.lru {
		if v == idx {
			s.lru = append(s.lru[:i], s.lru[i+1:]...)
			return
		}
	}
}

// shiftIndicesAbove decrements every recorded index greater than removed, to
// track the slice compaction Close performs.
func (s *Set) shiftIndicesAbove(removed int) {
	for i := range s.lru {
		if s.lru[i] > removed {
			s.lru[i]--
		}
	}
	for h, bucket := range s.pathIndex {
		for i, v := range bucket {
			if v > removed {
				bucket[i] = v - 1
			}
		}
		s.pathIndex[h] = bucket
	}
}

// Close releases buffer idx. If it was the last open buffer, a fresh empty
// untitled buffer replaces it so the set is never empty (spec §4.3).
func (s *Set) Close(idx int) {
	if idx < 0 || idx >= len(s.buffers) {
		return
	}
	p := s.buffers[idx].Path
	s.unindexPath(idx, p)
	s.buffers = append(s.buffers[:idx], s.buffers[idx+1:]...)
	s.removeLRU(idx)
	s.shiftIndicesAbove(idx)

	if len(s.buffers) == 0 {
		s.appendNew()
		return
	}
	if s.current >= len(s.buffers) {
		s.current = len(s.buffers) - 1
	}
	if len(s.lru) > 0 {
		s.current = s.lru[0]
	}
	debug.LogBuffer("closed buffer %d (len=%d)", idx, len(s.buffers))
}

// SetCurrent focuses idx and pushes it to the head of the LRU stack.
func (s *Set) SetCurrent(idx int) {
	if idx < 0 || idx >= len(s.buffers) {
		return
	}
	s.current = idx
	s.removeLRU(idx)
	s.lru = append([]int{idx}, s.lru...)
}

// Next rotates current forward, wrapping at the end.
func (s *Set) Next() {
	s.SetCurrent((s.current + 1) % len(s.buffers))
}

// Prev rotates current backward, wrapping at the start.
func (s *Set) Prev() {
	s.SetCurrent((s.current - 1 + len(s.buffers)) % len(s.buffers))
}

// SaveAllBackground saves every buffer with unsaved edits concurrently via
// an errgroup, mirroring the Domain Stack's use of golang.org/x/sync for
// fan-out background work. Each buffer's PendingSave flag is set before its
// task starts and cleared when it finishes, successfully or not.
func (s *Set) SaveAllBackground(ctx context.Context, save Saver) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, b := range s.buffers {
		if !b.Dirty || b.IsUntitled() {
			continue
		}
		b := b
		b.PendingSave = true
		g.Go(func() error {
			defer func() { b.PendingSave = false }()
			if err := save(gctx, b); err != nil {
				return scerrors.NewIoError("save", b.Path.String(), err)
			}
			b.Dirty = false
			return nil
		})
	}
	return g.Wait()
}

type staticErr string

func (e staticErr) Error() string { return string(e) }

const errAtCapacity = staticErr("buffer set at capacity")
