package buffer

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/scite-core/internal/debug"
	"github.com/standardbeagle/scite-core/internal/pathmodel"
)

// ReloadWatcher watches the directories containing open buffers and feeds a
// debounced reload-check queue, grounded on the teacher's FileWatcher
// (internal/indexing/watcher.go): a raw fsnotify.Watcher plus a small
// debounce stage, rather than polling os.Stat on every window activation
// (spec §4.3 "Reload detection").
type ReloadWatcher struct {
	watcher *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	watched map[string]bool

	onChanged func(path pathmodel.Path)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReloadWatcher creates a watcher that calls onChanged (debounced by
// debounce) whenever a watched directory reports a write/create event.
func NewReloadWatcher(debounce time.Duration, onChanged func(path pathmodel.Path)) (*ReloadWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	rw := &ReloadWatcher{
		watcher:   w,
		debounce:  debounce,
		watched:   make(map[string]bool),
		onChanged: onChanged,
		ctx:       ctx,
		cancel:    cancel,
	}
	rw.wg.Add(1)
	go rw.run()
	return rw, nil
}

// WatchBuffer ensures the directory containing b's path is watched. A no-op
// for untitled buffers and directories already under watch.
func (rw *ReloadWatcher) WatchBuffer(b *Buffer) error {
	if b.IsUntitled() {
		return nil
	}
	dir := b.Path.Directory()
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.watched[dir] {
		return nil
	}
	if err := rw.watcher.Add(dir); err != nil {
		return err
	}
	rw.watched[dir] = true
	debug.LogBuffer("watching directory %s for reload-on-activate", dir)
	return nil
}

func (rw *ReloadWatcher) run() {
	defer rw.wg.Done()
	pending := make(map[string]*time.Timer)
	var pendingMu sync.Mutex
	for {
		select {
		case <-rw.ctx.Done():
			pendingMu.Lock()
			for _, t := range pending {
				t.Stop()
			}
			pendingMu.Unlock()
			return
		case ev, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p, err := pathmodel.Absolute(ev.Name)
			if err != nil {
				continue
			}
			pendingMu.Lock()
			if t, exists := pending[p.String()]; exists {
				t.Stop()
			}
			pending[p.String()] = time.AfterFunc(rw.debounce, func() {
				if rw.onChanged != nil {
					rw.onChanged(p)
				}
			})
			pendingMu.Unlock()
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			debug.LogBuffer("reload watcher error: %v", err)
		}
	}
}

// Close stops the watcher and releases its fsnotify resources.
func (rw *ReloadWatcher) Close() error {
	rw.cancel()
	err := rw.watcher.Close()
	rw.wg.Wait()
	return err
}
