package director

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/scite-core/internal/debug"
	scerrors "github.com/standardbeagle/scite-core/internal/errors"
)

// MaxNotifyPipes bounds the notify-pipe table (spec §3, §5 "fixed table
// (capacity 20)").
const MaxNotifyPipes = 20

// Dispatcher handles a verb other than "closing"/"register", the host
// command API referenced by spec §4.8. result is written back to the
// correspondent, if any.
type Dispatcher func(verb, argument string) (result string)

// notifyEntry is one registered broadcast target. seq records registration
// order so Broadcast can deliver in that order (spec §4.8, §8 invariant 8)
// regardless of map iteration order.
type notifyEntry struct {
	path    string
	file    *os.File
	autogen bool
	seq     int
}

// Director is the IPC endpoint: a request pipe, a table of registered
// notify pipes, and correspondent reply handling (spec §4.8).
type Director struct {
	mu sync.Mutex

	tmpDir  string
	pid     int
	seq     int
	dispatch Dispatcher

	requestPath    string
	requestAutogen bool
	requestFile    *os.File

	// directorPipe is the optional external director's own notify pipe,
	// supplied via the ipc.director.name property (spec §4.8).
	directorPipe   *os.File
	startedByDirector bool

	notify map[uint64]*notifyEntry

	done chan struct{}
}

func notifyKey(path string) uint64 { return xxhash.Sum64String(path) }

// sortBySeq orders entries by registration sequence, undoing the randomness
// of Go's map iteration so Broadcast delivers in registration order.
func sortBySeq(entries []*notifyEntry) []*notifyEntry {
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	return entries
}

// New creates an idle Director. pid identifies this process in pipe names
// (<tmpdir>/SciTE.<pid>.in etc, spec §4.8).
func New(tmpDir string, pid int, dispatch Dispatcher) *Director {
	return &Director{
		tmpDir:   tmpDir,
		pid:      pid,
		dispatch: dispatch,
		notify:   make(map[uint64]*notifyEntry),
		done:     make(chan struct{}),
	}
}

// SetDispatcher installs the host-command callback used for every verb
// other than "closing"/"register". Safe to call before or after Initialise.
func (d *Director) SetDispatcher(dispatch Dispatcher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatch = dispatch
}

// Initialise opens (creating if needed) the request pipe and, if
// directorPipeName is non-empty, the external director's notify pipe too.
// If startedByDirector is true and the request pipe could not be created,
// it returns an error the caller should translate into exit code 3
// (spec §6 "Exit codes", DESIGN.md bootstrap decision).
func (d *Director) Initialise(requestPipeName, directorPipeName string) error {
	d.mu.Lock()
	d.startedByDirector = directorPipeName != ""
	d.mu.Unlock()

	if directorPipeName != "" {
		f, err := openFifoNonblockWrite(directorPipeName)
		if err == nil {
			d.mu.Lock()
			d.directorPipe = f
			d.notify[notifyKey(directorPipeName)] = &notifyEntry{path: directorPipeName, file: f}
			d.mu.Unlock()
		}
	}

	path := requestPipeName
	autogen := path == ""
	if autogen {
		path = filepath.Join(d.tmpDir, fmt.Sprintf("SciTE.%d.in", d.pid))
	}
	if err := makeFifo(path); err != nil {
		if d.startedByDirector {
			return scerrors.NewIoError("create request pipe", path, err)
		}
	}
	f, err := openFifoNonblockRW(path)
	if err != nil {
		if d.startedByDirector {
			return scerrors.NewIoError("open request pipe", path, err)
		}
		return nil
	}

	d.mu.Lock()
	d.requestPath = path
	d.requestAutogen = autogen
	d.requestFile = f
	d.mu.Unlock()

	go d.readLoop(f)
	return nil
}

// readPollInterval is the backoff used while polling a non-blocking request
// pipe for readable data, mirroring toolrunner's pollInterval and spec §5's
// "pipes are opened with non-blocking flags where reads are polled".
const readPollInterval = 20 * time.Millisecond

// readLoop is the main-loop-driven read side of spec §5 ("Director reads
// are dispatched from the UI thread on pipe-readable events"); here it
// runs on its own goroutine and calls HandleLine synchronously per complete
// message, preserving per-connection receive order (spec §5 "Ordering
// guarantees"). The request pipe is opened non-blocking (pipe_unix.go), so a
// read with no data ready returns EAGAIN immediately rather than blocking;
// readLoop polls it on a short interval instead of busy-spinning, and keeps
// any line fragment read before a poll gap in pending until its terminating
// newline arrives — ReadString would otherwise discard that fragment.
func (d *Director) readLoop(f *os.File) {
	var pending []byte
	chunk := make([]byte, 4096)
	for {
		select {
		case <-d.done:
			return
		default:
		}
		n, err := f.Read(chunk)
		if n > 0 {
			pending = append(pending, chunk[:n]...)
			for {
				idx := bytes.IndexByte(pending, '\n')
				if idx < 0 {
					break
				}
				d.HandleLine(string(pending[:idx+1]))
				pending = pending[idx+1:]
			}
			continue
		}
		if err != nil {
			select {
			case <-d.done:
				return
			case <-time.After(readPollInterval):
			}
		}
	}
}

// HandleLine processes one or more messages found in raw (spec §4.8
// "Multiple messages may arrive in one read").
func (d *Director) HandleLine(raw string) {
	for _, msg := range ParseMessages(raw) {
		d.handle(msg)
	}
}

func (d *Director) handle(msg Message) {
	switch msg.Verb {
	case "closing":
		d.mu.Lock()
		d.directorPipe = nil
		started := d.startedByDirector
		d.mu.Unlock()
		if started {
			debug.LogDirector("director closed; beginning shutdown")
		}
	case "register":
		d.handleRegister(msg.Correspondent)
	default:
		d.mu.Lock()
		dispatch := d.dispatch
		d.mu.Unlock()
		result := ""
		if dispatch != nil {
			result = dispatch(msg.Verb, msg.Argument)
		}
		if msg.Correspondent != "" && result != "" {
			d.replyTo(msg.Correspondent, result)
		}
	}
}

// handleRegister allocates a new notify pipe and writes its path to the
// correspondent file (spec §4.8 "register"). If the table is full, it
// writes "*" instead, matching the original's SendPipeAvailable check.
func (d *Director) handleRegister(correspondent string) {
	if correspondent == "" {
		debug.LogDirector("register: missing correspondent address")
		return
	}
	d.mu.Lock()
	full := len(d.notify) >= MaxNotifyPipes-1
	d.mu.Unlock()

	if full {
		d.writeCorrespondentFile(correspondent, "*")
		return
	}

	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()
	pipePath := filepath.Join(d.tmpDir, fmt.Sprintf("SciTE.%d.%d.out", d.pid, seq))

	if err := makeFifo(pipePath); err != nil {
		debug.LogDirector("register: failed to create notify pipe %s: %v", pipePath, err)
		return
	}
	f, err := openFifoNonblockRW(pipePath)
	if err != nil {
		debug.LogDirector("register: failed to open notify pipe %s: %v", pipePath, err)
		return
	}

	d.mu.Lock()
	d.notify[notifyKey(pipePath)] = &notifyEntry{path: pipePath, file: f, autogen: true, seq: seq}
	d.mu.Unlock()

	d.writeCorrespondentFile(correspondent, pipePath)
}

func (d *Director) writeCorrespondentFile(path, content string) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0700)
	if err != nil {
		debug.LogDirector("cannot open correspondent file %s: %v", path, err)
		return
	}
	defer f.Close()
	fmt.Fprintln(f, content)
}

// replyTo opens correspondent (a pipe this process did not create) and
// writes result, matching the original's ad-hoc correspondent pipes.
func (d *Director) replyTo(correspondent, result string) {
	f, err := openFifoNonblockWrite(correspondent)
	if err != nil {
		debug.LogDirector("cannot open correspondent pipe %s: %v", correspondent, err)
		return
	}
	defer f.Close()
	fmt.Fprintln(f, result)
}

// Broadcast sends "verb:argument\n" to every registered notify pipe, in
// registration order. A pipe whose write fails is logged and skipped, never
// partially written (spec §8 invariant 8); the aggregate failure is
// returned as a MultiError so callers can inspect it, though the broadcast
// itself never blocks on a dead subscriber (spec §4.8 "best-effort").
func (d *Director) Broadcast(verb, argument string) error {
	line := Format(verb, argument)
	d.mu.Lock()
	entries := make([]*notifyEntry, 0, len(d.notify))
	for _, e := range d.notify {
		entries = append(entries, e)
	}
	entries = sortBySeq(entries)
	d.mu.Unlock()

	var errs []error
	for _, e := range entries {
		if _, err := fmt.Fprintln(e.file, line); err != nil {
			errs = append(errs, scerrors.NewIoError("notify write", e.path, err))
			debug.LogDirector("notify write to %s failed: %v", e.path, err)
		}
	}
	if merr := scerrors.NewMultiError(errs); merr != nil {
		return merr
	}
	return nil
}

// Finalise emits "closing", closes/removes every notify pipe this process
// created, and removes the request pipe if it was auto-generated
// (spec §4.8 "Lifecycle").
func (d *Director) Finalise() {
	close(d.done)
	d.Broadcast("closing", "")

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.notify {
		e.file.Close()
		if e.autogen {
			os.Remove(e.path)
		}
	}
	d.notify = make(map[uint64]*notifyEntry)

	if d.requestFile != nil {
		d.requestFile.Close()
	}
	if d.requestAutogen && d.requestPath != "" {
		os.Remove(d.requestPath)
	}
}

// RequestPipePath returns the path of this process's request pipe.
func (d *Director) RequestPipePath() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requestPath
}

// NotifyPipeCount reports how many notify pipes are currently registered.
func (d *Director) NotifyPipeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.notify)
}
