// Package coordinator wires Buffer, PropertyStore, JobQueue, ToolRunner,
// Director and the Extension hub into the single dispatch point a host UI
// drives (spec §4.9), grounded on the teacher's top-level server wiring
// (internal/server/server.go NewIndexServer) for the "one struct owns every
// subsystem, exposes a narrow set of entry points" shape.
package coordinator

import (
	"context"
	"fmt"
	"sort"

	"github.com/standardbeagle/scite-core/internal/buffer"
	"github.com/standardbeagle/scite-core/internal/debug"
	"github.com/standardbeagle/scite-core/internal/director"
	"github.com/standardbeagle/scite-core/internal/extension"
	"github.com/standardbeagle/scite-core/internal/jobqueue"
	"github.com/standardbeagle/scite-core/internal/pathmodel"
	"github.com/standardbeagle/scite-core/internal/props"
	"github.com/standardbeagle/scite-core/internal/toolrunner"
)

// EditorView abstracts the text-widget operations the Coordinator needs in
// order to fill CurrentSelection/CurrentWord before command expansion and to
// drive fold/brace/indent (spec §4.9). A real host supplies a Scintilla- or
// similar-widget-backed implementation; none is provided here (spec §1
// Non-goals: no text widget).
type EditorView interface {
	Selection() (start, end int)
	TextRange(start, end int) string
	WordAt(pos int) string
	LineText(line int) string
	LineOfPosition(pos int) int
}

// CommandFunc is one command-table action (spec §4.9 "command-ID → action
// table").
type CommandFunc func(c *Coordinator) error

// Coordinator owns every subsystem and dispatches commands to them.
type Coordinator struct {
	Buffers    *buffer.Set
	Props      *props.Store
	Jobs       *jobqueue.Queue
	Tools      *toolrunner.Runner
	Director   *director.Director
	Extensions *extension.Hub

	View EditorView

	commands map[int]CommandFunc

	// confirmClose asks whether a dirty buffer may be discarded on close.
	// It is not consulted when the are.you.sure property is "0" (spec §C).
	confirmClose func(path string) bool
}

// New builds a Coordinator over already-constructed subsystems. confirm is
// called before discarding a dirty buffer unless are.you.sure is "0"; with
// nil, a dirty buffer is never discarded while are.you.sure is not "0".
func New(buffers *buffer.Set, ps *props.Store, jobs *jobqueue.Queue, tools *toolrunner.Runner, dir *director.Director, ext *extension.Hub, confirm func(path string) bool) *Coordinator {
	return &Coordinator{
		Buffers:      buffers,
		Props:        ps,
		Jobs:         jobs,
		Tools:        tools,
		Director:     dir,
		Extensions:   ext,
		commands:     make(map[int]CommandFunc),
		confirmClose: confirm,
	}
}

// RegisterCommand installs or replaces the action bound to a menu/keyboard
// command ID.
func (c *Coordinator) RegisterCommand(id int, fn CommandFunc) {
	c.commands[id] = fn
}

// Dispatch fills CurrentSelection/CurrentWord (when a View is attached),
// then runs the registered action for id. Unknown IDs are silently ignored,
// matching the host API's "failure to apply is silent" convention (spec §6).
func (c *Coordinator) Dispatch(id int) error {
	c.fillSelectionProperties()
	fn, ok := c.commands[id]
	if !ok {
		debug.Log("COORD", "no action registered for command %d\n", id)
		return nil
	}
	return fn(c)
}

// fillSelectionProperties sets CurrentSelection and CurrentWord from the
// attached View before a command expands its property-driven arguments
// (spec §4.9 "Selection-into-find / selection-into-properties plumbing").
func (c *Coordinator) fillSelectionProperties() {
	if c.View == nil || c.Props == nil {
		return
	}
	start, end := c.View.Selection()
	sel := c.View.TextRange(start, end)
	c.Props.Set("CurrentSelection", sel)

	word := sel
	if word == "" {
		word = c.View.WordAt(start)
	}
	c.Props.Set("CurrentWord", word)
}

// OpenFile opens path into the buffer set, pushes it onto the recent-files
// MRU stack, and renumbers the file stack (spec §4.9 "File stack MRU
// renumbering after each open/close").
func (c *Coordinator) OpenFile(raw string) error {
	p, err := pathmodel.Absolute(raw)
	if err != nil {
		return err
	}
	idx, err := c.Buffers.Open(p)
	if err != nil {
		return err
	}
	c.Buffers.SetCurrent(idx)
	if c.Buffers.Recent != nil && !p.IsUntitled() {
		c.Buffers.Recent.Push(buffer.RecentFile{Path: p})
	}
	c.renumberFileStack()
	if c.Extensions != nil {
		c.Extensions.OnOpen(p.String())
	}
	return nil
}

// CloseCurrent closes the active buffer, honouring are.you.sure (spec §C):
// a dirty buffer is only discarded after confirmClose returns true, unless
// are.you.sure is explicitly "0".
func (c *Coordinator) CloseCurrent() error {
	idx := c.Buffers.Current()
	b := c.Buffers.At(idx)
	if b.Dirty && c.Props.Get("are.you.sure") != "0" {
		if c.confirmClose == nil || !c.confirmClose(b.Path.String()) {
			return nil
		}
	}
	if c.Extensions != nil {
		c.Extensions.OnClose(b.Path.String())
	}
	c.Buffers.Close(idx)
	c.renumberFileStack()
	return nil
}

// renumberFileStack writes MRU.<n>.path properties from the recent-files
// stack so a host menu can rebuild its numbered "Recent Files" list (spec
// §4.9 "File stack MRU renumbering").
func (c *Coordinator) renumberFileStack() {
	if c.Buffers == nil || c.Buffers.Recent == nil || c.Props == nil {
		return
	}
	for i, entry := range c.Buffers.Recent.Entries() {
		c.Props.Set(fmt.Sprintf("MRU.%d.path", i), entry.Path.String())
	}
}

// StatusBarText composes the status-bar string from the expandable
// statusbar.text.format property (spec §4.9 "Status-bar text composed from
// an expandable format property"). Placeholders are ordinary $(var) property
// references, so this is just GetExpanded with the current buffer's dynamic
// fields injected first.
func (c *Coordinator) StatusBarText() string {
	if c.Props == nil {
		return ""
	}
	b := c.Buffers.CurrentBuffer()
	c.Props.Set("FileNameExt", b.Path.Name())
	c.Props.Set("FileDir", b.Path.Directory())
	line, col := 0, 0
	if c.View != nil {
		start, _ := c.View.Selection()
		line = c.View.LineOfPosition(start)
	}
	c.Props.Set("LineNumber", fmt.Sprintf("%d", line+1))
	c.Props.Set("ColumnNumber", fmt.Sprintf("%d", col+1))
	format := c.Props.Get("statusbar.text.format")
	if format == "" {
		format = "$(FileNameExt) : line $(LineNumber), column $(ColumnNumber)"
	}
	c.Props.Set("statusbar.text.format.scratch", format)
	return c.Props.GetExpanded("statusbar.text.format.scratch")
}

// RunBuildCommand submits build.command as a single-job chain and runs it
// through the ToolRunner (spec §4.6 "single build action"). The Coordinator
// marks the queue built on success, matching isBuilt bookkeeping.
func (c *Coordinator) RunBuildCommand(ctx context.Context) error {
	cmd := c.Props.GetExpanded("build.command")
	if cmd == "" {
		return nil
	}
	dir, _ := pathmodel.Absolute(c.Props.Get("build.directory"))
	c.Jobs.Clear()
	c.Jobs.Add(jobqueue.Job{Command: cmd, WorkingDir: dir, Kind: jobqueue.SubsystemCLI})
	c.Jobs.SetBuilding(true)
	err := c.Tools.ExecuteAll(ctx)
	c.Jobs.SetBuilding(false)
	c.Jobs.SetBuilt(err == nil)
	return err
}

// dispatchToHost implements director.Dispatcher: verbs other than
// register/closing are routed to Coordinator commands named in the verb
// table, mirroring the host API operations enumerated in spec §6
// (do_menu_command, property, set_property, perform).
func (c *Coordinator) dispatchToHost(verb, argument string) string {
	switch verb {
	case "property":
		return c.Props.Get(argument)
	case "set_property":
		key, value, ok := cut(argument, "=")
		if ok {
			c.Props.Set(key, value)
		}
		return ""
	case "unset_property":
		c.Props.Unset(argument)
		return ""
	case "open":
		c.OpenFile(argument)
		return ""
	case "perform":
		return ""
	default:
		return ""
	}
}

func cut(s, sep string) (before, after string, found bool) {
	for i := 0; i+len(sep) <= len(s); i++ {
		if s[i:i+len(sep)] == sep {
			return s[:i], s[i+len(sep):], true
		}
	}
	return s, "", false
}

// DirectorDispatcher returns a director.Dispatcher bound to this
// Coordinator's host-command handling, for wiring into director.New.
func (c *Coordinator) DirectorDispatcher() director.Dispatcher {
	return c.dispatchToHost
}

// Broadcast notifies every registered Director pipe of an editor event,
// e.g. "saved:<path>" after a successful save (spec §4.8 "Notifications
// emitted").
func (c *Coordinator) Broadcast(verb, argument string) error {
	if c.Director == nil {
		return nil
	}
	return c.Director.Broadcast(verb, argument)
}

// sortedCommandIDs is used by tests/diagnostics to enumerate registered
// commands deterministically.
func (c *Coordinator) sortedCommandIDs() []int {
	ids := make([]int, 0, len(c.commands))
	for id := range c.commands {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
