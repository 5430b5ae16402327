// Package extension implements the multiplexing Extension hub described in
// spec §4.7: a host-side capability set with an ordered list of registered
// plug-ins, each observing every editor event.
package extension

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// StyleWriter is the capability OnStyle handlers receive to push styling
// decisions back to the widget (spec §4.7). Styling itself is out of this
// module's scope (spec §1); this is just the handoff surface.
type StyleWriter interface {
	SetStyle(position, length, style int)
}

// Extension is the host API every plug-in implements. Every method returns
// a bool; true means the event was consumed and the hub's default action
// should be skipped (spec §4.7). All methods are optional — embed
// NoopExtension to pick only the ones you need.
type Extension interface {
	Initialise(host HostAPI) bool
	Finalise() bool
	Clear() bool
	Load(args string) bool
	OnOpen(path string) bool
	OnSwitchFile(path string) bool
	OnBeforeSave(path string) bool
	OnSave(path string) bool
	OnChar(ch rune) bool
	OnExecute(command string) bool
	OnSavePointReached() bool
	OnSavePointLeft() bool
	OnStyle(writer StyleWriter) bool
	OnDoubleClick() bool
	OnUpdateUI() bool
	OnMarginClick() bool
	OnMacro(cmd, args string) bool
	OnUserListSelection(id int, text string) bool
	OnKey(keycode int, mods int) bool
	OnDwellStart(pos int, text string) bool
	OnClose(path string) bool
	OnUserStrip(control, change int) bool
}

// HostAPI is the surface extensions call back into (spec §6 "Host API").
// pane selection ("editor"/"output"/"find-output") is the caller's concern;
// this interface only names the operations.
type HostAPI interface {
	Send(pane string, msg, w int, l string) int
	Range(pane string, start, end int) string
	Remove(pane string, start, end int)
	Insert(pane string, pos int, text string)
	Trace(text string)
	Property(key string) string
	SetProperty(key, value string)
	UnsetProperty(key string)
	Perform(actionString string)
	DoMenuCommand(id int)
	UpdateStatusBar(slow bool)
}

// NoopExtension implements Extension with every method returning false
// (not consumed). Embed it in a plug-in to implement only the events it
// cares about.
type NoopExtension struct{}

func (NoopExtension) Initialise(HostAPI) bool           { return false }
func (NoopExtension) Finalise() bool                    { return false }
func (NoopExtension) Clear() bool                       { return false }
func (NoopExtension) Load(string) bool                  { return false }
func (NoopExtension) OnOpen(string) bool                { return false }
func (NoopExtension) OnSwitchFile(string) bool          { return false }
func (NoopExtension) OnBeforeSave(string) bool          { return false }
func (NoopExtension) OnSave(string) bool                { return false }
func (NoopExtension) OnChar(rune) bool                   { return false }
func (NoopExtension) OnExecute(string) bool             { return false }
func (NoopExtension) OnSavePointReached() bool          { return false }
func (NoopExtension) OnSavePointLeft() bool             { return false }
func (NoopExtension) OnStyle(StyleWriter) bool          { return false }
func (NoopExtension) OnDoubleClick() bool                { return false }
func (NoopExtension) OnUpdateUI() bool                   { return false }
func (NoopExtension) OnMarginClick() bool                { return false }
func (NoopExtension) OnMacro(string, string) bool        { return false }
func (NoopExtension) OnUserListSelection(int, string) bool { return false }
func (NoopExtension) OnKey(int, int) bool                { return false }
func (NoopExtension) OnDwellStart(int, string) bool      { return false }
func (NoopExtension) OnClose(string) bool                { return false }
func (NoopExtension) OnUserStrip(int, int) bool          { return false }

// Hub multiplexes every host event to an ordered list of registered
// Extensions, forwarding until a handler returns true or all have been
// called (spec §4.7). Dispatch of any single event is synchronous and
// totally ordered (spec §5); only the Initialise/Finalise broadcast fans
// out concurrently via errgroup (Domain Stack, golang.org/x/sync).
type Hub struct {
	plugins []Extension
}

// NewHub returns an empty Hub.
func NewHub() *Hub { return &Hub{} }

// Register appends ext to the dispatch order.
func (h *Hub) Register(ext Extension) {
	h.plugins = append(h.plugins, ext)
}

// Initialise fans Initialise(host) out to every plug-in concurrently and
// waits for all to finish; it returns true if any plug-in consumed it.
func (h *Hub) Initialise(ctx context.Context, host HostAPI) bool {
	g, _ := errgroup.WithContext(ctx)
	results := make([]bool, len(h.plugins))
	for i, p := range h.plugins {
		i, p := i, p
		g.Go(func() error {
			results[i] = p.Initialise(host)
			return nil
		})
	}
	g.Wait()
	for _, r := range results {
		if r {
			return true
		}
	}
	return false
}

// Finalise fans Finalise out to every plug-in concurrently.
func (h *Hub) Finalise(ctx context.Context) bool {
	g, _ := errgroup.WithContext(ctx)
	results := make([]bool, len(h.plugins))
	for i, p := range h.plugins {
		i, p := i, p
		g.Go(func() error {
			results[i] = p.Finalise()
			return nil
		})
	}
	g.Wait()
	for _, r := range results {
		if r {
			return true
		}
	}
	return false
}

// dispatch forwards to each plug-in in order, stopping at the first true.
func dispatch(plugins []Extension, call func(Extension) bool) bool {
	for _, p := range plugins {
		if call(p) {
			return true
		}
	}
	return false
}

func (h *Hub) OnOpen(path string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnOpen(path) })
}

func (h *Hub) OnSwitchFile(path string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnSwitchFile(path) })
}

func (h *Hub) OnBeforeSave(path string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnBeforeSave(path) })
}

func (h *Hub) OnSave(path string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnSave(path) })
}

func (h *Hub) OnChar(ch rune) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnChar(ch) })
}

func (h *Hub) OnExecute(command string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnExecute(command) })
}

func (h *Hub) OnSavePointReached() bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnSavePointReached() })
}

func (h *Hub) OnSavePointLeft() bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnSavePointLeft() })
}

func (h *Hub) OnStyle(w StyleWriter) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnStyle(w) })
}

func (h *Hub) OnDoubleClick() bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnDoubleClick() })
}

func (h *Hub) OnUpdateUI() bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnUpdateUI() })
}

func (h *Hub) OnMarginClick() bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnMarginClick() })
}

func (h *Hub) OnMacro(cmd, args string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnMacro(cmd, args) })
}

func (h *Hub) OnUserListSelection(id int, text string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnUserListSelection(id, text) })
}

func (h *Hub) OnKey(keycode, mods int) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnKey(keycode, mods) })
}

func (h *Hub) OnDwellStart(pos int, text string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnDwellStart(pos, text) })
}

func (h *Hub) OnClose(path string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnClose(path) })
}

func (h *Hub) OnUserStrip(control, change int) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.OnUserStrip(control, change) })
}

func (h *Hub) Clear() bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.Clear() })
}

func (h *Hub) Load(args string) bool {
	return dispatch(h.plugins, func(e Extension) bool { return e.Load(args) })
}
