package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/scite-core/internal/buffer"
	"github.com/standardbeagle/scite-core/internal/extension"
	"github.com/standardbeagle/scite-core/internal/jobqueue"
	"github.com/standardbeagle/scite-core/internal/props"
)

type fakeView struct {
	selStart, selEnd int
	text             string
	word             string
	lines            []string
}

func (v *fakeView) Selection() (int, int) { return v.selStart, v.selEnd }
func (v *fakeView) TextRange(start, end int) string {
	if start == end {
		return ""
	}
	return v.text
}
func (v *fakeView) WordAt(pos int) string          { return v.word }
func (v *fakeView) LineText(line int) string       { return v.lines[line] }
func (v *fakeView) LineOfPosition(pos int) int     { return 0 }

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	base := props.New(false)
	bufs := buffer.New(5, base)
	jobs := jobqueue.New()
	c := New(bufs, base, jobs, nil, nil, extension.NewHub(), nil)
	return c
}

func TestFillSelectionProperties(t *testing.T) {
	c := newTestCoordinator(t)
	c.View = &fakeView{selStart: 0, selEnd: 4, text: "abcd", word: "abcd"}
	c.fillSelectionProperties()
	assert.Equal(t, "abcd", c.Props.Get("CurrentSelection"))
	assert.Equal(t, "abcd", c.Props.Get("CurrentWord"))
}

func TestFillSelectionPropertiesFallsBackToWord(t *testing.T) {
	c := newTestCoordinator(t)
	c.View = &fakeView{selStart: 2, selEnd: 2, word: "hello"}
	c.fillSelectionProperties()
	assert.Empty(t, c.Props.Get("CurrentSelection"))
	assert.Equal(t, "hello", c.Props.Get("CurrentWord"))
}

func TestOpenFileRenumbersFileStack(t *testing.T) {
	c := newTestCoordinator(t)
	dir := t.TempDir()
	fileA := dir + "/a.txt"
	fileB := dir + "/b.txt"
	require.NoError(t, c.OpenFile(fileA))
	require.NoError(t, c.OpenFile(fileB))

	assert.Equal(t, fileB, c.Props.Get("MRU.0.path"))
	assert.Equal(t, fileA, c.Props.Get("MRU.1.path"))
}

func TestCloseCurrentRequiresConfirmationWhenDirty(t *testing.T) {
	c := newTestCoordinator(t)
	c.Buffers.CurrentBuffer().Dirty = true

	asked := false
	c.confirmClose = func(path string) bool {
		asked = true
		return false
	}
	before := c.Buffers.Len()
	require.NoError(t, c.CloseCurrent())
	assert.True(t, asked)
	assert.Equal(t, before, c.Buffers.Len(), "buffer must survive a declined confirmation")
}

func TestCloseCurrentSkipsConfirmationWhenAreYouSureDisabled(t *testing.T) {
	c := newTestCoordinator(t)
	c.Buffers.CurrentBuffer().Dirty = true
	c.Props.Set("are.you.sure", "0")
	c.confirmClose = func(path string) bool { return false }

	require.NoError(t, c.CloseCurrent())
}

func TestStatusBarTextDefaultFormat(t *testing.T) {
	c := newTestCoordinator(t)
	text := c.StatusBarText()
	assert.Contains(t, text, "line 1, column 1")
}

func TestStatusBarTextCustomFormat(t *testing.T) {
	c := newTestCoordinator(t)
	c.Props.Set("statusbar.text.format", "[$(LineNumber)]")
	assert.Equal(t, "[1]", c.StatusBarText())
}

func TestDispatchUnknownCommandIsSilent(t *testing.T) {
	c := newTestCoordinator(t)
	assert.NoError(t, c.Dispatch(9999))
}

func TestDispatchRunsRegisteredCommand(t *testing.T) {
	c := newTestCoordinator(t)
	ran := false
	c.RegisterCommand(1, func(c *Coordinator) error {
		ran = true
		return nil
	})
	require.NoError(t, c.Dispatch(1))
	assert.True(t, ran)
}

func TestDispatchToHostProperty(t *testing.T) {
	c := newTestCoordinator(t)
	c.Props.Set("tab.size", "4")
	assert.Equal(t, "4", c.dispatchToHost("property", "tab.size"))
	c.dispatchToHost("set_property", "tab.size=8")
	assert.Equal(t, "8", c.Props.Get("tab.size"))
	c.dispatchToHost("unset_property", "tab.size")
	assert.Empty(t, c.Props.Get("tab.size"))
}
