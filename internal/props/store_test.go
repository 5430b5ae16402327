package props

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetUnset(t *testing.T) {
	s := New(false)
	s.Set("tab.size", "4")
	assert.Equal(t, "4", s.Get("tab.size"))
	s.Unset("tab.size")
	assert.Equal(t, "", s.Get("tab.size"))
}

func TestLowerKeys(t *testing.T) {
	s := New(true)
	s.Set("Tab.Size", "4")
	assert.Equal(t, "4", s.Get("tab.size"))
}

func TestGetInt(t *testing.T) {
	s := New(false)
	s.Set("width", "80")
	assert.Equal(t, 80, s.GetInt("width", -1))
	assert.Equal(t, -1, s.GetInt("missing", -1))
	s.Set("bad", "nope")
	assert.Equal(t, -1, s.GetInt("bad", -1))
}

func TestLayeredFallThrough(t *testing.T) {
	base := New(false)
	base.Set("eol.mode", "LF")
	top := NewLayered(base, false)
	assert.Equal(t, "LF", top.Get("eol.mode"))

	top.Set("eol.mode", "CRLF")
	assert.Equal(t, "CRLF", top.Get("eol.mode"))
	assert.Equal(t, "LF", base.Get("eol.mode"))
}

// S1: property expansion with a cycle.
func TestGetExpandedCycle(t *testing.T) {
	s := New(false)
	s.ReadMemory([]byte("a=$(b)\nb=$(a)\nc=$(a)X"), "")
	assert.Equal(t, "X", s.GetExpanded("c"))
}

func TestGetExpandedTerminatesOnSelfReference(t *testing.T) {
	s := New(false)
	s.Set("x", "$(x)")
	assert.Equal(t, "", s.GetExpanded("x"))
}

func TestGetExpandedSimple(t *testing.T) {
	s := New(false)
	s.Set("home", "/tmp")
	s.Set("path", "$(home)/project")
	assert.Equal(t, "/tmp/project", s.GetExpanded("path"))
}

func TestEnumerationPreservesInsertionOrder(t *testing.T) {
	s := New(false)
	s.Set("z", "1")
	s.Set("a", "2")
	s.Set("m", "3")

	var keys []string
	for k, _, ok := s.First(); ok; k, _, ok = s.Next() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestEnumerationEmptyStore(t *testing.T) {
	s := New(false)
	_, _, ok := s.First()
	assert.False(t, ok)
}

func TestReadMemoryComments(t *testing.T) {
	s := New(false)
	s.ReadMemory([]byte("# a comment\nkey=value\n  # indented comment\n"), "")
	assert.Equal(t, "value", s.Get("key"))
}

func TestReadMemoryLineContinuation(t *testing.T) {
	s := New(false)
	s.ReadMemory([]byte("key=one\\\ntwo\n"), "")
	assert.Equal(t, "onetwo", s.Get("key"))
}

func TestReadMemoryBlankLineCancelsContinuation(t *testing.T) {
	s := New(false)
	// A backslash followed immediately by a blank line is NOT a continuation.
	s.ReadMemory([]byte("key=one\\\n\nkey2=two\n"), "")
	assert.Equal(t, "one\\", s.Get("key"))
	assert.Equal(t, "two", s.Get("key2"))
}

func TestReadMemoryConditionalSection(t *testing.T) {
	s := New(false)
	s.Set("enabled", "1")
	s.ReadMemory([]byte("if enabled\n\tfeature=on\nfeature2=always\n"), "")
	assert.Equal(t, "on", s.Get("feature"))
	assert.Equal(t, "always", s.Get("feature2"))
}

func TestReadMemoryConditionalSectionFalse(t *testing.T) {
	s := New(false)
	s.Set("enabled", "0")
	s.ReadMemory([]byte("if enabled\n\tfeature=on\n"), "")
	assert.Equal(t, "", s.Get("feature"))
}

func TestReadMemoryConditionalClosesOnNonIndentedLine(t *testing.T) {
	s := New(false)
	s.Set("flag", "0")
	s.ReadMemory([]byte("if flag\n\tsuppressed=yes\nnotsuppressed=yes\n\tstillclosed=yes\n"), "")
	assert.Equal(t, "", s.Get("suppressed"))
	assert.Equal(t, "yes", s.Get("notsuppressed"))
	// The non-indented "notsuppressed" line closed the if-block, so this
	// indented line is now unconditional.
	assert.Equal(t, "yes", s.Get("stillclosed"))
}

func TestReadFileStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/p.properties"
	content := append([]byte{0xef, 0xbb, 0xbf}, []byte("key=value\n")...)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	s := New(false)
	_, ok := s.ReadFile(path, dir)
	require.True(t, ok)
	assert.Equal(t, "value", s.Get("key"))
}

func TestReadFileMissingIsSilentlySkipped(t *testing.T) {
	s := New(false)
	_, ok := s.ReadFile("/nonexistent/path.properties", "")
	assert.False(t, ok)
}

func TestImportDirective(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/base.properties", []byte("base.key=1\n"), 0o644))
	require.NoError(t, os.WriteFile(dir+"/main.properties", []byte("import base\nmain.key=2\n"), 0o644))

	s := New(false)
	imports, ok := s.ReadFile(dir+"/main.properties", dir)
	require.True(t, ok)
	assert.Equal(t, "1", s.Get("base.key"))
	assert.Equal(t, "2", s.Get("main.key"))
	require.Len(t, imports, 1)
	assert.True(t, strings.HasSuffix(imports[0], "base.properties"))
}

func TestImportDedup(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/base.properties", []byte("base.key=1\n"), 0o644))
	require.NoError(t, os.WriteFile(dir+"/main.properties", []byte("import base\nimport base\n"), 0o644))

	s := New(false)
	imports, _ := s.ReadFile(dir+"/main.properties", dir)
	assert.Len(t, imports, 1)
}
