package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/scite-core/internal/buffer"
	"github.com/standardbeagle/scite-core/internal/pathmodel"
	"github.com/standardbeagle/scite-core/internal/props"
)

func TestLoadDefaults(t *testing.T) {
	ps := props.New(false)
	require.NoError(t, LoadDefaults(ps))
	assert.Equal(t, "8", ps.Get("tab.size"))
	assert.Equal(t, "{", ps.Get("block.start.cpp"))
	assert.Equal(t, "20", ps.Get("buffers.maximum"))
	assert.Equal(t, "1", ps.Get("are.you.sure"))
}

func TestParseCLIOverlay(t *testing.T) {
	base := props.New(false)
	scratch, paths := ParseCLIOverlay([]string{"-tab.size=4", "main.go", "-p", "other.go"}, base)
	assert.Equal(t, "4", scratch.Get("tab.size"))
	assert.Equal(t, "1", scratch.Get("p"))
	assert.Equal(t, []string{"main.go", "other.go"}, paths)
}

func TestIncludeExcludeMatch(t *testing.T) {
	ie := IncludeExclude{Include: []string{"**/*.go"}, Exclude: []string{"**/vendor/**"}}
	assert.True(t, ie.Match("internal/config/cli.go"))
	assert.False(t, ie.Match("vendor/pkg/file.go"))
	assert.False(t, ie.Match("README.md"))
}

func TestIncludeExcludeEmptyIncludeMeansEverything(t *testing.T) {
	ie := IncludeExclude{Exclude: []string{"**/*.tmp"}}
	assert.True(t, ie.Match("a/b.go"))
	assert.False(t, ie.Match("a/b.tmp"))
}

func TestSessionSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	base := props.New(false)
	bufs := buffer.New(5, base)

	a, err := pathmodel.Absolute(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	idx, err := bufs.Open(a)
	require.NoError(t, err)
	bufs.At(idx).Selection = buffer.SelectionRange{Start: 3, End: 7}
	bufs.At(idx).ScrollTop = 12
	bufs.SetCurrent(idx)

	sessionPath := filepath.Join(dir, "session.properties")
	store := NewSessionStore()
	require.NoError(t, store.Save(sessionPath, bufs))

	entries, current, err := store.Load(sessionPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, a.String(), entries[0].Path.String())
	assert.Equal(t, 3, entries[0].Selection.Start)
	assert.Equal(t, 7, entries[0].Selection.End)
	assert.Equal(t, 12, entries[0].ScrollTop)
	assert.Equal(t, 0, current)
}

func TestSessionLoadMissingFile(t *testing.T) {
	store := NewSessionStore()
	_, _, err := store.Load(filepath.Join(t.TempDir(), "missing.properties"))
	assert.Error(t, err)
}

func TestLoadAbbreviationsMissingFileIsNotFatal(t *testing.T) {
	ps := props.New(false)
	LoadAbbreviations(ps, filepath.Join(t.TempDir(), "abbrev.properties"))
	assert.Empty(t, ExpandAbbreviation(ps, "teh"))
}

func TestLoadAbbreviationsExpandsWord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abbrev.properties")
	require.NoError(t, os.WriteFile(path, []byte("teh=the\n"), 0644))

	ps := props.New(false)
	LoadAbbreviations(ps, path)
	assert.Equal(t, "the", ExpandAbbreviation(ps, "teh"))
}
