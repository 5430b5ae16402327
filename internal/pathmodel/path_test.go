package pathmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntitled(t *testing.T) {
	p, err := Absolute("")
	require.NoError(t, err)
	assert.True(t, p.IsUntitled())
	assert.Equal(t, "", p.String())
	assert.False(t, p.Exists())
}

func TestAbsoluteIsAbsolute(t *testing.T) {
	p, err := Absolute("a.txt")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p.String()))
}

func TestDirectoryNameExtension(t *testing.T) {
	p, err := Absolute("/tmp/project/main.go")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/project", p.Directory())
	assert.Equal(t, "main.go", p.Name())
	assert.Equal(t, "go", p.Extension())
}

func TestExtensionNoDot(t *testing.T) {
	p, err := Absolute("/tmp/Makefile")
	require.NoError(t, err)
	assert.Equal(t, "", p.Extension())
}

func TestEqual(t *testing.T) {
	a, _ := Absolute("/tmp/a.txt")
	b, _ := Absolute("/tmp/a.txt")
	assert.True(t, Equal(a, b))

	c, _ := Absolute("/tmp/b.txt")
	assert.False(t, Equal(a, c))
}

func TestEqualUntitledNeverEqual(t *testing.T) {
	a, _ := Absolute("")
	b, _ := Absolute("")
	assert.False(t, Equal(a, b))
}

func TestExistsAndModifiedTime(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.txt")
	require.NoError(t, os.WriteFile(file, []byte("hi"), 0o644))

	p, err := Absolute(file)
	require.NoError(t, err)
	assert.True(t, p.Exists())

	_, ok := p.ModifiedTime()
	assert.True(t, ok)

	missing, _ := Absolute(filepath.Join(dir, "missing.txt"))
	assert.False(t, missing.Exists())
	_, ok = missing.ModifiedTime()
	assert.False(t, ok)
}

func TestJoin(t *testing.T) {
	p, err := Join("/tmp/project", "main.go")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/project/main.go", p.String())
}

func TestToRelative(t *testing.T) {
	p, _ := Absolute("/home/user/project/src/main.go")
	assert.Equal(t, "src/main.go", ToRelative(p, "/home/user/project"))

	outside, _ := Absolute("/other/location/file.go")
	assert.Equal(t, "/other/location/file.go", ToRelative(outside, "/home/user/project"))
}
