package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/scite-core/internal/props"
)

func TestFindMatchingBraceForward(t *testing.T) {
	pos, ok := FindMatchingBrace("f(a, (b), c)", 1)
	assert.True(t, ok)
	assert.Equal(t, 11, pos)
}

func TestFindMatchingBraceBackward(t *testing.T) {
	pos, ok := FindMatchingBrace("f(a, (b), c)", 11)
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestFindMatchingBraceUnmatched(t *testing.T) {
	_, ok := FindMatchingBrace("f(a, b", 1)
	assert.False(t, ok)
}

func TestFindMatchingBraceNonBracePosition(t *testing.T) {
	_, ok := FindMatchingBrace("abc", 1)
	assert.False(t, ok)
}

func TestComputeFoldsBalancedRegion(t *testing.T) {
	ps := props.New(false)
	ps.Set("block.start.cpp", "{")
	ps.Set("block.end.cpp", "}")
	lines := []string{
		"void f() {",
		"    int x = 1;",
		"}",
		"void g() {",
		"}",
	}
	folds := ComputeFolds(lines, ps, "cpp")
	assert.Equal(t, []FoldRange{{StartLine: 0, EndLine: 2}, {StartLine: 3, EndLine: 4}}, folds)
}

func TestComputeFoldsNoMarkersConfigured(t *testing.T) {
	ps := props.New(false)
	assert.Nil(t, ComputeFolds([]string{"{", "}"}, ps, "cpp"))
}

func TestComputeAutoIndentAfterBlockStart(t *testing.T) {
	ps := props.New(false)
	ps.Set("block.start.cpp", "{")
	ps.Set("statement.indent.cpp", "    ")
	indent := ComputeAutoIndent("void f() {", ps, "cpp")
	assert.Equal(t, "    ", indent)
}

func TestComputeAutoIndentPreservesExistingIndent(t *testing.T) {
	ps := props.New(false)
	ps.Set("block.start.cpp", "{")
	ps.Set("statement.indent.cpp", "    ")
	indent := ComputeAutoIndent("    int x = 1;", ps, "cpp")
	assert.Equal(t, "    ", indent)
}

func TestComputeAutoIndentDefaultsToTab(t *testing.T) {
	ps := props.New(false)
	ps.Set("block.start.cpp", "{")
	indent := ComputeAutoIndent("if (x) {", ps, "cpp")
	assert.Equal(t, "\t", indent)
}
