package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnslashTable(t *testing.T) {
	assert.Equal(t, "\n\r\t\x00\\", Unslash(`\n\r\t\0\\`))
	assert.Equal(t, "A", Unslash(`\x41`))
	assert.Equal(t, `\q`, Unslash(`\q`))
}

func TestComboMemoryMRU(t *testing.T) {
	c := NewComboMemory(3)
	c.Insert("a")
	c.Insert("b")
	c.Insert("c")
	c.Insert("a")
	assert.Equal(t, []string{"a", "c", "b"}, c.Entries())

	c.Insert("d")
	assert.Equal(t, []string{"d", "a", "c"}, c.Entries())
}

func TestFindNextLiteral(t *testing.T) {
	s := New()
	s.FindText = "foo"
	text := "bar foo baz foo qux"

	m, ok := s.FindNext(text, false, false, false)
	require.True(t, ok)
	assert.Equal(t, Match{Start: 4, End: 7}, m)

	m, ok = s.FindNext(text, false, false, false)
	require.True(t, ok)
	assert.Equal(t, Match{Start: 12, End: 15}, m)

	_, ok = s.FindNext(text, false, false, false)
	assert.False(t, ok)
	assert.True(t, s.FailedFind)
}

func TestFindNextWrapAround(t *testing.T) {
	s := New()
	s.FindText = "foo"
	s.Options.WrapAround = true
	text := "foo bar"
	s.CaretPos = len(text)

	m, ok := s.FindNext(text, false, false, false)
	require.True(t, ok)
	assert.Equal(t, Match{Start: 0, End: 3}, m)
	assert.False(t, s.FailedFind)
}

func TestWholeWordOption(t *testing.T) {
	s := New()
	s.FindText = "cat"
	s.Options.WholeWord = true
	text := "concatenate cat"

	m, ok := s.FindNext(text, false, false, false)
	require.True(t, ok)
	assert.Equal(t, Match{Start: 12, End: 15}, m)
}

func TestMatchCaseOption(t *testing.T) {
	s := New()
	s.FindText = "Foo"
	s.Options.MatchCase = true
	_, ok := s.FindNext("foo bar", false, false, false)
	assert.False(t, ok)

	s.Options.MatchCase = false
	ok2 := false
	if m, found := s.FindNext("foo bar", false, false, false); found {
		ok2 = true
		assert.Equal(t, Match{Start: 0, End: 3}, m)
	}
	assert.True(t, ok2)
}

func TestReplaceAllLiteral(t *testing.T) {
	s := New()
	s.FindText = "foo"
	s.ReplaceText = "X"
	out, n := s.ReplaceAll("foo bar foo baz")
	assert.Equal(t, "X bar X baz", out)
	assert.Equal(t, 2, n)
}

func TestReplaceAllRegexBackreference(t *testing.T) {
	s := New()
	s.Options.Regex = true
	s.FindText = `(\w+)@(\w+)`
	s.ReplaceText = `\2:\1`
	out, n := s.ReplaceAll("user@host")
	assert.Equal(t, 1, n)
	assert.Equal(t, "host:user", out)
}

func TestAllMatchesHandlesEmptyMatches(t *testing.T) {
	s := New()
	s.Options.Regex = true
	s.FindText = "x*"
	matches, err := s.AllMatches("abc")
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
	for _, m := range matches {
		assert.True(t, m.End >= m.Start)
	}
}
