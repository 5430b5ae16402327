package jobqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddRespectsCapacity(t *testing.T) {
	q := New()
	assert.True(t, q.Add(Job{Command: "a"}))
	assert.True(t, q.Add(Job{Command: "b"}))
	assert.False(t, q.Add(Job{Command: "c"}))
	assert.Len(t, q.Jobs(), 2)
}

func TestClearResetsQueue(t *testing.T) {
	q := New()
	q.Add(Job{Command: "a"})
	q.SetExecuting(true)
	q.SetCancel(true)
	q.Clear()
	assert.Empty(t, q.Jobs())
	assert.False(t, q.IsExecuting())
	assert.False(t, q.Cancelled())
}

func TestAdvanceStopsAtGap(t *testing.T) {
	q := New()
	q.Add(Job{Command: "a"})
	_, ok := q.Advance()
	assert.False(t, ok, "no second job queued yet")

	q.Add(Job{Command: "b"})
	job, ok := q.Advance()
	assert.True(t, ok)
	assert.Equal(t, "b", job.Command)
	assert.Equal(t, 1, q.Current())
}

func TestCancelIsMonotonicUntilClear(t *testing.T) {
	q := New()
	prev := q.SetCancel(true)
	assert.False(t, prev)
	prev = q.SetCancel(false)
	assert.True(t, prev)
	assert.True(t, q.Cancelled(), "cancel stays set within a run")
	q.Clear()
	assert.False(t, q.Cancelled())
}

func TestBuildStateTracksBuiltFlag(t *testing.T) {
	q := New()
	assert.False(t, q.IsBuilt())
	q.SetBuilt(true)
	assert.True(t, q.IsBuilt())
	q.SetBuilt(false)
	assert.False(t, q.IsBuilt())
}
