package extension

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingExtension struct {
	NoopExtension
	name    string
	consume bool
	opened  []string
}

func (r *recordingExtension) OnOpen(path string) bool {
	r.opened = append(r.opened, path)
	return r.consume
}

func TestHubForwardsUntilConsumed(t *testing.T) {
	h := NewHub()
	first := &recordingExtension{name: "first", consume: true}
	second := &recordingExtension{name: "second"}
	h.Register(first)
	h.Register(second)

	consumed := h.OnOpen("/a")
	assert.True(t, consumed)
	assert.Equal(t, []string{"/a"}, first.opened)
	assert.Empty(t, second.opened, "short-circuited after first handler consumed")
}

func TestHubForwardsToAllWhenNoneConsume(t *testing.T) {
	h := NewHub()
	first := &recordingExtension{name: "first"}
	second := &recordingExtension{name: "second"}
	h.Register(first)
	h.Register(second)

	consumed := h.OnOpen("/b")
	assert.False(t, consumed)
	assert.Equal(t, []string{"/b"}, first.opened)
	assert.Equal(t, []string{"/b"}, second.opened)
}

func TestHubInitialiseFanout(t *testing.T) {
	h := NewHub()
	h.Register(&recordingExtension{name: "a"})
	h.Register(&recordingExtension{name: "b"})
	assert.False(t, h.Initialise(context.Background(), nil))
}
