package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishByKey(t *testing.T) {
	h := NewHub()
	hr, cleanupHR := h.Subscribe("HR_JKT")
	defer cleanupHR()
	md, cleanupMD := h.Subscribe("MD")
	defer cleanupMD()

	h.Publish("HR_JKT", Event{Event: "notification", Data: "x"})

	select {
	case ev := <-hr:
		assert.Equal(t, "HR_JKT", ev.Key)
		assert.Equal(t, "x", ev.Data)
	default:
		t.Fatal("expected event for HR_JKT")
	}
	assert.Empty(t, md)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("emp-1")
	assert.Equal(t, 1, h.SubscriberCount("emp-1"))

	cleanup()
	cleanup()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, h.TotalSubscribers())
}

func TestHub_FullBufferDrops(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("emp-1")
	defer cleanup()

	for i := 0; i < defaultBuffer+5; i++ {
		h.Publish("emp-1", Event{Event: "notification"})
	}
	assert.Len(t, ch, defaultBuffer)
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("MD")
	h.Close()

	_, ok := <-ch
	assert.False(t, ok)
	cleanup()

	late, _ := h.Subscribe("MD")
	_, ok = <-late
	require.False(t, ok)
}
