// ABOUTME: Tests for the inbound message queue
// ABOUTME: Covers non-blocking enqueue, bounded poll, and burst coalescing

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMsg(name, text string) Message {
	return Message{Kind: KindUser, UserName: name, Text: text}
}

func TestQueue_EnqueueAndPoll(t *testing.T) {
	q := NewQueue()

	require.True(t, q.Enqueue(userMsg("Ana", "hi")))

	m, ok := q.Poll(time.Second)
	require.True(t, ok)
	assert.Equal(t, "hi", m.Text)
}

func TestQueue_PollTimesOutWhenEmpty(t *testing.T) {
	q := NewQueue()

	start := time.Now()
	_, ok := q.Poll(20 * time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestQueue_EnqueueNeverBlocksWhenFull(t *testing.T) {
	q := NewQueue()

	for i := 0; i < queueCapacity; i++ {
		require.True(t, q.Enqueue(userMsg("Ana", "x")))
	}
	assert.False(t, q.Enqueue(userMsg("Ana", "overflow")))
	assert.Equal(t, queueCapacity, q.Len())
}

func TestQueue_DrainNewestCoalescesBurst(t *testing.T) {
	q := NewQueue()

	first := userMsg("Ana", "first")
	q.Enqueue(userMsg("Ben", "middle"))
	q.Enqueue(userMsg("Cam", "latest"))

	got := q.DrainNewest(first)
	assert.Equal(t, "latest", got.Text)
	assert.Equal(t, "Cam", got.UserName)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DrainNewestKeepsLastWhenEmpty(t *testing.T) {
	q := NewQueue()

	last := userMsg("Ana", "only")
	got := q.DrainNewest(last)
	assert.Equal(t, "only", got.Text)
}
