package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := NewQueue(time.Millisecond)
	defer q.Close()

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	for i := 1; i <= 5; i++ {
		i := i
		q.Enqueue(func() {
			mu.Lock()
			got = append(got, i)
			if len(got) == 5 {
				close(done)
			}
			mu.Unlock()
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queue did not drain")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestQueue_DelayBetweenItems(t *testing.T) {
	const delay = 60 * time.Millisecond
	q := NewQueue(delay)
	defer q.Close()

	times := make(chan time.Time, 2)
	q.Enqueue(func() { times <- time.Now() })
	q.Enqueue(func() { times <- time.Now() })

	first := <-times
	second := <-times
	assert.GreaterOrEqual(t, second.Sub(first), delay,
		"second action ran before the hold elapsed")
}

func TestQueue_InteractiveBlocksUntilResume(t *testing.T) {
	q := NewQueue(time.Millisecond)
	defer q.Close()

	prompted := make(chan struct{})
	after := make(chan struct{})

	q.EnqueueInteractive(func() { close(prompted) })
	q.Enqueue(func() { close(after) })

	select {
	case <-prompted:
	case <-time.After(time.Second):
		t.Fatal("interactive action never ran")
	}

	select {
	case <-after:
		t.Fatal("queue advanced past an interactive item without Resume")
	case <-time.After(50 * time.Millisecond):
	}

	q.Resume()

	select {
	case <-after:
	case <-time.After(time.Second):
		t.Fatal("queue did not advance after Resume")
	}
}

func TestQueue_StaleResumeDoesNotReleaseNextInteractive(t *testing.T) {
	q := NewQueue(time.Millisecond)
	defer q.Close()

	// A Resume with nothing pending must not be banked against the next
	// interactive item.
	q.Resume()

	prompted := make(chan struct{})
	after := make(chan struct{})
	q.EnqueueInteractive(func() { close(prompted) })
	q.Enqueue(func() { close(after) })

	<-prompted
	select {
	case <-after:
		t.Fatal("stale Resume released the interactive item")
	case <-time.After(50 * time.Millisecond):
	}

	q.Resume()
	select {
	case <-after:
	case <-time.After(time.Second):
		t.Fatal("queue did not advance after the real Resume")
	}
}

func TestQueue_ResumeWithoutInteractiveIsHarmless(t *testing.T) {
	q := NewQueue(time.Millisecond)
	defer q.Close()

	q.Resume()
	q.Resume()

	ran := make(chan struct{})
	q.Enqueue(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("normal item did not run")
	}
}

func TestQueue_CloseAbandonsPending(t *testing.T) {
	q := NewQueue(500 * time.Millisecond)

	first := make(chan struct{})
	var ranSecond bool
	q.Enqueue(func() { close(first) })
	q.Enqueue(func() { ranSecond = true })

	<-first
	q.Close()
	q.Close() // idempotent

	time.Sleep(600 * time.Millisecond)
	assert.False(t, ranSecond, "item ran after Close")
	require.Equal(t, 1, q.Len())
}
