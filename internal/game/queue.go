package game

import (
	"sync"
	"time"
)

type queueItem struct {
	run         func()
	interactive bool
}

// Queue serializes visual state mutations so the renderer never sees
// two structural changes back to back. The head action runs as soon as
// it becomes head; the queue then holds for the configured delay, or,
// for interactive items, until Resume is called. Strict FIFO: nothing
// is reordered, coalesced or dropped.
type Queue struct {
	mu    sync.Mutex
	items []queueItem

	wake   chan struct{}
	resume chan struct{}
	done   chan struct{}
	once   sync.Once

	delay time.Duration
}

// NewQueue starts the runner goroutine. Close must be called on
// teardown to stop it.
func NewQueue(delay time.Duration) *Queue {
	q := &Queue{
		wake:   make(chan struct{}, 1),
		resume: make(chan struct{}, 1),
		done:   make(chan struct{}),
		delay:  delay,
	}
	go q.loop()
	return q
}

// Enqueue appends a normal action; the queue advances past it after
// the delay elapses.
func (q *Queue) Enqueue(fn func()) {
	q.add(queueItem{run: fn})
}

// EnqueueInteractive appends an action that blocks the queue until an
// explicit Resume, used for prompts that wait on a human decision.
func (q *Queue) EnqueueInteractive(fn func()) {
	q.add(queueItem{run: fn, interactive: true})
}

// Resume releases the current interactive item. Calling it with no
// interactive item pending is harmless.
func (q *Queue) Resume() {
	select {
	case q.resume <- struct{}{}:
	default:
	}
}

// Close stops the runner and abandons any pending items.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}

// Len reports the number of items not yet started.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) add(it queueItem) {
	q.mu.Lock()
	q.items = append(q.items, it)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) loop() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-q.done:
				return
			}
		}
		it := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		if it.interactive {
			// Drop any resume left over from a previous item so it
			// cannot release this one early.
			select {
			case <-q.resume:
			default:
			}
		}

		it.run()

		if it.interactive {
			select {
			case <-q.resume:
			case <-q.done:
				return
			}
			continue
		}

		t := time.NewTimer(q.delay)
		select {
		case <-t.C:
		case <-q.done:
			t.Stop()
			return
		}
	}
}
