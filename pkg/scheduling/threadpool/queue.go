package threadpool

import (
	"sync"
	"sync/atomic"
)

// taskQueue is a FIFO buffer of pending tasks.
//
// The mutex is part of the queue's contract: the dispatcher locks it,
// checks emptiness and, if the queue is empty, waits for the wake signal
// with no window between the check and the wait. popLocked and
// frontLocked require the caller to hold mu and to have confirmed the
// queue is non-empty; popping an empty queue panics.
type taskQueue struct {
	mu     sync.Mutex
	items  []Task
	length atomic.Int64
}

func newTaskQueue() *taskQueue {
	return &taskQueue{}
}

// push appends one task and returns the queue length after the append.
// Returning the length lets the submitter detect the empty→non-empty
// transition without a second lock acquisition.
func (q *taskQueue) push(t Task) int {
	q.mu.Lock()
	q.items = append(q.items, t)
	n := len(q.items)
	q.length.Store(int64(n))
	q.mu.Unlock()
	return n
}

// pushBatch appends tasks as one contiguous run in submission order.
// No concurrent pop can observe a partial batch.
func (q *taskQueue) pushBatch(ts []Task) int {
	q.mu.Lock()
	q.items = append(q.items, ts...)
	n := len(q.items)
	q.length.Store(int64(n))
	q.mu.Unlock()
	return n
}

// frontLocked returns the head without removing it.
func (q *taskQueue) frontLocked() Task {
	return q.items[0]
}

// popLocked removes and returns the head.
func (q *taskQueue) popLocked() Task {
	t := q.items[0]
	q.items[0] = Task{} // drop the callable references for GC
	q.items = q.items[1:]
	q.length.Store(int64(len(q.items)))
	return t
}

// emptyLocked reports emptiness under the lock. The lock-free
// counterpart for approximate reads is size() == 0.
func (q *taskQueue) emptyLocked() bool {
	return len(q.items) == 0
}

// size is a lock-free snapshot of the queue length.
func (q *taskQueue) size() int {
	return int(q.length.Load())
}
