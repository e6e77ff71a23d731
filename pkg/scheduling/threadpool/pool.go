package threadpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Task pairs a unit of work with a completion hook. Both are optional
// zero-argument callables; Completion runs after Work on the same worker
// goroutine. The pool treats both as opaque and never retries them.
type Task struct {
	Work       func()
	Completion func()
}

// state is the shared coordination core: the task queue, the worker
// table, the counters and the wake signal. It is referenced jointly by
// the Pool facade and the dispatcher goroutine, so it outlives any
// dropped facade handle for as long as the dispatcher needs it.
type state struct {
	mu      sync.Mutex // guards workers; always taken before queue.mu
	workers []*worker
	nextID  int

	queue  *taskQueue
	notify func(free bool, id int)

	// signal is the shared wake channel: one token slot, two predicates
	// (free worker available, task available). Waiters re-check their
	// predicate under the proper lock on every wake, so coalesced or
	// stale tokens cost a loop iteration, never a missed wakeup.
	signal chan struct{}

	closed      atomic.Bool
	maxWorkers  atomic.Int64
	size        atomic.Int64 // len(workers) snapshot for lock-free reads
	freeWorkers atomic.Int64

	// wg tracks the dispatcher and all workers; tests use it to observe
	// full termination, since Shutdown itself never waits.
	wg sync.WaitGroup
}

// wakeDispatcher delivers at most one pending wake token.
func (s *state) wakeDispatcher() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *state) setMaxWorkers(n int) {
	if n < 1 {
		n = 1
	}
	s.maxWorkers.Store(int64(n))
}

// addWorkerLocked appends a new worker to the table. Caller holds s.mu
// (or is the constructor, before the state is shared).
func (s *state) addWorkerLocked() {
	s.nextID++
	s.workers = append(s.workers, newWorker(s.nextID, &s.wg, s.notify))
	s.size.Store(int64(len(s.workers)))
}

// Pool is a dynamically resizable worker pool. Arbitrary goroutines
// submit tasks; a single dispatcher goroutine matches queued tasks to
// idle workers in FIFO order.
//
// The zero value is not usable; construct with New. A Pool handle whose
// pool was shut down stays safe to call.
type Pool struct {
	data *state
}

// New creates a pool with the given number of workers, clamped to
// maxWorkers (itself clamped to at least 1), and starts its dispatcher.
// Workers are created eagerly.
func New(workers, maxWorkers int) *Pool {
	s := &state{
		queue:  newTaskQueue(),
		signal: make(chan struct{}, 1),
	}
	s.setMaxWorkers(maxWorkers)
	if m := int(s.maxWorkers.Load()); workers > m {
		workers = m
	}

	// A worker reports free exactly once per finished task. Waking the
	// dispatcher only on the 0→1 edge mirrors the submit path: beyond
	// the edge the dispatcher is either awake or already has a token.
	s.notify = func(free bool, _ int) {
		if free && s.freeWorkers.Add(1) == 1 {
			s.wakeDispatcher()
		}
	}

	for i := 0; i < workers; i++ {
		s.addWorkerLocked()
	}
	s.freeWorkers.Store(int64(len(s.workers)))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		dispatch(s)
	}()

	return &Pool{data: s}
}

// Concurrency returns the number of hardware execution contexts usable
// by the host, as reported by the runtime.
func Concurrency() int {
	return runtime.NumCPU()
}

// Submit enqueues a work/completion pair for execution.
func (p *Pool) Submit(work, completion func()) {
	p.SubmitTask(Task{Work: work, Completion: completion})
}

// SubmitTask enqueues one task. If the queue was empty before the push,
// the dispatcher is woken once; otherwise it is either already draining
// the queue or holds an earlier token.
func (p *Pool) SubmitTask(t Task) {
	if p.data.queue.push(t) == 1 {
		p.data.wakeDispatcher()
	}
}

// SubmitBatch enqueues tasks as one contiguous run preserving order.
func (p *Pool) SubmitBatch(tasks []Task) {
	if len(tasks) == 0 {
		return
	}
	if p.data.queue.pushBatch(tasks) == len(tasks) {
		p.data.wakeDispatcher()
	}
}

// SetMaxWorkers sets the growth ceiling, clamped to at least 1. Lowering
// the ceiling never destroys existing workers; it only constrains future
// Resize calls.
func (p *Pool) SetMaxWorkers(n int) {
	p.data.setMaxWorkers(n)
}

// MaxWorkers returns the current growth ceiling.
func (p *Pool) MaxWorkers() int {
	return int(p.data.maxWorkers.Load())
}

// Resize grows the pool to n workers. Shrinking is unsupported by
// design, not an omission: Resize returns false when n is at or below
// the current size, or above MaxWorkers.
func (p *Pool) Resize(n int) bool {
	s := p.data
	if int64(n) > s.maxWorkers.Load() {
		return false
	}

	s.mu.Lock()
	grow := n - len(s.workers)
	if grow <= 0 {
		s.mu.Unlock()
		return false
	}
	for i := 0; i < grow; i++ {
		s.addWorkerLocked()
	}
	s.mu.Unlock()

	// New workers start idle. Wake the dispatcher if there were no free
	// workers before the growth.
	if s.freeWorkers.Add(int64(grow)) == int64(grow) {
		s.wakeDispatcher()
	}
	return true
}

// Size returns the current number of workers.
func (p *Pool) Size() int {
	return int(p.data.size.Load())
}

// FreeWorkers returns the number of idle workers. The read is clamped at
// zero: a dispatch decrements the counter before the finishing worker's
// increment lands, so a raw read can transiently dip below zero.
func (p *Pool) FreeWorkers() int {
	if n := p.data.freeWorkers.Load(); n > 0 {
		return int(n)
	}
	return 0
}

// QueueSize returns a snapshot of the number of queued tasks.
func (p *Pool) QueueSize() int {
	return p.data.queue.size()
}

// Shutdown closes the pool. It is idempotent and fire-and-forget: the
// dispatcher is woken to observe the closed flag and destroy the
// workers, but Shutdown does not wait for any of that. In-flight tasks
// run to completion; tasks still queued are abandoned. Submitting after
// Shutdown still enqueues, but nothing will ever consume those tasks.
//
// Shutdown on a nil or zero-value handle is a no-op.
func (p *Pool) Shutdown() {
	if p == nil || p.data == nil {
		return
	}
	if !p.data.closed.CompareAndSwap(false, true) {
		return
	}
	p.data.wakeDispatcher()
}
