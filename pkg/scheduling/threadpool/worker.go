package threadpool

import (
	"sync"
	"sync/atomic"
)

type workerState int32

const (
	stateIdle workerState = iota
	stateAssigned
	stateRunning
	stateDestroyed
)

// worker owns one goroutine and runs at most one task at a time.
//
// State moves Idle→Assigned→Running→Idle in the normal cycle, and to
// Destroyed on pool shutdown. configure and start are only called by the
// dispatcher while it holds the worker-table lock, so the free check and
// the Idle→Assigned transition cannot race another assignment. The
// worker itself only ever performs the Running→Idle transition.
type worker struct {
	id    int
	state atomic.Int32
	task  Task
	wake  chan struct{}
	dying atomic.Bool

	// notify reports the idle transition to the pool so the free-worker
	// count and the dispatcher wake signal stay consistent. It is not a
	// per-task result channel.
	notify func(free bool, id int)
}

// newWorker creates a worker and starts its goroutine, registered on wg
// for shutdown accounting.
func newWorker(id int, wg *sync.WaitGroup, notify func(free bool, id int)) *worker {
	w := &worker{
		id:     id,
		wake:   make(chan struct{}, 1),
		notify: notify,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.run()
	}()
	return w
}

// free reports whether the worker can accept a task.
func (w *worker) free() bool {
	return workerState(w.state.Load()) == stateIdle
}

// configure installs a task. Valid only from Idle; callers must hold the
// worker-table lock across the free check and this call.
func (w *worker) configure(t Task) bool {
	if !w.state.CompareAndSwap(int32(stateIdle), int32(stateAssigned)) {
		return false
	}
	w.task = t
	return true
}

// start wakes the worker to run the configured task.
func (w *worker) start() bool {
	if workerState(w.state.Load()) != stateAssigned {
		return false
	}
	w.wakeUp()
	return true
}

// destroy marks the worker for termination and wakes it. A running task
// is not interrupted; the worker observes the flag at its next idle
// check and exits instead of waiting for new work.
func (w *worker) destroy() {
	w.dying.Store(true)
	w.wakeUp()
}

// wakeUp delivers at most one pending wake token. Coalesced tokens are
// fine: run re-checks state on every wake.
func (w *worker) wakeUp() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// run blocks until started or destroyed; no busy-waiting. A panic raised
// by Work or Completion is absorbed so a failing task cannot take the
// worker's goroutine down: the worker still returns to Idle and reports
// itself free, otherwise the pool would silently lose capacity.
func (w *worker) run() {
	for {
		if w.dying.Load() {
			w.state.Store(int32(stateDestroyed))
			return
		}
		<-w.wake
		if w.dying.Load() {
			w.state.Store(int32(stateDestroyed))
			return
		}
		if !w.state.CompareAndSwap(int32(stateAssigned), int32(stateRunning)) {
			continue // stale wake token
		}

		t := w.task
		w.task = Task{}
		runContained(t.Work)
		runContained(t.Completion)

		w.state.Store(int32(stateIdle))
		w.notify(true, w.id)
	}
}

// runContained executes fn and swallows any panic it raises. A failed
// task is complete as far as the pool is concerned; recovery belongs to
// the caller's completion logic.
func runContained(fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	fn()
}
