package threadpool

// dispatch is the pool's single coordination loop. It bridges the task
// queue and the worker table: wait for a free worker, then for each free
// worker wait for a task, hand it over, and repeat until the pool is
// closed, at which point every worker is destroyed and the goroutine
// returns.
//
// Lock order is invariant: worker-table lock outside, queue lock inside.
// No other code path acquires both.
func dispatch(s *state) {
	for !s.closed.Load() {
		s.mu.Lock()

		// Wait until some worker is free, or the pool closes.
		for s.freeWorkers.Load() == 0 && !s.closed.Load() {
			s.mu.Unlock()
			<-s.signal
			s.mu.Lock()
		}
		if s.closed.Load() {
			s.mu.Unlock()
			break
		}

		// Hand queued tasks to free workers. Ranging over the current
		// slice header is safe: workers are only appended, never
		// removed before the dispatcher itself exits.
		for _, w := range s.workers {
			if s.freeWorkers.Load() == 0 || s.closed.Load() {
				break
			}
			if !w.free() {
				continue
			}

			s.queue.mu.Lock()

			// Wait until a task is queued, or the pool closes. Both
			// locks are released around the wait (queue first, the
			// reverse of acquisition) so that submission, growth and
			// introspection stay unblocked while the pool sits idle;
			// every predicate is re-checked after relocking. The worker
			// under consideration stays Idle meanwhile, since only the
			// dispatcher assigns work.
			closing := false
			for {
				if s.closed.Load() {
					closing = true
					break
				}
				if !s.queue.emptyLocked() {
					break
				}
				s.queue.mu.Unlock()
				s.mu.Unlock()
				<-s.signal
				s.mu.Lock()
				s.queue.mu.Lock()
			}
			if closing {
				s.queue.mu.Unlock()
				s.mu.Unlock()
				s.destroyWorkers()
				return
			}

			// The task is popped and the free count decremented only
			// once the worker has accepted the hand-off, so a refused
			// configure cannot lose a task.
			if w.configure(s.queue.frontLocked()) && w.start() {
				s.queue.popLocked()
				s.freeWorkers.Add(-1)
			}
			s.queue.mu.Unlock()
		}
		s.mu.Unlock()
	}

	s.destroyWorkers()
}

// destroyWorkers tears down every worker on the dispatcher's way out.
// Running tasks finish first; each worker exits at its next idle check.
func (s *state) destroyWorkers() {
	s.mu.Lock()
	workers := s.workers
	s.mu.Unlock()

	for _, w := range workers {
		w.destroy()
	}
}
