package threadpool

import (
	"sync"
	"testing"

	"github.com/vnykmshr/threadflow/internal/testutil"
)

func TestQueuePushPop(t *testing.T) {
	q := newTaskQueue()
	testutil.AssertEqual(t, q.size(), 0)

	var ran int
	testutil.AssertEqual(t, q.push(Task{Work: func() { ran = 1 }}), 1)
	testutil.AssertEqual(t, q.push(Task{Work: func() { ran = 2 }}), 2)
	testutil.AssertEqual(t, q.size(), 2)

	q.mu.Lock()
	testutil.AssertEqual(t, q.emptyLocked(), false)
	first := q.frontLocked()
	popped := q.popLocked()
	q.mu.Unlock()

	// front and pop must observe the same head.
	first.Work()
	testutil.AssertEqual(t, ran, 1)
	popped.Work()
	testutil.AssertEqual(t, ran, 1)
	testutil.AssertEqual(t, q.size(), 1)

	q.mu.Lock()
	q.popLocked()
	testutil.AssertEqual(t, q.emptyLocked(), true)
	q.mu.Unlock()
	testutil.AssertEqual(t, q.size(), 0)
}

func TestQueueFIFO(t *testing.T) {
	q := newTaskQueue()
	var got []int
	for i := 0; i < 10; i++ {
		i := i
		q.push(Task{Work: func() { got = append(got, i) }})
	}

	q.mu.Lock()
	for !q.emptyLocked() {
		q.popLocked().Work()
	}
	q.mu.Unlock()

	for i, v := range got {
		testutil.AssertEqual(t, v, i)
	}
}

func TestQueueBatchLength(t *testing.T) {
	q := newTaskQueue()
	q.push(Task{})
	testutil.AssertEqual(t, q.pushBatch([]Task{{}, {}, {}}), 4)
	testutil.AssertEqual(t, q.size(), 4)
}

// TestQueueBatchContiguity verifies that a batch is visible to pops as a
// single atomic append: concurrent batches never interleave.
func TestQueueBatchContiguity(t *testing.T) {
	q := newTaskQueue()

	const pushers = 8
	const batchLen = 5

	var got []int
	var wg sync.WaitGroup
	for p := 0; p < pushers; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch := make([]Task, batchLen)
			for i := range batch {
				id := p*batchLen + i
				batch[i] = Task{Work: func() { got = append(got, id) }}
			}
			q.pushBatch(batch)
		}()
	}
	wg.Wait()

	// Drain single-threaded; the Work closures record arrival order.
	q.mu.Lock()
	for !q.emptyLocked() {
		q.popLocked().Work()
	}
	q.mu.Unlock()

	testutil.AssertEqual(t, len(got), pushers*batchLen)
	for i := 0; i < len(got); i += batchLen {
		base := got[i]
		testutil.AssertEqual(t, base%batchLen, 0)
		for j := 1; j < batchLen; j++ {
			testutil.AssertEqual(t, got[i+j], base+j)
		}
	}
}
