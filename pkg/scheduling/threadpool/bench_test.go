package threadpool

import (
	"sync"
	"testing"
)

func BenchmarkSubmit(b *testing.B) {
	pool := New(4, 4)
	defer stop(pool)

	var wg sync.WaitGroup
	wg.Add(b.N)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() {}, wg.Done)
	}
	wg.Wait()
}

func BenchmarkSubmitParallel(b *testing.B) {
	pool := New(8, 8)
	defer stop(pool)

	var wg sync.WaitGroup
	wg.Add(b.N)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pool.Submit(func() {}, wg.Done)
		}
	})
	wg.Wait()
}

func BenchmarkSubmitBatch(b *testing.B) {
	pool := New(4, 4)
	defer stop(pool)

	const batchLen = 16
	var wg sync.WaitGroup
	wg.Add(b.N * batchLen)
	batch := make([]Task, batchLen)
	for i := range batch {
		batch[i] = Task{Work: func() {}, Completion: wg.Done}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.SubmitBatch(batch)
	}
	wg.Wait()
}
