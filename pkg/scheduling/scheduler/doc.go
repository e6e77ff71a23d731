// Package scheduler provides time-based task execution on top of a
// worker pool. It supports one-shot, fixed-interval and cron-expression
// scheduling; due tasks are submitted to the pool, so execution
// concurrency and ordering follow the pool's own rules.
//
// Basic usage:
//
//	pool := threadpool.New(4, 8)
//	s := scheduler.NewWithConfig(scheduler.Config{Pool: pool})
//	s.Start()
//	defer s.Stop()
//
//	s.ScheduleAfter("cleanup", threadpool.Task{Work: cleanup}, time.Minute)
//	s.ScheduleCron("report", "0 0 * * * *", threadpool.Task{Work: report})
//
// Cron expressions use six fields with a leading seconds field.
//
// The scheduler polls for due entries on a fixed tick, so firing times
// are accurate to within one tick interval. Entries are identified by
// caller-chosen IDs; an ID can be reused after Cancel.
package scheduler
