package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/threadflow/pkg/common/errors"
	"github.com/vnykmshr/threadflow/pkg/scheduling/threadpool"
)

// Entry describes a scheduled task for listing purposes.
type Entry struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // zero for one-time and cron entries
	Created  time.Time
}

// Scheduler runs tasks at points in time, handing each ready task to a
// worker pool for execution.
type Scheduler interface {
	// One-shot scheduling.
	Schedule(id string, task threadpool.Task, runAt time.Time) error
	ScheduleAfter(id string, task threadpool.Task, delay time.Duration) error

	// Recurring scheduling.
	ScheduleRepeating(id string, task threadpool.Task, interval time.Duration) error
	ScheduleCron(id string, cronExpr string, task threadpool.Task) error

	// Entry management.
	Cancel(id string) bool
	CancelAll()
	List() []Entry

	// Lifecycle. Start is required before any entry fires; Stop halts
	// the tick loop and shuts down the pool if the scheduler owns it.
	Start() error
	Stop()
}

// Config holds scheduler configuration. The zero value is usable: a
// private pool is created, times resolve in the local zone, and ticking
// defaults to 50ms.
type Config struct {
	Pool         *threadpool.Pool
	Location     *time.Location
	TickInterval time.Duration
	MaxEntries   int
}

type scheduledEntry struct {
	id           string
	task         threadpool.Task
	runAt        time.Time
	interval     time.Duration
	cronSchedule cron.Schedule
	created      time.Time
}

type scheduler struct {
	pool         *threadpool.Pool
	ownPool      bool
	location     *time.Location
	tickInterval time.Duration
	maxEntries   int
	cronParser   cron.Parser

	mu      sync.RWMutex
	entries map[string]*scheduledEntry
	ticker  *time.Ticker
	done    chan struct{}
	running bool
}

// New creates a scheduler with default configuration.
func New() Scheduler {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler. A nil cfg.Pool means the scheduler
// creates and owns its pool, shutting it down on Stop.
func NewWithConfig(cfg Config) Scheduler {
	pool := cfg.Pool
	ownPool := false
	if pool == nil {
		pool = threadpool.New(4, 8)
		ownPool = true
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	return &scheduler{
		pool:         pool,
		ownPool:      ownPool,
		location:     location,
		tickInterval: tickInterval,
		maxEntries:   maxEntries,
		cronParser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		entries:      make(map[string]*scheduledEntry),
	}
}

func validateEntry(id string, task threadpool.Task) error {
	if id == "" {
		return errors.NewValidationError("scheduler", "id", id, "entry ID cannot be empty")
	}
	if len(id) > 255 {
		return errors.NewValidationError("scheduler", "id", id, "entry ID too long").
			WithHint("IDs are limited to 255 characters")
	}
	if task.Work == nil {
		return errors.NewValidationError("scheduler", "task", nil, "task work function cannot be nil")
	}
	return nil
}

// addEntry inserts e, enforcing ID uniqueness and the entry cap.
func (s *scheduler) addEntry(e *scheduledEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.id]; exists {
		return fmt.Errorf("entry %q already exists, cancel it first", e.id)
	}
	if len(s.entries) >= s.maxEntries {
		return fmt.Errorf("scheduler holds %d entries: %w", s.maxEntries, errors.ErrCapacityExceeded)
	}

	s.entries[e.id] = e
	return nil
}

func (s *scheduler) Schedule(id string, task threadpool.Task, runAt time.Time) error {
	if err := validateEntry(id, task); err != nil {
		return err
	}
	if runAt.IsZero() {
		return errors.NewValidationError("scheduler", "runAt", runAt, "run time cannot be zero")
	}

	return s.addEntry(&scheduledEntry{
		id:      id,
		task:    task,
		runAt:   runAt,
		created: time.Now(),
	})
}

func (s *scheduler) ScheduleAfter(id string, task threadpool.Task, delay time.Duration) error {
	return s.Schedule(id, task, time.Now().Add(delay))
}

func (s *scheduler) ScheduleRepeating(id string, task threadpool.Task, interval time.Duration) error {
	if err := validateEntry(id, task); err != nil {
		return err
	}
	if interval <= 0 {
		return errors.NewValidationError("scheduler", "interval", interval, "interval must be positive")
	}

	now := time.Now()
	return s.addEntry(&scheduledEntry{
		id:       id,
		task:     task,
		runAt:    now,
		interval: interval,
		created:  now,
	})
}

func (s *scheduler) ScheduleCron(id string, cronExpr string, task threadpool.Task) error {
	if err := validateEntry(id, task); err != nil {
		return err
	}
	if cronExpr == "" {
		return errors.NewValidationError("scheduler", "cronExpr", cronExpr, "cron expression cannot be empty")
	}

	schedule, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return errors.NewValidationError("scheduler", "cronExpr", cronExpr, err.Error()).
			WithHint("expressions use six fields, seconds first")
	}

	now := time.Now()
	return s.addEntry(&scheduledEntry{
		id:           id,
		task:         task,
		runAt:        schedule.Next(now.In(s.location)),
		cronSchedule: schedule,
		created:      now,
	})
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists {
		return false
	}
	delete(s.entries, id)
	return true
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*scheduledEntry)
}

func (s *scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, Entry{
			ID:       e.id,
			RunAt:    e.runAt,
			Interval: e.interval,
			Created:  e.created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RunAt.Before(entries[j].RunAt)
	})
	return entries
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running, call Stop first")
	}

	s.running = true
	s.ticker = time.NewTicker(s.tickInterval)
	s.done = make(chan struct{})

	go s.run(s.ticker, s.done)
	return nil
}

func (s *scheduler) Stop() {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.done)
		s.ticker.Stop()
	}
	s.mu.Unlock()

	if s.ownPool {
		s.pool.Shutdown()
	}
}

func (s *scheduler) run(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.processReady(time.Now())
		}
	}
}

// processReady collects due entries under the lock, reschedules the
// recurring ones, then submits outside the lock.
func (s *scheduler) processReady(now time.Time) {
	s.mu.Lock()
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return
	}

	var ready []*scheduledEntry
	for id, e := range s.entries {
		if now.Before(e.runAt) {
			continue
		}
		ready = append(ready, e)

		switch {
		case e.interval > 0:
			e.runAt = now.Add(e.interval)
		case e.cronSchedule != nil:
			e.runAt = e.cronSchedule.Next(now.In(s.location))
		default:
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, e := range ready {
		s.pool.SubmitTask(e.task)
	}
}
