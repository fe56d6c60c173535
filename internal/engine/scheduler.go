package engine

import (
	"sync"
	"time"
)

// FrameScheduler defers a function to the next frame. Schedule must not
// run fn synchronously.
type FrameScheduler interface {
	Schedule(fn func())
}

// TickScheduler queues functions until the host calls Tick.
type TickScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewTickScheduler creates an empty tick scheduler.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Schedule queues fn for the next Tick.
func (s *TickScheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// Tick runs the queued functions and returns how many ran. Functions
// scheduled while ticking run on the following Tick.
func (s *TickScheduler) Tick() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// Pending returns the number of queued functions.
func (s *TickScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// IntervalScheduler runs functions after a fixed frame interval on a timer
// goroutine.
type IntervalScheduler struct {
	interval time.Duration
}

// NewIntervalScheduler creates a scheduler with the given frame interval.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &IntervalScheduler{interval: interval}
}

// Schedule runs fn after one frame interval.
func (s *IntervalScheduler) Schedule(fn func()) {
	time.AfterFunc(s.interval, fn)
}
