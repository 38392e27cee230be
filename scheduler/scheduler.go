package scheduler

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs a dispatch task at regular intervals while there is
// work to do. The task reports through its return value whether another
// tick is needed; returning false stops the loop until the next Kick.
type Scheduler struct {
	interval time.Duration
	task     func(context.Context) bool
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
	kicked   bool
	cancel   context.CancelFunc
}

// New creates a new Scheduler instance
func New(interval time.Duration, task func(context.Context) bool) *Scheduler {
	return &Scheduler{
		interval: interval,
		task:     task,
	}
}

// Kick starts the tick loop if it is not already running. The task runs
// once immediately and then on every interval until it returns false or
// the context is cancelled. Kicking a running loop keeps it alive past
// its next stop decision, so work enqueued during the final tick is
// never lost.
func (s *Scheduler) Kick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.kicked = true
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			if !s.task(ctx) {
				s.mu.Lock()
				if !s.kicked {
					s.running = false
					s.mu.Unlock()
					return
				}
				s.kicked = false
				s.mu.Unlock()
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				s.mu.Lock()
				s.running = false
				s.kicked = false
				s.mu.Unlock()
				return
			}
		}
	}()
}

// Stop terminates the tick loop and waits for the in-flight tick to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// IsRunning returns true if the tick loop is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
