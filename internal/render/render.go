// Package render schedules re-renders so that a burst of requests collapses
// into at most one run in flight plus one pending run.
package render

import (
	"context"
	"sync"
	"time"
)

// RunFunc performs one render. ctx is cancelled when the scheduler closes.
type RunFunc func(ctx context.Context)

type Scheduler struct {
	run   RunFunc
	delay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	idle    *sync.Cond
	running bool
	pending bool
	closed  bool
	runs    int
}

// New returns a Scheduler calling run. A positive delay is waited before each
// run so that requests arriving within it share the run.
func New(run RunFunc, delay time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		run:    run,
		delay:  delay,
		ctx:    ctx,
		cancel: cancel,
	}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Request asks for a run. It never blocks. It returns false once the
// scheduler is closed.
func (s *Scheduler) Request() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if s.running {
		s.pending = true
		return true
	}
	s.running = true
	s.wg.Add(1)
	go s.loop()
	return true
}

func (s *Scheduler) loop() {
	defer s.wg.Done()
	for {
		if s.delay > 0 {
			t := time.NewTimer(s.delay)
			select {
			case <-t.C:
			case <-s.ctx.Done():
				t.Stop()
			}
		}

		s.mu.Lock()
		s.pending = false
		closed := s.closed
		s.mu.Unlock()

		if !closed {
			s.run(s.ctx)
		}

		s.mu.Lock()
		if !closed {
			s.runs++
		}
		if s.pending && !s.closed {
			s.mu.Unlock()
			continue
		}
		s.running = false
		s.pending = false
		s.idle.Broadcast()
		s.mu.Unlock()
		return
	}
}

// Wait blocks until no run is in flight or pending.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	for s.running {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

// Runs returns how many runs have completed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Close drops any pending run, cancels the one in flight and waits for it to
// return. Further requests are refused.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
