// Package scheduler provides the injected one-shot scheduling facility
// the lifecycle manager uses for purge callbacks. The engine only ever
// needs "run the handler with this id at-or-after time T" and "cancel
// id"; the in-process timer implementation covers that, and purge
// timers are rebuilt from the subscription table on startup.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Handler receives the id of a fired entry on its own goroutine.
type Handler func(ctx context.Context, id string)

// Scheduler schedules a callback keyed by id. Scheduling an id that is
// already pending replaces the previous timer, never duplicates it.
type Scheduler interface {
	Schedule(id string, at time.Time)
	Cancel(id string)
}

type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	handler Handler
	stopped bool
	log     *zap.SugaredLogger
}

func NewTimerScheduler(log *zap.SugaredLogger) *TimerScheduler {
	return &TimerScheduler{
		timers: make(map[string]*time.Timer),
		log:    log,
	}
}

// SetHandler must be called before the first Schedule. Kept separate
// from the constructor so fx can wire the scheduler and its consumer
// without a construction cycle.
func (s *TimerScheduler) SetHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *TimerScheduler) Schedule(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	d := time.Until(at)
	if d < 0 {
		d = 0
	}
	s.timers[id] = time.AfterFunc(d, func() { s.fire(id) })
}

func (s *TimerScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *TimerScheduler) fire(id string) {
	s.mu.Lock()
	delete(s.timers, id)
	h := s.handler
	stopped := s.stopped
	s.mu.Unlock()
	if stopped || h == nil {
		return
	}
	h(context.Background(), id)
}

// Stop cancels all pending timers. In-flight handlers are not waited
// on; their effects are idempotent by contract.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending reports the number of scheduled entries.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

var Module = fx.Options(
	fx.Provide(NewTimerScheduler),
	fx.Provide(func(s *TimerScheduler) Scheduler { return s }),
	fx.Invoke(func(lc fx.Lifecycle, s *TimerScheduler) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				s.Stop()
				return nil
			},
		})
	}),
)
