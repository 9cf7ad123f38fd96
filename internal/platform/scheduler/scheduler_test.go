package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScheduler() *TimerScheduler {
	return NewTimerScheduler(zap.NewNop().Sugar())
}

func TestTimerScheduler_FiresHandler(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop()

	fired := make(chan string, 1)
	s.SetHandler(func(_ context.Context, id string) { fired <- id })

	s.Schedule("sub-1", time.Now().Add(10*time.Millisecond))
	select {
	case id := <-fired:
		require.Equal(t, "sub-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	require.Equal(t, 0, s.Pending())
}

func TestTimerScheduler_PastDeadlineFiresImmediately(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop()

	fired := make(chan string, 1)
	s.SetHandler(func(_ context.Context, id string) { fired <- id })

	s.Schedule("expired", time.Now().Add(-time.Hour))
	select {
	case id := <-fired:
		require.Equal(t, "expired", id)
	case <-time.After(2 * time.Second):
		t.Fatal("past-deadline timer never fired")
	}
}

func TestTimerScheduler_CancelPreventsFire(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop()

	var mu sync.Mutex
	var firedIDs []string
	s.SetHandler(func(_ context.Context, id string) {
		mu.Lock()
		firedIDs = append(firedIDs, id)
		mu.Unlock()
	})

	s.Schedule("sub-1", time.Now().Add(30*time.Millisecond))
	s.Cancel("sub-1")
	require.Equal(t, 0, s.Pending())

	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Empty(t, firedIDs)
}

func TestTimerScheduler_RescheduleReplacesTimer(t *testing.T) {
	s := newTestScheduler()
	defer s.Stop()

	fired := make(chan string, 2)
	s.SetHandler(func(_ context.Context, id string) { fired <- id })

	s.Schedule("sub-1", time.Now().Add(time.Hour))
	s.Schedule("sub-1", time.Now().Add(10*time.Millisecond))
	require.Equal(t, 1, s.Pending())

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement timer never fired")
	}
	// Only one fire for the id
	select {
	case <-fired:
		t.Fatal("duplicate fire after reschedule")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimerScheduler_StopCancelsEverything(t *testing.T) {
	s := newTestScheduler()

	fired := make(chan string, 1)
	s.SetHandler(func(_ context.Context, id string) { fired <- id })

	s.Schedule("a", time.Now().Add(20*time.Millisecond))
	s.Schedule("b", time.Now().Add(20*time.Millisecond))
	s.Stop()
	require.Equal(t, 0, s.Pending())

	// Scheduling after stop is a no-op
	s.Schedule("c", time.Now().Add(5*time.Millisecond))
	select {
	case id := <-fired:
		t.Fatalf("fired %q after stop", id)
	case <-time.After(100 * time.Millisecond):
	}
}
