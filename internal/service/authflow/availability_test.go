package authflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type availabilityCheckerMock struct {
	mu    sync.Mutex
	calls []string
	fn    func(ctx context.Context, username string) (bool, error)
}

func (m *availabilityCheckerMock) IsAvailable(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	m.calls = append(m.calls, username)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, username)
	}
	return true, nil
}

func (m *availabilityCheckerMock) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func collectResults() (func(AvailabilityResult), chan AvailabilityResult) {
	ch := make(chan AvailabilityResult, 16)
	return func(r AvailabilityResult) { ch <- r }, ch
}

func TestDebouncer_OnlyLastKeystrokeResolves(t *testing.T) {
	t.Parallel()

	checker := &availabilityCheckerMock{}
	deliver, results := collectResults()
	d := NewDebouncer(30*time.Millisecond, checker, deliver)

	// Typing "osk", "oski", "oski_b" in quick succession.
	d.Check("osk")
	time.Sleep(5 * time.Millisecond)
	d.Check("oski")
	time.Sleep(5 * time.Millisecond)
	d.Check("oski_b")

	select {
	case r := <-results:
		assert.Equal(t, "oski_b", r.Username)
		assert.True(t, r.Available)
		assert.NoError(t, r.Err)
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}

	// Earlier keystrokes never reached the registry.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, checker.callCount())
	assert.Empty(t, results)
}

func TestDebouncer_SupersededInFlightLookupDiscarded(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	checker := &availabilityCheckerMock{
		fn: func(ctx context.Context, username string) (bool, error) {
			if username == "slow" {
				close(started)
				// Simulate a slow registry round trip; a well-behaved
				// lookup returns once its context is cancelled.
				<-ctx.Done()
				return false, ctx.Err()
			}
			return true, nil
		},
	}
	deliver, results := collectResults()
	d := NewDebouncer(time.Millisecond, checker, deliver)

	d.Check("slow")
	<-started

	// Next keystroke supersedes the in-flight lookup.
	d.Check("fast")

	select {
	case r := <-results:
		assert.Equal(t, "fast", r.Username, "superseded lookup must be discarded, not delivered")
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, results, "the slow lookup must never surface")
}

func TestDebouncer_StopDiscardsPendingCheck(t *testing.T) {
	t.Parallel()

	checker := &availabilityCheckerMock{}
	deliver, results := collectResults()
	d := NewDebouncer(20*time.Millisecond, checker, deliver)

	d.Check("oski")
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, checker.callCount())
	assert.Empty(t, results)
}

func TestDebouncer_ErrorsAreDelivered(t *testing.T) {
	t.Parallel()

	checker := &availabilityCheckerMock{
		fn: func(ctx context.Context, username string) (bool, error) {
			return false, context.DeadlineExceeded
		},
	}
	deliver, results := collectResults()
	d := NewDebouncer(time.Millisecond, checker, deliver)

	d.Check("oski")

	select {
	case r := <-results:
		require.Error(t, r.Err)
		assert.False(t, r.Available)
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}
}
