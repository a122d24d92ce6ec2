package authflow

import (
	"context"
	"sync"
	"time"
)

// availabilityChecker defines the registry lookup needed by the debouncer.
type availabilityChecker interface {
	IsAvailable(ctx context.Context, username string) (bool, error)
}

// AvailabilityResult is delivered to the debouncer's callback once a
// non-superseded check resolves.
type AvailabilityResult struct {
	Username  string
	Available bool
	Err       error
}

// Debouncer coalesces username-availability lookups while the user types.
// Each Check supersedes the previous one: its timer is stopped and its
// in-flight lookup cancelled, and a superseded lookup that resolves anyway
// is discarded rather than delivered.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	checker availabilityChecker
	deliver func(AvailabilityResult)

	timer  *time.Timer
	cancel context.CancelFunc
	seq    uint64
}

// NewDebouncer creates a debouncer that waits delay after the last Check
// before hitting the registry, and calls deliver with the result. deliver
// runs on the timer goroutine.
func NewDebouncer(delay time.Duration, checker availabilityChecker, deliver func(AvailabilityResult)) *Debouncer {
	return &Debouncer{
		delay:   delay,
		checker: checker,
		deliver: deliver,
	}
}

// Check schedules a lookup for username after the debounce delay,
// superseding any pending or in-flight lookup.
func (d *Debouncer) Check(username string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.supersedeLocked()

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.seq++
	seq := d.seq

	d.timer = time.AfterFunc(d.delay, func() {
		available, err := d.checker.IsAvailable(ctx, username)

		d.mu.Lock()
		stale := seq != d.seq || ctx.Err() != nil
		d.mu.Unlock()
		if stale {
			return
		}

		d.deliver(AvailabilityResult{
			Username:  username,
			Available: available,
			Err:       err,
		})
	})
}

// Stop cancels any pending or in-flight lookup. Used on sign-out and once
// the username is committed.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
	d.seq++
}

func (d *Debouncer) supersedeLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
