// Package debounce provides a cancellable deferred action that coalesces
// rapid reschedules into a single execution.
package debounce

import (
	"sync"
	"time"
)

// Timer is a scheduled action that can be stopped before it fires.
type Timer interface {
	// Stop prevents the action from running.
	// Returns false if the action already ran or was stopped.
	Stop() bool
}

// Clock schedules deferred actions.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules actions with the runtime timer.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs at most one action per quiescence window.
// Each Schedule call releases the previous timer before arming a new one.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	timer   Timer
	seq     uint64
	stopped bool
}

// New creates a Debouncer with the given quiescence window.
// A nil clock uses SystemClock.
func New(delay time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{clock: clock, delay: delay}
}

// Delay returns the quiescence window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule arms fn to run after the quiescence window, cancelling any
// previously scheduled action. It is a no-op after Stop.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A reschedule or cancel raced with this timer firing.
		if d.stopped || d.seq != seq || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Cancel releases the pending action, if any.
// Returns true if an action was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

func (d *Debouncer) cancelLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	return true
}

// Pending reports whether an action is scheduled and has not yet started.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending action and refuses further schedules.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}
