package engine

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Debouncer is a trailing-edge debounce. At most one timer is outstanding;
// each Trigger cancels it and schedules a new one, so fn runs once per
// settled burst.
type Debouncer struct {
	clock clock.WithDelayedExecution
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer clock.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer that calls fn delay after the last Trigger.
func NewDebouncer(c clock.WithDelayedExecution, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{clock: c, delay: delay, fn: fn}
}

// Trigger restarts the window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	// fn must not run on the clock's goroutine: fake clocks invoke
	// callbacks while holding their own lock.
	d.timer = d.clock.AfterFunc(d.delay, func() { go d.fire(gen) })
}

// Cancel drops any pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
