// Package debounce implements the timer-coalescing helper used for
// search-as-you-type: repeated calls within the quiet period cancel the
// pending action and reschedule it, so only the last call of a burst runs.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into a single delayed invocation
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
}

// New creates a debouncer with the given quiet period
func New(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Call schedules fn to run after the quiet period, cancelling any
// previously scheduled call that has not fired yet
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Stop cancels any pending call
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
