// Package gesture classifies taps on the playback surface.
//
// A Detector counts taps inside a rolling window. Every tap re-arms the
// window; a lapse of Window without a tap resets the count. Reaching
// SequenceLength taps yields OpenMenu and resets the count at once, every
// other tap yields Resume.
package gesture

import (
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// SequenceLength is the number of taps that opens the menu.
	SequenceLength = 5

	// Window is the rolling debounce window re-armed by every tap.
	Window = 1000 * time.Millisecond
)

// Signal is the outcome of a single tap.
type Signal int

const (
	Resume Signal = iota
	OpenMenu
)

func (s Signal) String() string {
	if s == OpenMenu {
		return "open-menu"
	}
	return "resume-playback"
}

// Arm describes the window armed by the latest tap. The caller schedules
// Expire(Generation) to run at Deadline; an Arm superseded by a later tap
// carries a stale generation and its expiry is ignored.
type Arm struct {
	Generation uint64
	Deadline   time.Time
}

// Detector is the tap counter. It is not safe for concurrent use: taps and
// expiries must be delivered from a single event loop.
type Detector struct {
	clock      clockwork.Clock
	count      int
	armed      bool
	deadline   time.Time
	generation uint64
}

// New returns a Detector reading time from clock.
func New(clock clockwork.Clock) *Detector {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Detector{clock: clock}
}

// Tap registers one tap and classifies it.
func (d *Detector) Tap() (Signal, Arm) {
	now := d.clock.Now()

	// An expiry due at or before this tap is processed first.
	if d.lapsed(now) {
		d.reset()
	}

	d.count++
	arm := d.armWindow(now.Add(Window))

	if d.count == SequenceLength {
		d.count = 0
		return OpenMenu, arm
	}

	return Resume, arm
}

// Expire handles the firing of the window armed with generation.
// It reports whether the counter was reset.
func (d *Detector) Expire(generation uint64) bool {
	if !d.armed || generation != d.generation {
		return false
	}
	d.reset()
	return true
}

// Count returns the number of taps counted in the current window.
func (d *Detector) Count() int {
	if d.lapsed(d.clock.Now()) {
		return 0
	}
	return d.count
}

// WindowActive reports whether a reset is pending.
func (d *Detector) WindowActive() bool {
	return d.armed && !d.lapsed(d.clock.Now())
}

// armWindow replaces any previously armed deadline.
func (d *Detector) armWindow(deadline time.Time) Arm {
	d.generation++
	d.deadline = deadline
	d.armed = true
	return Arm{Generation: d.generation, Deadline: deadline}
}

func (d *Detector) lapsed(now time.Time) bool {
	return d.armed && !now.Before(d.deadline)
}

func (d *Detector) reset() {
	d.count = 0
	d.armed = false
}
