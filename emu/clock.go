package emu

import "time"

// Clock is the timing source a Memory implementation charges bus accesses
// against. CurrentCycle reports total cycles elapsed since the clock was
// created or last Reset; WaitForNextCycle blocks (or simply counts, for a
// free-running clock) until one more cycle has elapsed.
type Clock interface {
	CurrentCycle() uint64
	WaitForNextCycle()
	Reset()
}

// FreeRunningClock advances instantly: WaitForNextCycle never blocks. This
// is the default clock, suitable for batch execution and for the test
// scenarios in the CPU and assembler test suites, where wall-clock pacing
// would only slow the tests down.
type FreeRunningClock struct {
	cycle uint64
}

var _ Clock = (*FreeRunningClock)(nil)

func NewFreeRunningClock() *FreeRunningClock {
	return &FreeRunningClock{}
}

func (c *FreeRunningClock) CurrentCycle() uint64 {
	return c.cycle
}

func (c *FreeRunningClock) WaitForNextCycle() {
	c.cycle++
}

func (c *FreeRunningClock) Reset() {
	c.cycle = 0
}

// PacingClock approximates a target oscillator frequency by sleeping
// between cycles. WaitForNextCycle tolerates being woken early by the
// runtime scheduler: it loops on time.Since rather than trusting a single
// time.Sleep call to have actually waited long enough.
type PacingClock struct {
	cycle    uint64
	period   time.Duration
	started  time.Time
	baseline uint64
}

var _ Clock = (*PacingClock)(nil)

// NewPacingClock returns a clock that paces WaitForNextCycle to simulate
// hz cycles per second.
func NewPacingClock(hz float64) *PacingClock {
	return &PacingClock{
		period:  time.Duration(float64(time.Second) / hz),
		started: timeNow(),
	}
}

func (c *PacingClock) CurrentCycle() uint64 {
	return c.cycle
}

func (c *PacingClock) WaitForNextCycle() {
	c.cycle++
	target := c.started.Add(c.period * time.Duration(c.cycle-c.baseline))
	for {
		now := timeNow()
		if !now.Before(target) {
			return
		}
		time.Sleep(target.Sub(now))
	}
}

func (c *PacingClock) Reset() {
	c.cycle = 0
	c.baseline = 0
	c.started = timeNow()
}

// timeNow is indirected so tests that construct a PacingClock don't depend
// on wall-clock behavior for their assertions; it is always time.Now in
// production.
var timeNow = time.Now
