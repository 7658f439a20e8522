package core

import "time"

// FixedStep paces erosion steps independently of the frame rate. Erosion
// passes are far slower than a frame, so the viewer asks how many steps fell
// due instead of stepping once per frame.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	maxCatchUp  int

	now func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given steps
// per second. At most maxCatchUp steps are reported per call.
func NewFixedStep(sps, maxCatchUp int) *FixedStep {
	if maxCatchUp <= 0 {
		maxCatchUp = 1
	}
	fs := &FixedStep{maxCatchUp: maxCatchUp, now: time.Now}
	fs.SetRate(sps)
	fs.accumulator = fs.step
	return fs
}

// SetRate changes the step rate. It is safe to call from the main loop.
func (f *FixedStep) SetRate(sps int) {
	if sps <= 0 {
		sps = 1
	}
	f.step = time.Second / time.Duration(sps)
}

// Reset drops any accumulated time so the next step is due immediately.
func (f *FixedStep) Reset() {
	f.last = time.Time{}
	f.accumulator = f.step
}

// Due reports how many steps should run now. Time owed beyond the catch-up
// limit is discarded so a slow step cannot snowball.
func (f *FixedStep) Due() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now

	n := int(f.accumulator / f.step)
	if n > f.maxCatchUp {
		n = f.maxCatchUp
		f.accumulator = 0
		return n
	}
	f.accumulator -= time.Duration(n) * f.step
	return n
}
