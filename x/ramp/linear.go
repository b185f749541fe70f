package ramp

import (
	"time"

	"cabinetlight-go/x/mathx"
)

// Step applies the new logical level in [0..top].
type Step func(level uint16)

// Tick waits for d and reports whether to continue (false => cancelled).
type Tick func(d time.Duration) bool

// Linear drives a synchronous caller-paced integer ramp from 'from' to 'to'.
// The caller supplies Tick to control timing and cancellation, so the ramp
// itself never owns a goroutine or a timer. steps==0 or duration==0 snaps
// straight to 'to'.
//
// This is deliberately a blocking helper: it is used only by boot-time
// diagnostics. Steady-state fading is the controller's per-tick engine.
func Linear(from, to, top uint16, duration time.Duration, steps uint16, tick Tick, set Step) {
	if steps == 0 || duration <= 0 {
		set(mathx.Min(to, top))
		return
	}
	delta := int32(to) - int32(from)
	cur := int32(from)
	acc := int32(0)
	stepDur := duration / time.Duration(steps)
	if stepDur <= 0 {
		stepDur = time.Millisecond
	}
	for i := uint16(1); i < steps; i++ {
		if !tick(stepDur) {
			return
		}
		acc += delta
		inc := acc / int32(steps)
		if inc != 0 {
			acc -= inc * int32(steps)
			cur = mathx.Clamp(cur+inc, 0, int32(top))
			set(uint16(cur))
		}
	}
	if !tick(stepDur) {
		return
	}
	set(mathx.Min(to, top))
}
