package light

import (
	"time"

	"cabinetlight-go/x/ramp"
)

// RunStartupTest sweeps each LED channel fully on then off in sequence,
// blocking, for visible boot-time verification of the wiring. It owns the
// timeline for the whole sweep, so it must not be called from the
// steady-state loop.
func (c *Controller) RunStartupTest() {
	tick := func(d time.Duration) bool { time.Sleep(d); return true }
	for i := range c.chans {
		ch := &c.chans[i]
		if !ch.ledOK {
			continue
		}
		set := func(l uint16) { ch.led.Set(l) }
		ramp.Linear(0, c.wrap, c.wrap, c.sweep, sweepSteps, tick, set)
		ramp.Linear(c.wrap, 0, c.wrap, c.sweep, sweepSteps, tick, set)
		// Hand the output back to the fade engine's level.
		ch.led.Set(ch.current)
	}
}
