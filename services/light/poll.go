package light

import "time"

// pollChannel is the redundant level-sampling path: it bypasses the edge
// latch entirely and re-derives the door state from a direct raw read.
// Edges can be missed (e.g. while interrupts are masked); polling catches
// up at the cost of a read per tick. It shares resolve() with the
// interrupt path, so debounce and polarity can never diverge.
func (c *Controller) pollChannel(i int, now time.Time) {
	ch := &c.chans[i]
	if !ch.sensorOK {
		return
	}
	raw := ch.sensor.Get()
	if raw != ch.lastRaw {
		if open, res := c.resolve(ch, raw, now); res == resolveChanged {
			c.retarget(ch, open)
			c.emitDoor(i, open)
		}
	}
	// Unconditionally refresh the snapshot so an identical read next tick
	// is a cheap no-op.
	ch.lastRaw = raw
}
