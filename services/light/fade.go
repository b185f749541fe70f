package light

import "cabinetlight-go/x/mathx"

// retarget points a channel's fade at full (door open) or zero (door
// closed). A repeated identical target is a no-op, so duplicate resolver
// outputs never restart a fade. A mid-fade reversal keeps the current
// level: the next tick simply steps toward the new target from wherever
// the fade had got to.
func (c *Controller) retarget(ch *channel, on bool) {
	t := uint16(0)
	if on {
		t = c.wrap
	}
	if ch.target == t {
		return
	}
	ch.target = t
	ch.fading = ch.current != t
}

// stepFade advances one channel by at most fadeStep and writes the new
// duty to the PWM output. Non-blocking: one step per tick, so all channels
// fade concurrently and the loop keeps draining signals while fades run.
func (c *Controller) stepFade(i int) {
	ch := &c.chans[i]
	ch.current = mathx.StepToward(ch.current, ch.target, c.fadeStep)
	if ch.current == ch.target {
		ch.fading = false
	}
	if ch.ledOK {
		ch.led.Set(ch.current)
	}
	if !ch.fading {
		c.emitEvent(Event{Kind: EventLampSettled, Channel: i, Level: ch.current})
	}
}
