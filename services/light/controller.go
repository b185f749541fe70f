// Package light implements the cabinet lighting controller: door-state
// sensors drive LED channels through PWM power switches, with a stepwise
// fade synchronized to door open/close events.
//
// Two execution contexts exist: the interrupt context (sensor edges) and
// the cooperative control loop (Process called at a fixed cadence). The
// only state crossing that boundary is the atomic pending-signal mask and
// the atomic pin-to-channel route table; everything else is owned by the
// control loop, so no locks are needed.
package light

import (
	"sync/atomic"
	"time"

	"cabinetlight-go/errcode"
	"cabinetlight-go/hwio"
	"cabinetlight-go/x/conv"
)

// routeSlots bounds the pin numbers the ISR route table can hold; every
// platform factory rejects pins beyond this range.
const routeSlots = 32

// Controller owns the fixed channel array, the pending-signal mask and the
// hardware factories. Process and the configuration calls must not run
// concurrently with each other; the ISR entry point may run at any time.
type Controller struct {
	chans   [NumChannels]channel
	pending edgeLatch

	// routes maps sensor pin numbers back to channel indices for the ISR
	// entry point: one atomic slot per pin holding channel index + 1, 0
	// meaning unrouted. Rebinds store single slots, so an edge on any
	// other channel during a rebind reads a consistent value — no map, no
	// lock, nothing the interrupt context could observe half-written.
	routes [routeSlots]atomic.Int32

	wrap     uint16
	fadeStep uint16
	freqHz   uint32
	debounce time.Duration
	polling  bool
	sweep    time.Duration

	pins hwio.PinFactory
	pwm  hwio.PWMFactory
	emit func(Event)
	now  func() time.Time

	initialized bool
}

// New binds the configured pins, zeroes all outputs, registers edge
// callbacks and pulses each LED once as a wiring check. Setup is
// partial-failure tolerant: a channel whose pins fail stays inert, the
// rest keep working, and IsInitialized reports false.
func New(cfg Config) *Controller {
	cfg.sanitize()
	c := &Controller{
		wrap:        cfg.Wrap,
		fadeStep:    cfg.FadeStep,
		freqHz:      cfg.FreqHz,
		debounce:    cfg.Debounce,
		polling:     cfg.Polling,
		sweep:       cfg.SweepTime,
		pins:        cfg.Pins,
		pwm:         cfg.PWM,
		emit:        cfg.Emit,
		now:         cfg.Now,
		initialized: true,
	}
	for i := 0; i < NumChannels; i++ {
		c.chans[i].activeLow = cfg.ActiveLow[i]
		if err := c.bindLED(i, cfg.LEDPins[i]); err != nil {
			logErr("led", cfg.LEDPins[i], err)
			c.initialized = false
		}
		if err := c.bindSensor(i, cfg.SensorPins[i]); err != nil {
			logErr("sensor", cfg.SensorPins[i], err)
			c.initialized = false
		}
	}
	return c
}

// IsInitialized reports whether every channel came up during New. The
// caller is expected to enter its own fatal-indicator path when false;
// channels that did come up remain usable regardless.
func (c *Controller) IsInitialized() bool { return c.initialized }

// SetPollingFallback enables or disables the redundant level-sampling
// path (§pollChannel). Off by default.
func (c *Controller) SetPollingFallback(on bool) { c.polling = on }

// PollingFallback reports whether the polling fallback is enabled.
func (c *Controller) PollingFallback() bool { return c.polling }

// bindLED rebinds channel i's output to a PWM pin: old output off, new
// resource configured, a brief visible pulse, then a fade back toward the
// held door state.
func (c *Controller) bindLED(i, pin int) error {
	ch := &c.chans[i]
	out, ok := c.pwm.ByPin(pin)
	if !ok {
		return errcode.InvalidPin
	}
	if ch.led != nil {
		ch.led.Set(0)
	}
	ch.ledOK = false
	if err := out.Configure(c.freqHz, c.wrap); err != nil {
		return &errcode.E{C: errcode.PWMConflict, Op: "bindLED", Err: err}
	}
	out.Set(c.wrap)
	time.Sleep(selfTestPulse)
	out.Set(0)

	ch.led = out
	ch.ledPin = pin
	ch.current = 0
	ch.target = 0
	if ch.doorOpen {
		ch.target = c.wrap
	}
	ch.fading = ch.current != ch.target
	ch.ledOK = true
	return nil
}

// bindSensor rebinds channel i's input: old IRQ cleared, line reconfigured
// with a pull-up, debounce timestamp reset, edge callback registered. The
// callback closure carries the pin, so no global instance is involved.
func (c *Controller) bindSensor(i, pin int) error {
	ch := &c.chans[i]
	p, ok := c.pins.ByNumber(pin)
	if !ok {
		return errcode.InvalidPin
	}
	if pin >= routeSlots {
		return errcode.InvalidPin
	}
	if ch.sensor != nil {
		_ = ch.sensor.ClearIRQ()
		c.routes[ch.sensorPin].Store(0)
	}
	ch.sensorOK = false
	if err := p.ConfigureInput(hwio.PullUp); err != nil {
		return &errcode.E{C: errcode.InvalidParams, Op: "bindSensor", Err: err}
	}
	ch.sensor = p
	ch.sensorPin = pin
	ch.lastTrigger = c.now()
	ch.lastRaw = p.Get()
	c.routes[pin].Store(int32(i + 1))

	pn := pin
	if err := p.SetIRQ(hwio.EdgeBoth, func() { c.EdgeISR(pn) }); err != nil {
		c.routes[pin].Store(0)
		return &errcode.E{C: errcode.InvalidParams, Op: "bindSensor", Err: err}
	}
	ch.sensorOK = true
	return nil
}

// SetLEDPins reassigns all LED outputs at runtime. Every pin is validated
// before any channel is touched: on an invalid pin it returns false and
// the previous assignment stays fully functional.
func (c *Controller) SetLEDPins(pins [NumChannels]int) bool {
	for _, p := range pins {
		if _, ok := c.pwm.ByPin(p); !ok {
			logErr("led", p, errcode.InvalidPin)
			return false
		}
	}
	ok := true
	for i := 0; i < NumChannels; i++ {
		if err := c.bindLED(i, pins[i]); err != nil {
			logErr("led", pins[i], err)
			ok = false
		}
	}
	return ok
}

// SetSensorPins reassigns all sensor inputs at runtime, with the same
// validate-first contract as SetLEDPins.
func (c *Controller) SetSensorPins(pins [NumChannels]int) bool {
	for _, p := range pins {
		if _, ok := c.pins.ByNumber(p); !ok {
			logErr("sensor", p, errcode.InvalidPin)
			return false
		}
	}
	ok := true
	for i := 0; i < NumChannels; i++ {
		if err := c.bindSensor(i, pins[i]); err != nil {
			logErr("sensor", pins[i], err)
			ok = false
		}
	}
	return ok
}

// SetSensorPolarity reconfigures per-channel polarity. A channel whose
// polarity actually changed is re-evaluated on the following ticks (the
// debounce window still applies), so a flip reverses the resolved door
// state without waiting for a fresh edge.
func (c *Controller) SetSensorPolarity(pol [NumChannels]bool) {
	for i := range c.chans {
		ch := &c.chans[i]
		if ch.activeLow != pol[i] {
			ch.activeLow = pol[i]
			ch.recheck = true
		}
	}
}

// EdgeISR is the interrupt-context entry point. It maps the raw pin number
// back to a channel through the atomic route table and latches the pending
// bit — nothing else, to keep interrupt latency bounded.
func (c *Controller) EdgeISR(pin int) {
	if pin < 0 || pin >= routeSlots {
		return
	}
	if v := c.routes[pin].Load(); v > 0 {
		c.pending.signal(int(v - 1))
	}
}

// Process is the per-tick orchestration entry point: drain pending
// signals, resolve and retarget signaled channels from a live level read,
// run the polling fallback when enabled, then advance every active fade
// by one step. Call it at a roughly fixed cadence (reference: 20 Hz); it
// is not reentrant.
func (c *Controller) Process() {
	now := c.now()
	mask := c.pending.drain()
	for i := range c.chans {
		ch := &c.chans[i]
		if !ch.sensorOK {
			continue
		}
		if mask&(1<<uint(i)) == 0 && !ch.recheck {
			continue
		}
		raw := ch.sensor.Get() // live level, never the captured edge polarity
		open, res := c.resolve(ch, raw, now)
		switch res {
		case resolveChanged:
			c.retarget(ch, open)
			c.emitDoor(i, open)
			ch.recheck = false
		case resolveUnchanged:
			ch.recheck = false
		case resolveRejected:
			// Inside the debounce window: defer, don't drop. The channel is
			// re-examined each tick until the window elapses and the live
			// level either confirms the held state or yields one transition.
			ch.recheck = true
		}
		ch.lastRaw = raw
	}
	if c.polling {
		for i := range c.chans {
			c.pollChannel(i, now)
		}
	}
	for i := range c.chans {
		if c.chans[i].fading {
			c.stepFade(i)
		}
	}
}

func logErr(what string, pin int, err error) {
	var buf [20]byte
	println("Error: light:", what, "pin", string(conv.Itoa(buf[:], int64(pin))), string(errcode.Of(err)))
}
