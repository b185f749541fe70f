// Command doorsim drives the lighting controller with a scripted door
// sequence on in-memory pins, printing per-tick channel snapshots. Useful
// for eyeballing fade and debounce behavior without hardware.
package main

import (
	"time"

	"cabinetlight-go/hwio"
	"cabinetlight-go/services/light"
	"cabinetlight-go/x/conv"
)

type simPin struct {
	n       int
	level   bool
	handler func()
}

func (p *simPin) ConfigureInput(hwio.Pull) error      { p.level = true; return nil } // pull-up idle
func (p *simPin) ConfigureOutput(initial bool) error  { p.level = initial; return nil }
func (p *simPin) Set(level bool)                      { p.level = level }
func (p *simPin) Get() bool                           { return p.level }
func (p *simPin) Toggle()                             { p.level = !p.level }
func (p *simPin) Number() int                         { return p.n }
func (p *simPin) SetIRQ(_ hwio.Edge, h func()) error  { p.handler = h; return nil }
func (p *simPin) ClearIRQ() error                     { p.handler = nil; return nil }

// drive changes the line level and fires the edge handler, like hardware.
func (p *simPin) drive(level bool) {
	if p.level == level {
		return
	}
	p.level = level
	if p.handler != nil {
		p.handler()
	}
}

type simPWM struct{ top, level uint16 }

func (o *simPWM) Configure(_ uint32, top uint16) error { o.top = top; return nil }
func (o *simPWM) Set(level uint16)                     { o.level = level }
func (o *simPWM) Top() uint16                          { return o.top }

type simPins struct{ pins map[int]*simPin }

func (f *simPins) ByNumber(n int) (hwio.IRQPin, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	p, ok := f.pins[n]
	if !ok {
		p = &simPin{n: n}
		f.pins[n] = p
	}
	return p, true
}

type simPWMs struct{ outs map[int]*simPWM }

func (f *simPWMs) ByPin(n int) (hwio.PWMOut, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	o, ok := f.outs[n]
	if !ok {
		o = &simPWM{}
		f.outs[n] = o
	}
	return o, true
}

func main() {
	pins := &simPins{pins: map[int]*simPin{}}
	pwms := &simPWMs{outs: map[int]*simPWM{}}

	cfg := light.DefaultConfig()
	cfg.Pins = pins
	cfg.PWM = pwms
	cfg.SweepTime = 50 * time.Millisecond
	cfg.Emit = func(ev light.Event) { println("event:", ev.String()) }

	ctl := light.New(cfg)
	if !ctl.IsInitialized() {
		println("init failed")
		return
	}
	ctl.RunStartupTest()

	door := pins.pins[light.DefaultSensorPins[0]]

	step := 0
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for range tick.C {
		switch step {
		case 4:
			println("-- door 0 opens (with contact chatter)")
			door.drive(false) // reed contact closes to ground
			door.drive(true)
			door.drive(false)
		case 30:
			println("-- door 0 closes")
			door.drive(true)
		case 60:
			return
		}
		ctl.Process()
		printSnapshot(ctl, 0)
		step++
	}
}

func printSnapshot(ctl *light.Controller, i int) {
	s, ok := ctl.Snapshot(i)
	if !ok {
		return
	}
	var buf [20]byte
	println("ch"+string(conv.Itoa(buf[:], int64(i))),
		s.State.String(),
		"level="+string(conv.Utoa(buf[:], uint64(s.Level))),
		"target="+string(conv.Utoa(buf[:], uint64(s.Target))))
}
