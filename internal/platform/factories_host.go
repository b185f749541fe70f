//go:build !rp2040 && !rp2350 && !baremetal && (!linux || (!arm && !arm64))

// Host build: in-memory fakes so the controller and its tests run on a
// development machine with no GPIO hardware.
package platform

import (
	"sync"

	"cabinetlight-go/errcode"
	"cabinetlight-go/hwio"
)

// maxPin mirrors the RP2040 user GPIO range.
const maxPin = 28

// FakePin is an in-memory IRQ-capable pin. Set changes the level quietly;
// Fire changes it and invokes the registered edge handler, modelling a
// hardware edge.
type FakePin struct {
	mu      sync.Mutex
	n       int
	level   bool
	pull    hwio.Pull
	output  bool
	edge    hwio.Edge
	handler func()
}

func (p *FakePin) ConfigureInput(pull hwio.Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = false
	p.pull = pull
	// An undriven line idles at its bias level.
	switch pull {
	case hwio.PullUp:
		p.level = true
	case hwio.PullDown:
		p.level = false
	}
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = true
	p.level = initial
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Toggle() {
	p.mu.Lock()
	p.level = !p.level
	p.mu.Unlock()
}

func (p *FakePin) Number() int { return p.n }

func (p *FakePin) SetIRQ(edge hwio.Edge, handler func()) error {
	if edge == hwio.EdgeNone || handler == nil {
		return errcode.InvalidParams
	}
	p.mu.Lock()
	p.edge = edge
	p.handler = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.edge = hwio.EdgeNone
	p.handler = nil
	p.mu.Unlock()
	return nil
}

// Fire drives the line to level and, when that constitutes a registered
// edge, invokes the handler the way a real ISR would.
func (p *FakePin) Fire(level bool) {
	p.mu.Lock()
	prev := p.level
	p.level = level
	h := p.handler
	edge := p.edge
	p.mu.Unlock()
	if h == nil || prev == level {
		return
	}
	switch edge {
	case hwio.EdgeBoth:
	case hwio.EdgeRising:
		if !level {
			return
		}
	case hwio.EdgeFalling:
		if level {
			return
		}
	default:
		return
	}
	h()
}

// FakePWM records duty writes for assertions.
type FakePWM struct {
	mu      sync.Mutex
	pin     int
	freqHz  uint32
	top     uint16
	level   uint16
	history []uint16
}

func (o *FakePWM) Configure(freqHz uint32, top uint16) error {
	if top == 0 {
		return errcode.InvalidParams
	}
	o.mu.Lock()
	o.freqHz = freqHz
	o.top = top
	o.mu.Unlock()
	return nil
}

func (o *FakePWM) Set(level uint16) {
	o.mu.Lock()
	if o.top != 0 && level > o.top {
		level = o.top
	}
	o.level = level
	o.history = append(o.history, level)
	o.mu.Unlock()
}

func (o *FakePWM) Top() uint16 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.top
}

// Level returns the last duty written.
func (o *FakePWM) Level() uint16 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.level
}

// History returns a copy of every duty write in order.
func (o *FakePWM) History() []uint16 {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]uint16, len(o.history))
	copy(out, o.history)
	return out
}

// FakePinFactory hands out one FakePin per valid pin number.
type FakePinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func NewFakePinFactory() *FakePinFactory {
	return &FakePinFactory{pins: make(map[int]*FakePin)}
}

func (f *FakePinFactory) ByNumber(n int) (hwio.IRQPin, bool) {
	if n < 0 || n > maxPin {
		return nil, false
	}
	return f.Pin(n), true
}

// Pin returns the backing fake for n, creating it on first use. Tests use
// this to drive levels and fire edges.
func (f *FakePinFactory) Pin(n int) *FakePin {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{n: n}
		f.pins[n] = p
	}
	return p
}

// FakePWMFactory hands out one FakePWM per valid pin number.
type FakePWMFactory struct {
	mu   sync.Mutex
	outs map[int]*FakePWM
}

func NewFakePWMFactory() *FakePWMFactory {
	return &FakePWMFactory{outs: make(map[int]*FakePWM)}
}

func (f *FakePWMFactory) ByPin(n int) (hwio.PWMOut, bool) {
	if n < 0 || n > maxPin {
		return nil, false
	}
	return f.Out(n), true
}

// Out returns the backing fake for n, creating it on first use.
func (f *FakePWMFactory) Out(n int) *FakePWM {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.outs[n]
	if !ok {
		o = &FakePWM{pin: n}
		f.outs[n] = o
	}
	return o
}

func DefaultPinFactory() hwio.PinFactory { return NewFakePinFactory() }
func DefaultPWMFactory() hwio.PWMFactory { return NewFakePWMFactory() }
