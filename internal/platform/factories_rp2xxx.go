//go:build rp2040 || rp2350

// RP2 build: machine-package pins with hardware edge interrupts, and the
// eight-slice PWM block addressed through a common slice interface.
package platform

import (
	"machine"

	"cabinetlight-go/errcode"
	"cabinetlight-go/hwio"
	"cabinetlight-go/x/timex"
)

const maxPin = 29

type rpPin struct{ pin machine.Pin }

func (p rpPin) ConfigureInput(pull hwio.Pull) error {
	mode := machine.PinInput
	switch pull {
	case hwio.PullUp:
		mode = machine.PinInputPullup
	case hwio.PullDown:
		mode = machine.PinInputPulldown
	}
	p.pin.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (p rpPin) ConfigureOutput(initial bool) error {
	p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.pin.Set(initial)
	return nil
}

func (p rpPin) Set(level bool) { p.pin.Set(level) }
func (p rpPin) Get() bool      { return p.pin.Get() }
func (p rpPin) Toggle()        { p.pin.Set(!p.pin.Get()) }
func (p rpPin) Number() int    { return int(p.pin) }

func (p rpPin) SetIRQ(edge hwio.Edge, handler func()) error {
	if handler == nil {
		return errcode.InvalidParams
	}
	var change machine.PinChange
	switch edge {
	case hwio.EdgeRising:
		change = machine.PinRising
	case hwio.EdgeFalling:
		change = machine.PinFalling
	case hwio.EdgeBoth:
		change = machine.PinRising | machine.PinFalling
	default:
		return errcode.InvalidParams
	}
	return p.pin.SetInterrupt(change, func(machine.Pin) { handler() })
}

func (p rpPin) ClearIRQ() error { return p.pin.SetInterrupt(0, nil) }

type rpPinFactory struct{}

func (rpPinFactory) ByNumber(n int) (hwio.IRQPin, bool) {
	if n < 0 || n > maxPin {
		return nil, false
	}
	return rpPin{machine.Pin(n)}, true
}

// pwmCtrl is the interface every machine.PWMn slice satisfies.
type pwmCtrl interface {
	Configure(config machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

// rpPWM exposes one slice channel with a caller-chosen logical top; writes
// are rescaled onto the slice's hardware wrap.
type rpPWM struct {
	group pwmCtrl
	ch    uint8
	top   uint16
}

func (o *rpPWM) Configure(freqHz uint32, top uint16) error {
	if top == 0 {
		return errcode.InvalidParams
	}
	if err := o.group.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(freqHz)}); err != nil {
		return &errcode.E{C: errcode.PWMConflict, Op: "pwm.Configure", Err: err}
	}
	o.top = top
	return nil
}

func (o *rpPWM) Set(level uint16) {
	if o.top == 0 {
		return
	}
	if level > o.top {
		level = o.top
	}
	hwTop := o.group.Top()
	o.group.Set(o.ch, (uint32(level)*hwTop)/uint32(o.top))
}

func (o *rpPWM) Top() uint16 { return o.top }

type rpPWMFactory struct{}

func (rpPWMFactory) ByPin(n int) (hwio.PWMOut, bool) {
	if n < 0 || n > maxPin {
		return nil, false
	}
	group := pwmGroupBySlice(uint8((n >> 1) & 7))
	if group == nil {
		return nil, false
	}
	machine.Pin(n).Configure(machine.PinConfig{Mode: machine.PinPWM})
	return &rpPWM{group: group, ch: uint8(n & 1)}, true
}

func DefaultPinFactory() hwio.PinFactory { return rpPinFactory{} }
func DefaultPWMFactory() hwio.PWMFactory { return rpPWMFactory{} }
