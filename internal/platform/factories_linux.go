//go:build linux && (arm || arm64) && !rp2040 && !rp2350 && !baremetal

// Linux SBC build: sensor lines through the GPIO character device, LED
// duty through the kernel sysfs PWM interface.
package platform

import (
	"os"
	"strconv"
	"sync"

	"github.com/warthog618/go-gpiocdev"

	"cabinetlight-go/errcode"
	"cabinetlight-go/hwio"
	"cabinetlight-go/x/timex"
)

const (
	chipName    = "gpiochip0"
	pwmChipPath = "/sys/class/pwm/pwmchip0"
	maxPin      = 31
)

// cdevPin wraps one character-device line. gpiocdev only delivers events
// on lines requested with a handler, so SetIRQ and ClearIRQ re-request the
// line with the bias remembered from ConfigureInput.
type cdevPin struct {
	mu     sync.Mutex
	n      int
	line   *gpiocdev.Line
	pull   hwio.Pull
	output bool
}

func (p *cdevPin) reopen(opts ...gpiocdev.LineReqOption) error {
	if p.line != nil {
		p.line.Close()
		p.line = nil
	}
	l, err := gpiocdev.RequestLine(chipName, p.n, opts...)
	if err != nil {
		return &errcode.E{C: errcode.InvalidPin, Op: "gpiocdev.RequestLine", Err: err}
	}
	p.line = l
	return nil
}

func (p *cdevPin) inputOpts() []gpiocdev.LineReqOption {
	opts := []gpiocdev.LineReqOption{gpiocdev.AsInput}
	switch p.pull {
	case hwio.PullUp:
		opts = append(opts, gpiocdev.WithPullUp)
	case hwio.PullDown:
		opts = append(opts, gpiocdev.WithPullDown)
	}
	return opts
}

func (p *cdevPin) ConfigureInput(pull hwio.Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pull = pull
	p.output = false
	return p.reopen(p.inputOpts()...)
}

func (p *cdevPin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := 0
	if initial {
		v = 1
	}
	p.output = true
	return p.reopen(gpiocdev.AsOutput(v))
}

func (p *cdevPin) Set(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.line == nil || !p.output {
		return
	}
	v := 0
	if level {
		v = 1
	}
	_ = p.line.SetValue(v)
}

func (p *cdevPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.line == nil {
		return false
	}
	v, err := p.line.Value()
	return err == nil && v != 0
}

func (p *cdevPin) Toggle() { p.Set(!p.Get()) }

func (p *cdevPin) Number() int { return p.n }

func (p *cdevPin) SetIRQ(edge hwio.Edge, handler func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if handler == nil {
		return errcode.InvalidParams
	}
	var edgeOpt gpiocdev.LineReqOption
	switch edge {
	case hwio.EdgeRising:
		edgeOpt = gpiocdev.WithRisingEdge
	case hwio.EdgeFalling:
		edgeOpt = gpiocdev.WithFallingEdge
	case hwio.EdgeBoth:
		edgeOpt = gpiocdev.WithBothEdges
	default:
		return errcode.InvalidParams
	}
	opts := append(p.inputOpts(), edgeOpt,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { handler() }))
	return p.reopen(opts...)
}

func (p *cdevPin) ClearIRQ() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Re-request without a handler; event delivery stops with the old request.
	return p.reopen(p.inputOpts()...)
}

type cdevPinFactory struct {
	mu   sync.Mutex
	pins map[int]*cdevPin
}

func (f *cdevPinFactory) ByNumber(n int) (hwio.IRQPin, bool) {
	if n < 0 || n > maxPin {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	if !ok {
		p = &cdevPin{n: n}
		f.pins[n] = p
	}
	return p, true
}

// sysfsPWM drives one kernel PWM channel; the pin number doubles as the
// channel index on the chip.
type sysfsPWM struct {
	mu       sync.Mutex
	chn      int
	periodNs uint64
	top      uint16
}

func (o *sysfsPWM) path(file string) string {
	return pwmChipPath + "/pwm" + strconv.Itoa(o.chn) + "/" + file
}

func writeSysfs(path, val string) error {
	return os.WriteFile(path, []byte(val), 0o644)
}

func (o *sysfsPWM) Configure(freqHz uint32, top uint16) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if top == 0 {
		return errcode.InvalidParams
	}
	// Export may fail with EBUSY when the channel is already exported.
	_ = writeSysfs(pwmChipPath+"/export", strconv.Itoa(o.chn))
	o.periodNs = timex.PeriodFromHz(freqHz)
	if err := writeSysfs(o.path("period"), strconv.FormatUint(o.periodNs, 10)); err != nil {
		return &errcode.E{C: errcode.PWMConflict, Op: "pwm.period", Err: err}
	}
	if err := writeSysfs(o.path("duty_cycle"), "0"); err != nil {
		return &errcode.E{C: errcode.PWMConflict, Op: "pwm.duty_cycle", Err: err}
	}
	if err := writeSysfs(o.path("enable"), "1"); err != nil {
		return &errcode.E{C: errcode.PWMConflict, Op: "pwm.enable", Err: err}
	}
	o.top = top
	return nil
}

func (o *sysfsPWM) Set(level uint16) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.top == 0 {
		return
	}
	if level > o.top {
		level = o.top
	}
	duty := (o.periodNs * uint64(level)) / uint64(o.top)
	_ = writeSysfs(o.path("duty_cycle"), strconv.FormatUint(duty, 10))
}

func (o *sysfsPWM) Top() uint16 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.top
}

type sysfsPWMFactory struct {
	mu   sync.Mutex
	outs map[int]*sysfsPWM
}

func (f *sysfsPWMFactory) ByPin(n int) (hwio.PWMOut, bool) {
	if n < 0 || n > maxPin {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.outs[n]
	if !ok {
		o = &sysfsPWM{chn: n}
		f.outs[n] = o
	}
	return o, true
}

func DefaultPinFactory() hwio.PinFactory {
	return &cdevPinFactory{pins: make(map[int]*cdevPin)}
}

func DefaultPWMFactory() hwio.PWMFactory {
	return &sysfsPWMFactory{outs: make(map[int]*sysfsPWM)}
}
