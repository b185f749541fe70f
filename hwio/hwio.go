// Package hwio defines the portable hardware contracts the lighting
// controller is written against. Concrete implementations live in
// internal/platform (TinyGo machine pins, Linux gpiocdev lines, host fakes).
package hwio

// Pull selects the input bias resistor.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Edge selection for IRQ registration.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// GPIOPin is a single digital pin.
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// IRQPin extends GPIOPin with edge interrupts. The handler closure is
// invoked in interrupt context and must do no blocking work; it carries
// whatever context the registrant captured, so no process-wide callback
// singleton is needed.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PWMOut is one PWM duty channel with a logical level range [0..Top].
// Set is a non-blocking register (or equivalent) update.
type PWMOut interface {
	Configure(freqHz uint32, top uint16) error
	Set(level uint16)
	Top() uint16
}

// PinFactory supplies IRQ-capable pins by the platform's numbering scheme.
type PinFactory interface {
	ByNumber(n int) (IRQPin, bool)
}

// PWMFactory supplies PWM outputs by pin number.
type PWMFactory interface {
	ByPin(n int) (PWMOut, bool)
}

func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}
