package light

import (
	"time"

	"cabinetlight-go/hwio"
	"cabinetlight-go/internal/platform"
	"cabinetlight-go/x/mathx"
)

// NumChannels is the number of LED/sensor pairs the controller drives.
// The pending-signal mask allots one bit per channel, so this must stay
// well below 32.
const NumChannels = 4

const (
	// DefaultWrap is the PWM resolution ceiling (~12 bit at 1 kHz).
	DefaultWrap uint16 = 12500
	// DefaultFreqHz is the PWM carrier frequency.
	DefaultFreqHz uint32 = 1000
	// DefaultFadeStep is the level delta applied per Process() tick.
	DefaultFadeStep uint16 = 1000
	// DefaultDebounce is the minimum gap between accepted transitions.
	DefaultDebounce = 100 * time.Millisecond
	// TickRateHz is the cadence Process() is expected to be called at.
	// Perceived fade time = ceil(Wrap/FadeStep) ticks at this rate.
	TickRateHz uint32 = 20
)

// Default wiring: MOSFET gates on GP2..GP5, reed contacts on GP6..GP9.
var (
	DefaultLEDPins    = [NumChannels]int{2, 3, 4, 5}
	DefaultSensorPins = [NumChannels]int{6, 7, 8, 9}
)

const (
	// selfTestPulse is the visible blip emitted when an LED channel is
	// (re)bound, as a wiring sanity check.
	selfTestPulse = 20 * time.Millisecond
	// defaultSweep paces one direction of the startup sweep.
	defaultSweep = 250 * time.Millisecond
	sweepSteps   = 25
)

// Config carries everything New needs. Zero-value fields fall back to the
// defaults above; nil factories fall back to the platform defaults.
type Config struct {
	LEDPins    [NumChannels]int
	SensorPins [NumChannels]int
	// ActiveLow: when true a low raw read means "door open" (reed contact
	// to ground with pull-up).
	ActiveLow [NumChannels]bool

	Wrap     uint16
	FreqHz   uint32
	FadeStep uint16
	Debounce time.Duration

	// Polling enables the redundant level-sampling fallback.
	Polling bool

	// SweepTime paces each direction of RunStartupTest.
	SweepTime time.Duration

	Pins hwio.PinFactory
	PWM  hwio.PWMFactory

	// Emit, when set, receives controller events. Called only from the
	// control-loop context, never from interrupt context.
	Emit func(Event)

	// Now overrides the clock; tests use this for deterministic debounce.
	Now func() time.Time
}

// DefaultConfig returns the stock wiring: four active-low reed channels
// on the platform's default pin/PWM factories.
func DefaultConfig() Config {
	return Config{
		LEDPins:    DefaultLEDPins,
		SensorPins: DefaultSensorPins,
		ActiveLow:  [NumChannels]bool{true, true, true, true},
		Wrap:       DefaultWrap,
		FreqHz:     DefaultFreqHz,
		FadeStep:   DefaultFadeStep,
		Debounce:   DefaultDebounce,
		SweepTime:  defaultSweep,
		Pins:       platform.DefaultPinFactory(),
		PWM:        platform.DefaultPWMFactory(),
	}
}

func (c *Config) sanitize() {
	if c.Wrap == 0 {
		c.Wrap = DefaultWrap
	}
	if c.FreqHz == 0 {
		c.FreqHz = DefaultFreqHz
	}
	if c.FadeStep == 0 {
		c.FadeStep = DefaultFadeStep
	}
	c.FadeStep = mathx.Clamp(c.FadeStep, 1, c.Wrap)
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.SweepTime <= 0 {
		c.SweepTime = defaultSweep
	}
	if c.Pins == nil {
		c.Pins = platform.DefaultPinFactory()
	}
	if c.PWM == nil {
		c.PWM = platform.DefaultPWMFactory()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}
