package light

import (
	"time"

	"cabinetlight-go/hwio"
)

// channel is one LED-output/sensor-input pair. All fields are owned by the
// control-loop context; the interrupt path touches only the pending mask.
type channel struct {
	ledPin    int
	sensorPin int
	activeLow bool

	led    hwio.PWMOut
	sensor hwio.IRQPin

	// Fade state. Invariant after a completed tick:
	// 0 <= current,target <= wrap and fading == (current != target).
	current uint16
	target  uint16
	fading  bool

	// Resolved logical door state and debounce bookkeeping.
	doorOpen    bool
	lastTrigger time.Time

	// Raw level snapshot, used only by the polling fallback.
	lastRaw bool

	// recheck forces re-evaluation on the next ticks until the resolver
	// accepts or confirms the state. Set when an edge is rejected inside
	// the debounce window and when polarity is reconfigured.
	recheck bool

	ledOK    bool
	sensorOK bool
}

// ChannelState is the observable per-channel state.
type ChannelState uint8

const (
	IdleClosed ChannelState = iota
	IdleOpen
	FadingUp
	FadingDown
)

func (s ChannelState) String() string {
	switch s {
	case IdleOpen:
		return "idle-open"
	case FadingUp:
		return "fading-up"
	case FadingDown:
		return "fading-down"
	default:
		return "idle-closed"
	}
}

// Snapshot is a point-in-time copy of one channel's state.
type Snapshot struct {
	DoorOpen bool
	Level    uint16
	Target   uint16
	Fading   bool
	State    ChannelState
}

// Snapshot returns the state of channel i; ok is false for an invalid index.
// Must be called from the control-loop context.
func (c *Controller) Snapshot(i int) (Snapshot, bool) {
	if i < 0 || i >= NumChannels {
		return Snapshot{}, false
	}
	ch := &c.chans[i]
	s := Snapshot{
		DoorOpen: ch.doorOpen,
		Level:    ch.current,
		Target:   ch.target,
		Fading:   ch.fading,
	}
	switch {
	case ch.fading && ch.target > ch.current:
		s.State = FadingUp
	case ch.fading:
		s.State = FadingDown
	case ch.doorOpen:
		s.State = IdleOpen
	default:
		s.State = IdleClosed
	}
	return s, true
}
