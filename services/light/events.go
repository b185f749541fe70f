package light

import (
	"cabinetlight-go/x/conv"
	"cabinetlight-go/x/timex"
)

// EventKind tags controller events published to the configured sink.
type EventKind uint8

const (
	EventDoorOpen EventKind = iota
	EventDoorClosed
	EventLampSettled
)

// Event is one observable controller occurrence. Events are emitted from
// the control-loop context only.
type Event struct {
	Kind    EventKind
	Channel int
	// Level is the lamp level at emission time (meaningful for
	// EventLampSettled; 0 otherwise).
	Level uint16
	TsMs  int64
}

// Topic returns the event's sub-topic under "light".
func (e Event) Topic() string {
	if e.Kind == EventLampSettled {
		return "lamp"
	}
	return "door"
}

// String renders a short log line without fmt (MCU-safe).
func (e Event) String() string {
	var buf [20]byte
	s := "light ch" + string(conv.Itoa(buf[:], int64(e.Channel)))
	switch e.Kind {
	case EventDoorOpen:
		s += " door open"
	case EventDoorClosed:
		s += " door closed"
	case EventLampSettled:
		s += " lamp settled at " + string(conv.Utoa(buf[:], uint64(e.Level)))
	}
	return s
}

func (c *Controller) emitEvent(ev Event) {
	if c.emit == nil {
		return
	}
	ev.TsMs = timex.NowMs()
	c.emit(ev)
}

func (c *Controller) emitDoor(i int, open bool) {
	kind := EventDoorClosed
	if open {
		kind = EventDoorOpen
	}
	c.emitEvent(Event{Kind: kind, Channel: i})
}
