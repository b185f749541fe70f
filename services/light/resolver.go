package light

import "time"

// resolution reports what the resolver decided about a raw sample.
type resolution uint8

const (
	// resolveRejected: inside the debounce window, sample ignored.
	resolveRejected resolution = iota
	// resolveUnchanged: level resolves to the state we already hold.
	resolveUnchanged
	// resolveChanged: a new logical door state was accepted.
	resolveChanged
)

// resolve converts a raw sensor level into a logical door-state decision.
// It is the single source of truth for debounce and polarity semantics;
// both the interrupt-signaled path and the polling fallback go through it.
//
// The debounce window is measured from the last *accepted* transition, so
// chatter around a threshold is ignored wholesale until the window elapses;
// the caller always hands in a fresh live read, never a captured edge
// polarity, so a contact that bounced back to its original level by then
// produces no transition at all.
func (c *Controller) resolve(ch *channel, raw bool, now time.Time) (bool, resolution) {
	if now.Sub(ch.lastTrigger) < c.debounce {
		return ch.doorOpen, resolveRejected
	}
	open := raw
	if ch.activeLow {
		open = !raw
	}
	if open == ch.doorOpen {
		return open, resolveUnchanged
	}
	ch.lastTrigger = now
	ch.doorOpen = open
	return open, resolveChanged
}
