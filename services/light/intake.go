package light

import "sync/atomic"

// edgeLatch is the only state shared between the interrupt context and the
// control loop: one pending bit per channel. The ISR side sets bits with a
// single atomic OR; the loop side takes the whole mask with an atomic
// exchange. Multiple edges on one channel between drains coalesce into a
// single "reconsider this channel" bit — the resolver re-reads the live
// level, so no information is lost.
type edgeLatch struct {
	mask atomic.Uint32
}

// signal marks channel i pending. Interrupt-safe: a single atomic OR and
// nothing else (no logging, no hardware access).
func (l *edgeLatch) signal(i int) {
	l.mask.Or(1 << uint(i))
}

// drain atomically takes and clears the pending mask. Control-loop only.
func (l *edgeLatch) drain() uint32 {
	return l.mask.Swap(0)
}
