package light

import "testing"

func TestRetargetDuplicateIsNoOp(t *testing.T) {
	c := bareController()
	ch := &c.chans[0]

	c.retarget(ch, true)
	if !ch.fading || ch.target != c.wrap {
		t.Fatalf("fading=%v target=%d after open", ch.fading, ch.target)
	}

	ch.current = 4000
	c.retarget(ch, true) // duplicate open must not restart anything
	if ch.target != c.wrap || !ch.fading {
		t.Fatalf("duplicate retarget changed state: fading=%v target=%d", ch.fading, ch.target)
	}
}

func TestRetargetReversalKeepsCurrentLevel(t *testing.T) {
	c := bareController()
	ch := &c.chans[0]
	ch.current = 7000

	c.retarget(ch, false)
	if ch.target != 0 || !ch.fading || ch.current != 7000 {
		t.Fatalf("reversal state: current=%d target=%d fading=%v", ch.current, ch.target, ch.fading)
	}
}

func TestStepFadeConvergesMonotonically(t *testing.T) {
	c := bareController()
	ch := &c.chans[0]
	c.retarget(ch, true)

	prev := ch.current
	steps := 0
	for ch.fading {
		c.stepFade(0)
		if ch.current < prev {
			t.Fatalf("level went backwards: %d -> %d", prev, ch.current)
		}
		if ch.current-prev > c.fadeStep {
			t.Fatalf("step exceeded fadeStep: %d -> %d", prev, ch.current)
		}
		prev = ch.current
		steps++
		if steps > 100 {
			t.Fatal("fade did not converge")
		}
	}
	if ch.current != c.wrap {
		t.Fatalf("settled at %d, want %d", ch.current, c.wrap)
	}
	// ceil(12500/1000) = 13
	if steps != 13 {
		t.Fatalf("steps = %d, want 13", steps)
	}
}

func TestStepFadeEmitsSettledOnce(t *testing.T) {
	var events []Event
	c := bareController()
	c.emit = func(ev Event) { events = append(events, ev) }
	ch := &c.chans[2]
	c.retarget(ch, true)

	for ch.fading {
		c.stepFade(2)
	}

	settled := 0
	for _, ev := range events {
		if ev.Kind != EventLampSettled {
			continue
		}
		settled++
		if ev.Channel != 2 || ev.Level != c.wrap {
			t.Fatalf("settled event = %+v", ev)
		}
	}
	if settled != 1 {
		t.Fatalf("settled events = %d, want 1", settled)
	}
}
