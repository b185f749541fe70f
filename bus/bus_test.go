package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload != want {
			t.Fatalf("expected payload %v, got %v", want, got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for payload %v", want)
	}
}

func expectNothing(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message: %v", got.Payload)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("light", "door", "0"))
	conn.Publish(conn.NewMessage(T("light", "door", "0"), "open", false))

	expectPayload(t, sub, "open")
}

func TestNoDeliveryOnOtherTopic(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("light", "door", "1"))
	conn.Publish(conn.NewMessage(T("light", "door", "0"), "open", false))

	expectNothing(t, sub)
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("config", "light"), "persist", true))

	sub := conn.Subscribe(T("config", "light"))
	expectPayload(t, sub, "persist")
}

func TestRetainedClear(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("config", "light"), "persist", true))
	conn.Publish(conn.NewMessage(T("config", "light"), nil, true))

	sub := conn.Subscribe(T("config", "light"))
	expectNothing(t, sub)
}

func TestWildcardSingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("light", "+", "2"))
	s2 := c.Subscribe(T("light", "+", "+"))
	sNo := c.Subscribe(T("light", "+", "3"))

	c.Publish(c.NewMessage(T("light", "door", "2"), "m1", false))

	expectPayload(t, s1, "m1")
	expectPayload(t, s2, "m1")
	expectNothing(t, sNo)
}

func TestWildcardMultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	all := c.Subscribe(T("light", "#"))

	c.Publish(c.NewMessage(T("light", "door", "0"), "m1", false))
	c.Publish(c.NewMessage(T("light"), "m2", false))
	c.Publish(c.NewMessage(T("power", "rail"), "m3", false))

	expectPayload(t, all, "m1")
	expectPayload(t, all, "m2") // "#" matches zero levels too
	expectNothing(t, all)
}

func TestRetainedReplayThroughWildcard(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(T("config", "light"), "v1", true))
	c.Publish(c.NewMessage(T("config", "heartbeat"), "v2", true))

	sub := c.Subscribe(T("config", "#"))
	got := map[any]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-sub.Channel():
			got[m.Payload] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for retained replay")
		}
	}
	if !got["v1"] || !got["v2"] {
		t.Fatalf("missing retained messages: %v", got)
	}
}

func TestDropOldestWhenFull(t *testing.T) {
	b := NewBus(1)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("light", "door", "0"))
	c.Publish(c.NewMessage(T("light", "door", "0"), "old", false))
	c.Publish(c.NewMessage(T("light", "door", "0"), "new", false))

	expectPayload(t, sub, "new")
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("light", "door", "0"))
	sub.Unsubscribe()

	// Channel is closed; publishing afterwards must not panic.
	c.Publish(c.NewMessage(T("light", "door", "0"), "late", false))
}
