package heartbeat

import (
	"context"
	"testing"
	"time"

	"cabinetlight-go/bus"
)

func TestHeartbeat_CountsLightEvents(t *testing.T) {
	b := bus.NewBus(16)
	svc := &Service{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		t.Fatal(err)
	}

	pub := b.NewConnection("test-pub")
	// Give the loop a moment to subscribe before publishing.
	time.Sleep(20 * time.Millisecond)

	pub.Publish(pub.NewMessage(bus.T("light", "door"), true, false))
	pub.Publish(pub.NewMessage(bus.T("light", "door"), true, false))
	pub.Publish(pub.NewMessage(bus.T("light", "lamp"), uint16(12500), false))
	pub.Publish(pub.NewMessage(bus.T("light", "door"), false, false))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if svc.Events() == 4 && svc.DoorsOpen() == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("events=%d doors_open=%d, want 4 and 1", svc.Events(), svc.DoorsOpen())
}

func TestHeartbeat_DoorsOpenNeverNegative(t *testing.T) {
	b := bus.NewBus(16)
	svc := &Service{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		t.Fatal(err)
	}

	pub := b.NewConnection("test-pub")
	time.Sleep(20 * time.Millisecond)
	pub.Publish(pub.NewMessage(bus.T("light", "door"), false, false))
	pub.Publish(pub.NewMessage(bus.T("light", "door"), false, false))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if svc.Events() == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := svc.DoorsOpen(); got != 0 {
		t.Fatalf("doors_open = %d, want 0", got)
	}
}

func TestHeartbeat_IntervalReconfiguredFromBus(t *testing.T) {
	b := bus.NewBus(16)
	svc := &Service{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		t.Fatal(err)
	}
	if svc.Interval() != time.Second {
		t.Fatalf("default interval = %v, want 1s", svc.Interval())
	}

	pub := b.NewConnection("test-pub")
	time.Sleep(20 * time.Millisecond)
	pub.Publish(pub.NewMessage(bus.T("config", "heartbeat"),
		map[string]any{"interval": float64(5)}, true))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if svc.Interval() == 5*time.Second {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("interval = %v, want 5s", svc.Interval())
}
