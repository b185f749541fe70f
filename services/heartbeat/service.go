// Package heartbeat periodically reports liveness plus a running summary
// of lighting activity seen on the bus.
package heartbeat

import (
	"context"
	"sync/atomic"
	"time"

	"cabinetlight-go/bus"
	"cabinetlight-go/x/conv"
)

var (
	topicConfigHeartbeat = bus.T("config", "heartbeat")
	topicLightAll        = bus.T("light", "#")
)

type Service struct {
	started   time.Time
	doorsOpen atomic.Int32
	events    atomic.Uint32
	interval  atomic.Int64 // seconds
}

// DoorsOpen returns the number of doors currently believed open, derived
// from the door events observed on the bus.
func (s *Service) DoorsOpen() int { return int(s.doorsOpen.Load()) }

// Events returns the total number of lighting events observed.
func (s *Service) Events() uint32 { return s.events.Load() }

// Interval returns the current reporting interval.
func (s *Service) Interval() time.Duration {
	return time.Duration(s.interval.Load()) * time.Second
}

// Uptime returns time since Start.
func (s *Service) Uptime() time.Duration { return time.Since(s.started) }

func (s *Service) noteLight(msg *bus.Message) {
	s.events.Add(1)
	if len(msg.Topic) < 2 || msg.Topic[1] != "door" {
		return
	}
	if open, ok := msg.Payload.(bool); ok {
		if open {
			s.doorsOpen.Add(1)
		} else if s.doorsOpen.Load() > 0 {
			s.doorsOpen.Add(-1)
		}
	}
}

func (s *Service) report(t time.Time) {
	var buf [20]byte
	println("Info:", t.Format("15:04:05"), "Heartbeat up="+
		string(conv.Itoa(buf[:], int64(s.Uptime()/time.Second)))+"s",
		"doors_open="+string(conv.Itoa(buf[:], int64(s.doorsOpen.Load()))),
		"events="+string(conv.Utoa(buf[:], uint64(s.events.Load()))))
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)
	lightSub := conn.Subscribe(topicLightAll)
	defer conn.Unsubscribe(lightSub)

	tick := time.NewTicker(s.Interval())
	defer tick.Stop()

	// loop until context is cancelled, respond to tick, events and config
	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			s.report(t)
		case msg := <-lightSub.Channel():
			s.noteLight(msg)
		case msg := <-cfgSub.Channel():
			// Change tick interval if needed
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"]; ok {
					if interval, ok := iv.(float64); ok && interval > 0 {
						s.interval.Store(int64(interval))
						tick.Reset(s.Interval())
						println("Info:", "Heartbeat interval set to", int64(interval), "seconds")
					}
				}
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	s.started = time.Now()
	if s.interval.Load() <= 0 {
		s.interval.Store(1)
	}
	go s.serviceLoop(ctx, conn)
	return nil
}
