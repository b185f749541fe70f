package main

import (
	"context"
	"time"

	"cabinetlight-go/bus"
	"cabinetlight-go/services/config"
	"cabinetlight-go/services/heartbeat"
	"cabinetlight-go/services/light"
	"cabinetlight-go/x/timex"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	consoleInit()
	logln("boot")

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, "pico")

	b := bus.NewBus(8)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	hb := &heartbeat.Service{}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	cfg := loadLightConfig(b)

	lightConn := b.NewConnection("light")
	cfg.Emit = func(ev light.Event) {
		logln("Info: " + ev.String())
		var payload any
		switch ev.Kind {
		case light.EventDoorOpen:
			payload = true
		case light.EventDoorClosed:
			payload = false
		default:
			payload = ev.Level
		}
		lightConn.Publish(lightConn.NewMessage(bus.T("light", ev.Topic()), payload, false))
	}

	ctl := light.New(cfg)
	if !ctl.IsInitialized() {
		fatalLoop()
	}

	logln("startup sweep")
	ctl.RunStartupTest()
	logln("running")

	tick := time.NewTicker(timex.TickPeriod(light.TickRateHz))
	defer tick.Stop()
	for range tick.C {
		ctl.Process()
	}
}

// loadLightConfig waits briefly for the retained config/light message and
// falls back to defaults when none arrives.
func loadLightConfig(b *bus.Bus) light.Config {
	base := light.DefaultConfig()
	conn := b.NewConnection("light-config")
	defer conn.Disconnect()
	sub := conn.Subscribe(bus.T("config", "light"))
	select {
	case msg := <-sub.Channel():
		return config.LightFromPayload(msg.Payload, base)
	case <-time.After(500 * time.Millisecond):
		logln("Info: no light config, using defaults")
		return base
	}
}

// fatalLoop parks the device with a visible error cadence instead of
// driving hardware from a partially configured controller.
func fatalLoop() {
	for {
		logln("Error: light controller failed to initialize")
		time.Sleep(time.Second)
	}
}
