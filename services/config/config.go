// Package config publishes the device's embedded configuration onto the
// bus as retained per-key messages, so services that start late still
// receive their section immediately on subscribe.
package config

import (
	"context"
	"errors"
	"time"

	"cabinetlight-go/bus"
	"cabinetlight-go/services/light"

	"github.com/andreyvit/tinyjson"
)

const (
	serviceName  = "config"
	configPrefix = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig reads the device config from embedded data and publishes
// each top-level key as a retained message under config/<key>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}

	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return errors.New("no embedded config for device: " + device)
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return errors.New("embedded config is not a JSON object")
	}

	for k, v := range m {
		conn.Publish(&bus.Message{
			Topic:    bus.T(configPrefix, k),
			Payload:  v,
			Retained: true,
		})
	}

	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("Error: config:", err.Error())
		}
	}()
}

// LightFromPayload overlays a decoded "light" config object onto base.
// Unknown keys are ignored; malformed values keep the base setting, so a
// bad embedded config degrades to defaults instead of failing boot.
func LightFromPayload(v any, base light.Config) light.Config {
	m, ok := v.(map[string]any)
	if !ok {
		return base
	}
	cfg := base
	if pins, ok := intArray(m["led_pins"]); ok {
		cfg.LEDPins = pins
	}
	if pins, ok := intArray(m["sensor_pins"]); ok {
		cfg.SensorPins = pins
	}
	if al, ok := boolArray(m["active_low"]); ok {
		cfg.ActiveLow = al
	}
	if b, ok := m["polling"].(bool); ok {
		cfg.Polling = b
	}
	if n, ok := num(m["wrap"]); ok && n > 0 && n <= 65535 {
		cfg.Wrap = uint16(n)
	}
	if n, ok := num(m["freq_hz"]); ok && n > 0 {
		cfg.FreqHz = uint32(n)
	}
	if n, ok := num(m["fade_step"]); ok && n > 0 && n <= 65535 {
		cfg.FadeStep = uint16(n)
	}
	if n, ok := num(m["debounce_ms"]); ok && n > 0 {
		cfg.Debounce = time.Duration(n) * time.Millisecond
	}
	return cfg
}

func num(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}

func intArray(v any) ([light.NumChannels]int, bool) {
	var out [light.NumChannels]int
	arr, ok := v.([]any)
	if !ok || len(arr) != light.NumChannels {
		return out, false
	}
	for i, e := range arr {
		n, ok := num(e)
		if !ok {
			return out, false
		}
		out[i] = int(n)
	}
	return out, true
}

func boolArray(v any) ([light.NumChannels]bool, bool) {
	var out [light.NumChannels]bool
	arr, ok := v.([]any)
	if !ok || len(arr) != light.NumChannels {
		return out, false
	}
	for i, e := range arr {
		b, ok := e.(bool)
		if !ok {
			return out, false
		}
		out[i] = b
	}
	return out, true
}
