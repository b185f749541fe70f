package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Populate embeddedConfigs at build time (e.g. via code generation) or
// manually during development.
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

const cfgPico = `{
  "light": {
    "led_pins": [2, 3, 4, 5],
    "sensor_pins": [6, 7, 8, 9],
    "active_low": [true, true, true, true],
    "polling": false,
    "wrap": 12500,
    "freq_hz": 1000,
    "fade_step": 1000,
    "debounce_ms": 100
  },
  "heartbeat": {
    "interval": 2
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
}
