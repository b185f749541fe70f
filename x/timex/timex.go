// Package timex holds the small time helpers shared by the controller's
// tick scheduling, the PWM period math and event timestamping.
package timex

import "time"

// NowMs returns Unix milliseconds as int64, the timestamp format carried
// on controller events.
func NowMs() int64 { return time.Now().UnixMilli() }

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// TickPeriod returns the control-loop ticker period for a cadence in Hz,
// e.g. 20 Hz -> 50ms.
func TickPeriod(rateHz uint32) time.Duration {
	return time.Duration(PeriodFromHz(rateHz))
}
