package timex

import (
	"testing"
	"time"
)

func TestPeriodFromHz(t *testing.T) {
	cases := []struct {
		hz   uint32
		want uint64
	}{
		{1000, 1_000_000},
		{20, 50_000_000},
		{1, 1_000_000_000},
		{0, 1_000_000_000}, // coerced, no division by zero
	}
	for _, c := range cases {
		if got := PeriodFromHz(c.hz); got != c.want {
			t.Fatalf("PeriodFromHz(%d) = %d, want %d", c.hz, got, c.want)
		}
	}
}

func TestTickPeriod(t *testing.T) {
	if got := TickPeriod(20); got != 50*time.Millisecond {
		t.Fatalf("TickPeriod(20) = %v, want 50ms", got)
	}
}

func TestNowMs(t *testing.T) {
	before := time.Now().UnixMilli()
	got := NowMs()
	after := time.Now().UnixMilli()
	if got < before || got > after {
		t.Fatalf("NowMs() = %d outside [%d, %d]", got, before, after)
	}
}
