package clock

import (
	"testing"
	"time"
)

func TestManualClock_Advance(t *testing.T) {
	t.Parallel()

	start := time.Unix(100, 0).UTC()
	c := NewManualClock(start)
	c.Advance(time.Minute)
	if got := c.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Fatalf("Now()=%v, want %v", got, start.Add(time.Minute))
	}
	c.Set(start)
	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now()=%v, want %v", got, start)
	}
}
