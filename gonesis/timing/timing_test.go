package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNTSCFrameRate(t *testing.T) {
	assert.InDelta(t, 60.0988, TargetFPS(), 0.0001)
	assert.InDelta(t, float64(16639*time.Microsecond), float64(FrameDuration()), float64(time.Microsecond))
}

func TestAdaptiveLimiterDropsDebt(t *testing.T) {
	clock := time.Unix(0, 0)
	a := NewAdaptiveLimiter()
	a.now = func() time.Time { return clock }
	a.Reset()

	// A full second behind schedule: no waiting, and the next deadline is
	// one frame from now rather than one frame after the missed one.
	clock = clock.Add(time.Second)
	a.WaitForNextFrame()
	assert.Equal(t, clock.Add(a.frameTime), a.next)
}

func TestAdaptiveLimiterSpinsUntilDeadline(t *testing.T) {
	clock := time.Unix(0, 0)
	calls := 0
	a := NewAdaptiveLimiter()
	a.now = func() time.Time {
		calls++
		// Each reading of the clock advances it, so the spin terminates.
		clock = clock.Add(100 * time.Microsecond)
		return clock
	}
	a.Reset()
	a.next = clock.Add(time.Millisecond)

	a.WaitForNextFrame()
	assert.False(t, clock.Before(a.next.Add(-a.frameTime)), "returned before the deadline")
	assert.Greater(t, calls, 5)
}

func TestNoOpLimiter(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for range 1000 {
		l.WaitForNextFrame()
	}
	assert.Less(t, time.Since(start), time.Second)
}
