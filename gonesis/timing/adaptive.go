package timing

import (
	"log/slog"
	"time"
)

const (
	busyWaitThreshold = 2 * time.Millisecond
	maxLag            = 5 * time.Millisecond
	maxDrift          = 10 * time.Millisecond
	driftCheckFrames  = 60
)

// AdaptiveLimiter sleeps for most of the wait and busy-waits the last
// millisecond. Accumulated drift is corrected gradually.
type AdaptiveLimiter struct {
	frameTime time.Duration
	next      time.Time
	frames    int64

	now func() time.Time
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		frameTime: FrameDuration(),
		next:      time.Now(),
		now:       time.Now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	wait := a.next.Sub(now)

	switch {
	case wait > busyWaitThreshold:
		time.Sleep(wait - time.Millisecond)
		a.spin()
	case wait > 0:
		a.spin()
	case wait < -maxLag:
		// Too far behind to catch up; drop the debt.
		a.next = now
	}

	a.next = a.next.Add(a.frameTime)
	a.frames++

	if a.frames%driftCheckFrames == 0 {
		drift := a.now().Sub(a.next)
		if drift.Abs() > maxDrift {
			a.next = a.next.Add(drift / 10)
			slog.Debug("frame timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *AdaptiveLimiter) spin() {
	for a.now().Before(a.next) {
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.next = a.now()
	a.frames = 0
}
