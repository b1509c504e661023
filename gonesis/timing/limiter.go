package timing

import "time"

// Limiter paces emulation to real time.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due. It returns
	// immediately when running behind.
	WaitForNextFrame()

	// Reset restarts pacing from now, e.g. after a pause.
	Reset()
}

// NewNoOpLimiter returns a limiter that never waits, for headless runs.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// NTSC 2A03 timing. A frame is 341*262 dots minus the skipped dot on odd
// frames, averaged to 89341.5 dots, at three dots per CPU cycle.
const (
	CPUFrequency   = 1789773
	CyclesPerFrame = 89341.5 / 3
)

// TargetFPS returns the NTSC frame rate, about 60.0988.
func TargetFPS() float64 {
	return CPUFrequency / CyclesPerFrame
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
