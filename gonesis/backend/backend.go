// Package backend defines how frames leave the emulator and how input gets
// back in. Implementations live in subpackages.
package backend

import (
	"github.com/valerio/gonesis/gonesis/bus"
	"github.com/valerio/gonesis/gonesis/input"
	"github.com/valerio/gonesis/gonesis/ppu"
)

// Backend presents frames and collects input. Update is called once per
// emulated frame.
type Backend interface {
	// Init must be called before the first Update.
	Init(config Config) error

	// Update shows frame, polls the platform for events and returns the
	// controller state and any emulator commands since the last call.
	Update(frame *ppu.FrameBuffer) (Input, error)

	Cleanup() error
}

// Config holds backend settings. Backends ignore what they cannot do.
type Config struct {
	Title     string
	ShowDebug bool
	// Debug supplies the text of the debug panel, if the backend has one.
	Debug DebugProvider
}

// DebugProvider reports machine state for display.
type DebugProvider interface {
	DebugLines() []string
}

// Input is the result of one Update.
type Input struct {
	Buttons bus.Button
	Actions []input.Action
}

// Has reports whether act was requested.
func (in Input) Has(act input.Action) bool {
	for _, a := range in.Actions {
		if a == act {
			return true
		}
	}
	return false
}
