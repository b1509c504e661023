// Package input names the things a user can ask for, independent of the
// backend that captured the key press.
package input

import (
	"github.com/valerio/gonesis/gonesis/apu"
	"github.com/valerio/gonesis/gonesis/bus"
)

// Action is a controller button or an emulator command.
type Action int

const (
	// Controller buttons
	ButtonA Action = iota
	ButtonB
	ButtonSelect
	ButtonStart
	DPadUp
	DPadDown
	DPadLeft
	DPadRight

	// Emulator controls
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorScreenshot
	EmulatorSaveState
	EmulatorLoadState
	EmulatorDebugToggle
	EmulatorQuit

	// Audio debug controls
	AudioTogglePulse1
	AudioTogglePulse2
	AudioToggleTriangle
	AudioToggleNoise
	AudioToggleDMC
	AudioUnmuteAll

	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

var actionNames = map[Action]string{
	ButtonA:               "A",
	ButtonB:               "B",
	ButtonSelect:          "Select",
	ButtonStart:           "Start",
	DPadUp:                "Up",
	DPadDown:              "Down",
	DPadLeft:              "Left",
	DPadRight:             "Right",
	EmulatorPauseToggle:   "pause",
	EmulatorStepFrame:     "step frame",
	EmulatorScreenshot:    "screenshot",
	EmulatorSaveState:     "save state",
	EmulatorLoadState:     "load state",
	EmulatorDebugToggle:   "debug panel",
	EmulatorQuit:          "quit",
	AudioTogglePulse1:     "toggle pulse 1",
	AudioTogglePulse2:     "toggle pulse 2",
	AudioToggleTriangle:   "toggle triangle",
	AudioToggleNoise:      "toggle noise",
	AudioToggleDMC:        "toggle DMC",
	AudioUnmuteAll:        "unmute all",
	DebugLogLevelIncrease: "more logging",
	DebugLogLevelDecrease: "less logging",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Button returns the controller bit for button actions.
func (a Action) Button() (bus.Button, bool) {
	if a < ButtonA || a > DPadRight {
		return 0, false
	}
	return joypadButtons[a], true
}

var joypadButtons = [...]bus.Button{
	ButtonA:      bus.ButtonA,
	ButtonB:      bus.ButtonB,
	ButtonSelect: bus.ButtonSelect,
	ButtonStart:  bus.ButtonStart,
	DPadUp:       bus.ButtonUp,
	DPadDown:     bus.ButtonDown,
	DPadLeft:     bus.ButtonLeft,
	DPadRight:    bus.ButtonRight,
}

// IsDirection reports whether a is a d-pad direction.
func (a Action) IsDirection() bool {
	return a >= DPadUp && a <= DPadRight
}

// Channel returns the APU channel an audio toggle refers to.
func (a Action) Channel() (apu.Channel, bool) {
	if a < AudioTogglePulse1 || a > AudioToggleDMC {
		return 0, false
	}
	return apu.Pulse1 + apu.Channel(a-AudioTogglePulse1), true
}
