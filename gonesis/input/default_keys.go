package input

// DefaultKeyMap maps backend-neutral key names to actions. Backends
// translate their own key codes to these names.
var DefaultKeyMap = map[string]Action{
	"x":         ButtonA,
	"z":         ButtonB,
	"Shift":     ButtonSelect,
	"Backspace": ButtonSelect,
	"Enter":     ButtonStart,
	"Up":        DPadUp,
	"Down":      DPadDown,
	"Left":      DPadLeft,
	"Right":     DPadRight,

	"w": DPadUp,
	"s": DPadDown,
	"a": DPadLeft,
	"d": DPadRight,

	"Space":  EmulatorPauseToggle,
	"p":      EmulatorPauseToggle,
	"o":      EmulatorStepFrame,
	"F5":     EmulatorSaveState,
	"F7":     EmulatorLoadState,
	"F9":     EmulatorScreenshot,
	"F10":    EmulatorDebugToggle,
	"Escape": EmulatorQuit,
	"q":      EmulatorQuit,

	"1": AudioTogglePulse1,
	"2": AudioTogglePulse2,
	"3": AudioToggleTriangle,
	"4": AudioToggleNoise,
	"5": AudioToggleDMC,
	"0": AudioUnmuteAll,

	"+": DebugLogLevelIncrease,
	"=": DebugLogLevelIncrease,
	"-": DebugLogLevelDecrease,
	"_": DebugLogLevelDecrease,
}

// DefaultMapping returns the default action for a key name.
func DefaultMapping(key string) (Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
