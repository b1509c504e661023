package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/gonesis/gonesis/apu"
	"github.com/valerio/gonesis/gonesis/bus"
)

func TestButton(t *testing.T) {
	tests := []struct {
		action Action
		want   bus.Button
		ok     bool
	}{
		{ButtonA, bus.ButtonA, true},
		{ButtonStart, bus.ButtonStart, true},
		{DPadRight, bus.ButtonRight, true},
		{EmulatorQuit, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			got, ok := tt.action.Button()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChannel(t *testing.T) {
	ch, ok := AudioToggleTriangle.Channel()
	assert.True(t, ok)
	assert.Equal(t, apu.Triangle, ch)

	ch, ok = AudioToggleDMC.Channel()
	assert.True(t, ok)
	assert.Equal(t, apu.DMC, ch)

	_, ok = AudioUnmuteAll.Channel()
	assert.False(t, ok)
}

func TestEveryActionIsNamed(t *testing.T) {
	for a := ButtonA; a <= DebugLogLevelDecrease; a++ {
		assert.NotEqual(t, "unknown", a.String(), "action %d", a)
	}
	for key, a := range DefaultKeyMap {
		assert.NotEqual(t, "unknown", a.String(), "key %s", key)
	}
}

func TestDirections(t *testing.T) {
	assert.True(t, DPadUp.IsDirection())
	assert.False(t, ButtonA.IsDirection())
	assert.False(t, EmulatorPauseToggle.IsDirection())
}
