package psg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTone(p *PSG, ch int, tone uint16) {
	p.Write(0x80 | uint8(ch)<<5 | uint8(tone&0x0F))
	p.Write(uint8(tone>>4) & 0x3F)
}

func TestTonePeriodRoundTrip(t *testing.T) {
	tones := []uint16{0x000, 0x001, 0x00F, 0x010, 0x155, 0x2AA, 0x3FF}

	for ch := 0; ch < 3; ch++ {
		for _, tone := range tones {
			p := New()
			writeTone(p, ch, tone)
			assert.Equal(t, tone, p.Tone(ch), "channel %d tone 0x%03X", ch, tone)
		}
	}
}

func TestLatchByteKeepsHighBits(t *testing.T) {
	p := New()
	writeTone(p, 1, 0x3F5)

	p.Write(0x80 | 0x20 | 0x0A)
	assert.Equal(t, uint16(0x3FA), p.Tone(1))
}

func TestDataByteForVolumeRegister(t *testing.T) {
	p := New()
	p.Write(0x90 | 0x03)
	assert.Equal(t, uint8(0x03), p.squares[0].Attenuation)

	p.Write(0x07)
	assert.Equal(t, uint8(0x07), p.squares[0].Attenuation)

	p.Write(0xF0 | 0x02)
	assert.Equal(t, uint8(0x02), p.noise.Attenuation)
}

func TestNoiseControl(t *testing.T) {
	tests := []struct {
		value  uint8
		mode   NoiseMode
		reload NoiseReload
	}{
		{0xE0, Periodic, Reload0x10},
		{0xE5, White, Reload0x20},
		{0xE6, White, Reload0x40},
		{0xE3, Periodic, ReloadTone2},
	}

	for _, tt := range tests {
		p := New()
		p.noise.LFSR = 0x1234
		p.Write(tt.value)
		assert.Equal(t, tt.mode, p.noise.Mode)
		assert.Equal(t, tt.reload, p.noise.Reload)
		assert.Equal(t, uint16(lfsrSeed), p.noise.LFSR, "control writes reset the LFSR")
	}
}

func TestDividerClocksEvery16Ticks(t *testing.T) {
	p := New()
	var clocked []int
	for i := 1; i <= 64; i++ {
		if p.Tick() == Clocked {
			clocked = append(clocked, i)
		}
	}
	assert.Equal(t, []int{16, 32, 48, 64}, clocked)
}

func TestSquarePeriod(t *testing.T) {
	s := newSquareWaveGenerator()
	s.Tone = 4

	var flips []int
	last := s.High
	for i := 1; i <= 13; i++ {
		s.clock()
		if s.High != last {
			flips = append(flips, i)
			last = s.High
		}
	}
	// first clock loads the counter, then the output toggles every Tone clocks
	assert.Equal(t, []int{5, 9, 13}, flips)
}

func TestNoiseShiftsOnRisingEdge(t *testing.T) {
	n := newNoiseGenerator()
	n.Reload = Reload0x10

	shifts := 0
	last := n.LFSR
	for i := 0; i < 1+0x10*4; i++ {
		n.clock(0)
		if n.LFSR != last {
			shifts++
			last = n.LFSR
		}
	}
	assert.Equal(t, 2, shifts)
}

func TestNoiseFeedback(t *testing.T) {
	tests := []struct {
		name string
		mode NoiseMode
		lfsr uint16
		want uint16
	}{
		{"periodic", Periodic, 0x0001, 0x8000},
		{"periodic zero bit", Periodic, 0x0002, 0x0001},
		{"white taps 0 and 3", White, 0x0009, 0x0004},
		{"white single tap", White, 0x0008, 0x8004},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NoiseGenerator{Mode: tt.mode, Reload: Reload0x10, Counter: 1, LFSR: tt.lfsr}
			n.clock(0)
			assert.True(t, n.High)
			assert.Equal(t, tt.want, n.LFSR)
		})
	}
}

func TestNoiseOutputLatchesShiftedBit(t *testing.T) {
	n := newNoiseGenerator()
	assert.False(t, n.Output)

	// The seed's single set bit reaches bit 0 after 15 periodic shifts and
	// is latched by the 16th.
	for i := 1; i <= 15; i++ {
		n.shift()
		assert.False(t, n.Output, "shift %d", i)
	}
	n.shift()
	assert.True(t, n.Output)
	assert.Equal(t, uint16(lfsrSeed), n.LFSR)
}

func TestNoiseIsUnipolar(t *testing.T) {
	p := New()
	p.Write(0xF0)
	p.Write(0xE4)
	assert.Zero(t, p.Sample(), "noise starts silent")

	negative, positive := 0, 0
	for range 200000 {
		p.Tick()
		switch s := p.Sample(); {
		case s < 0:
			negative++
		case s > 0:
			positive++
			assert.InDelta(t, 0.25, s, 1e-9)
		}
	}
	assert.Zero(t, negative)
	assert.Positive(t, positive)
}

func TestAttenuation(t *testing.T) {
	assert.InDelta(t, 1.0, attenuationTable[0], 1e-9)
	assert.InDelta(t, 0.630957, attenuationTable[2], 1e-6)
	assert.Zero(t, attenuationTable[silent])
}

func TestSampleMix(t *testing.T) {
	p := New()
	assert.Zero(t, p.Sample(), "power-on is silent")

	p.Write(0x90)
	p.squares[0].High = true
	assert.InDelta(t, 0.5/4, p.Sample(), 1e-9)

	p.Write(0xF0)
	p.noise.Output = true
	assert.InDelta(t, (0.5+1)/4, p.Sample(), 1e-9)
}

func TestStateRestore(t *testing.T) {
	p := New()
	writeTone(p, 0, 0x0FE)
	p.Write(0x91)
	for i := 0; i < 1000; i++ {
		p.Tick()
	}

	saved := p.State()
	q := New()
	q.Restore(saved)
	assert.Equal(t, saved, q.State())
	assert.Equal(t, p.Sample(), q.Sample())
}
