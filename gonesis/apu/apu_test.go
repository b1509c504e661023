package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/gonesis/gonesis/bus"
	"github.com/valerio/gonesis/gonesis/cartridge"
	"github.com/valerio/gonesis/gonesis/interrupt"
)

func newTestBus(t *testing.T) *bus.Bus {
	t.Helper()
	header := []byte{'N', 'E', 'S', 0x1A, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	image := append(header, make([]byte, 2*16*1024+8*1024)...)
	cart, err := cartridge.Parse(image)
	require.NoError(t, err)
	m, err := cartridge.NewMapper(cart)
	require.NoError(t, err)
	return bus.New(m, 1)
}

func step(a *APU, b *bus.Bus) {
	b.Tick()
	a.Tick(b)
}

func write(a *APU, b *bus.Bus, address uint16, value uint8) {
	b.QueueWrite(address, value)
	step(a, b)
}

type clockCount struct {
	quarter, half int
}

func runFrameCounter(f *FrameCounter, ticks int) clockCount {
	var c clockCount
	for i := 0; i < ticks; i++ {
		f.tick()
		if f.quarterFrameClock() {
			c.quarter++
		}
		if f.halfFrameClock() {
			c.half++
		}
	}
	return c
}

func TestFrameCounterSequence(t *testing.T) {
	tests := []struct {
		name  string
		mode  FrameCounterMode
		ticks int
		want  clockCount
	}{
		{"4-step period", FourStep, fourStepPeriod, clockCount{4, 2}},
		{"4-step two periods", FourStep, 2 * fourStepPeriod, clockCount{8, 4}},
		{"5-step period", FiveStep, fiveStepPeriod, clockCount{4, 2}},
		{"5-step before last step", FiveStep, 37279, clockCount{3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FrameCounter{Mode: tt.mode}
			assert.Equal(t, tt.want, runFrameCounter(&f, tt.ticks))
		})
	}
}

func TestFrameCounterFiveStepWriteClocksImmediately(t *testing.T) {
	f := FrameCounter{}
	f.processJoy2Update(0x80)

	// reset lands 4 ticks after the write, clocking both units once, then
	// a full 5-step period follows
	c := runFrameCounter(&f, 4+fiveStepPeriod)
	assert.Equal(t, clockCount{5, 3}, c)
}

func TestFrameCounterResetDelay(t *testing.T) {
	tests := []struct {
		name      string
		startTick uint16
		wantDelay int
	}{
		{"written on even cycle", 0, 4},
		{"written on odd cycle", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FrameCounter{CPUTicks: tt.startTick}
			f.processJoy2Update(0x80)

			delay := 0
			for f.Reset != ResetJustReset {
				f.tick()
				delay++
				require.Less(t, delay, 10)
			}
			assert.Equal(t, tt.wantDelay, delay)
			assert.Equal(t, uint16(0), f.CPUTicks)
			assert.True(t, f.quarterFrameClock())
			assert.True(t, f.halfFrameClock())

			f.tick()
			assert.Equal(t, ResetNone, f.Reset)
		})
	}
}

func TestFrameCounterFourStepResetDoesNotClock(t *testing.T) {
	f := FrameCounter{CPUTicks: 100}
	f.processJoy2Update(0x00)
	for f.Reset != ResetJustReset {
		f.tick()
	}
	assert.False(t, f.quarterFrameClock())
	assert.False(t, f.halfFrameClock())
}

func TestFrameCounterInterruptWindow(t *testing.T) {
	f := FrameCounter{}
	var set []uint16
	for i := 0; i < fourStepPeriod; i++ {
		f.tick()
		if f.shouldSetInterrupt() {
			set = append(set, f.CPUTicks)
		}
	}
	assert.Equal(t, []uint16{29827, 29828, 29829}, set)

	f = FrameCounter{Inhibit: true}
	for i := 0; i < fourStepPeriod; i++ {
		f.tick()
		require.False(t, f.shouldSetInterrupt())
	}
}

func TestFrameIRQ(t *testing.T) {
	b := newTestBus(t)
	a := New()

	for i := 0; i < fourStepPeriod+1; i++ {
		step(a, b)
	}
	assert.Equal(t, uint8(0x40), a.Status()&0x40)
	assert.True(t, b.Interrupts().IRQLowPulled(interrupt.SourceFrameCounter))

	// reading 0x4015 acknowledges the interrupt on the next tick
	assert.Equal(t, uint8(0x40), b.CPURead(0x4015)&0x40)
	step(a, b)
	assert.Zero(t, a.Status()&0x40)
	assert.False(t, b.Interrupts().IRQLowPulled(interrupt.SourceFrameCounter))
}

func TestFrameIRQInhibitClearsFlag(t *testing.T) {
	b := newTestBus(t)
	a := New()
	for i := 0; i < fourStepPeriod+1; i++ {
		step(a, b)
	}
	require.True(t, a.frameIRQ)

	write(a, b, 0x4017, 0x40)
	assert.False(t, a.frameIRQ)
}

func TestPulsePeriodRoundTrip(t *testing.T) {
	periods := []uint16{0x000, 0x001, 0x0FF, 0x100, 0x2AB, 0x7FF}

	for _, period := range periods {
		b := newTestBus(t)
		a := New()
		write(a, b, 0x4002, uint8(period))
		write(a, b, 0x4003, uint8(period>>8))
		write(a, b, 0x4006, uint8(period))
		write(a, b, 0x4007, uint8(period>>8))
		write(a, b, 0x400A, uint8(period))
		write(a, b, 0x400B, uint8(period>>8))

		assert.Equal(t, period, a.pulse1.Period, "pulse1 0x%03X", period)
		assert.Equal(t, period, a.pulse2.Period, "pulse2 0x%03X", period)
		assert.Equal(t, period, a.triangle.Period, "triangle 0x%03X", period)
	}
}

func TestNoisePeriodRoundTrip(t *testing.T) {
	for i, want := range noisePeriods {
		n := newNoiseChannel()
		n.processLoUpdate(uint8(i))
		assert.Equal(t, want, n.Period+1, "index %d", i)
	}
}

func TestNoisePeriodMatchesTable(t *testing.T) {
	n := newNoiseChannel()
	n.processLoUpdate(0x02)

	shifts := 0
	for i := 0; i < 16*10; i++ {
		before := n.LFSR
		n.tick()
		if n.LFSR != before {
			shifts++
		}
	}
	assert.Equal(t, 10, shifts)
}

func TestNoiseLFSR(t *testing.T) {
	tests := []struct {
		name string
		mode bool
		lfsr uint16
		want uint16
	}{
		{"long mode", false, 0x0001, 0x4000},
		{"long mode equal taps", false, 0x0003, 0x0001},
		{"short mode", true, 0x0001, 0x4000},
		{"short mode uses bit 6", true, 0x0041, 0x0020},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newNoiseChannel()
			n.Mode = tt.mode
			n.LFSR = tt.lfsr
			n.tick()
			assert.Equal(t, tt.want, n.LFSR)
		})
	}
}

func TestLengthCounterLoadsOnlyWhenEnabled(t *testing.T) {
	b := newTestBus(t)
	a := New()

	write(a, b, 0x4003, 0x08)
	assert.Zero(t, a.Status()&0x01)

	write(a, b, 0x4015, 0x01)
	write(a, b, 0x4003, 0x08)
	assert.Equal(t, uint8(254), a.pulse1.Length.Counter)
	assert.Equal(t, uint8(0x01), a.Status()&0x01)
	assert.Equal(t, uint8(0x01), b.CPURead(0x4015)&0x01)

	write(a, b, 0x4015, 0x00)
	assert.Zero(t, a.pulse1.Length.Counter)
}

func TestSweepNegate(t *testing.T) {
	tests := []struct {
		mode NegateMode
		want int
	}{
		{OnesComplement, 0x7F},
		{TwosComplement, 0x80},
	}

	for _, tt := range tests {
		s := Sweep{Mode: tt.mode, Negate: true, Shift: 1}
		assert.Equal(t, tt.want, s.targetPeriod(0x100))
	}
}

func TestPulseMuting(t *testing.T) {
	tests := []struct {
		name   string
		period uint16
		sweep  uint8
		muted  bool
	}{
		{"low period", 7, 0x00, true},
		{"audible", 0x100, 0x00, false},
		{"target overflow", 0x600, 0x01, true},
		{"negated target never overflows", 0x600, 0x09, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPulseChannel(OnesComplement)
			p.Period = tt.period
			p.processSweepUpdate(tt.sweep)
			assert.Equal(t, tt.muted, p.muted())
		})
	}
}

func TestEnvelopeDecay(t *testing.T) {
	e := Envelope{Volume: 0, Start: true}
	e.clock()
	assert.Equal(t, uint8(15), e.output())

	for want := 14; want >= 0; want-- {
		e.clock()
		assert.Equal(t, uint8(want), e.output())
	}

	e.clock()
	assert.Equal(t, uint8(0), e.output(), "no loop holds at zero")

	e.Loop = true
	e.clock()
	assert.Equal(t, uint8(15), e.output())

	e.Constant = true
	e.Volume = 9
	assert.Equal(t, uint8(9), e.output())
}

func TestTriangleGatedByCounters(t *testing.T) {
	tr := TriangleChannel{}
	tr.tick()
	assert.Equal(t, uint8(0), tr.Step, "silenced triangle does not advance")

	tr.Length.Enabled = true
	tr.processLinearUpdate(0x10)
	tr.processHiUpdate(0x08)
	tr.clockQuarterFrame()
	require.Equal(t, uint8(0x10), tr.LinearCounter)

	tr.tick()
	assert.Equal(t, uint8(1), tr.Step)
	assert.Equal(t, uint8(14), tr.sample())
}

type fakeMemory map[uint16]uint8

func (m fakeMemory) CPURead(address uint16) uint8 {
	return m[address]
}

func TestDMCSampleFetch(t *testing.T) {
	mem := fakeMemory{0xC040: 0xFF, 0xC041: 0x00}
	d := newDeltaModulationChannel()
	d.processFreqUpdate(0x8F)
	d.processStartUpdate(0x01)
	d.processLenUpdate(0x00)
	d.processSndChnUpdate(0x10, mem)

	assert.False(t, d.SampleBufferEmpty)
	assert.Equal(t, uint8(0xFF), d.SampleBuffer)
	assert.Zero(t, d.BytesRemaining)
	assert.True(t, d.IRQFlag, "IRQ raised when the last byte is fetched")
	assert.Equal(t, uint16(0xC041), d.CurrentAddress)

	d.processFreqUpdate(0x0F)
	assert.False(t, d.IRQFlag, "disabling IRQs clears the flag")
}

func TestDMCLoopRestarts(t *testing.T) {
	mem := fakeMemory{}
	d := newDeltaModulationChannel()
	d.processFreqUpdate(0xC0)
	d.processLenUpdate(0x01)
	d.processSndChnUpdate(0x10, mem)

	assert.Equal(t, uint16(16), d.BytesRemaining)
	assert.Equal(t, uint16(0xC001), d.CurrentAddress)
	assert.False(t, d.IRQFlag)
}

func TestDMCAddressWraps(t *testing.T) {
	d := newDeltaModulationChannel()
	d.CurrentAddress = 0xFFFF
	d.BytesRemaining = 2
	d.fill(fakeMemory{})
	assert.Equal(t, uint16(0x8000), d.CurrentAddress)
}

func TestDMCOutputUnit(t *testing.T) {
	tests := []struct {
		name  string
		start uint8
		shift uint8
		want  uint8
	}{
		{"one bit increments", 10, 0x01, 12},
		{"zero bit decrements", 10, 0x00, 8},
		{"clamped high", 126, 0x01, 126},
		{"clamped low", 1, 0x00, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeltaModulationChannel()
			d.Output = tt.start
			d.ShiftRegister = tt.shift
			d.Silence = false
			d.tick(fakeMemory{})
			assert.Equal(t, tt.want, d.sample())
		})
	}
}

func TestMixer(t *testing.T) {
	a := New()
	a.triangle.Step = 15
	assert.InDelta(t, -0.5, a.mix(), 1e-9, "silence")

	a.pulse1.Length.Counter = 10
	a.pulse1.Period = 0x100
	a.pulse1.Duty = 2
	a.pulse1.Step = 1
	a.pulse1.Envelope.Constant = true
	a.pulse1.Envelope.Volume = 15
	assert.InDelta(t, 95.88/(8128.0/15+100)-0.5, a.mix(), 1e-9)

	a.MuteChannel(Pulse1, true)
	assert.InDelta(t, -0.5, a.mix(), 1e-9)
}

func TestHighPassRemovesDC(t *testing.T) {
	a := New()
	first := a.highPass(0.5)
	assert.InDelta(t, 0.5, first, 1e-9)

	var last float64
	for i := 0; i < 100000; i++ {
		last = a.highPass(0.5)
	}
	assert.InDelta(t, 0, last, 1e-3)
}

func TestSampleOnlyOnActiveCycles(t *testing.T) {
	b := newTestBus(t)
	a := New()

	step(a, b)
	require.True(t, a.IsActiveCycle())
	first := a.Sample()
	assert.NotZero(t, first)

	step(a, b)
	assert.False(t, a.IsActiveCycle())
	assert.Equal(t, first, a.Sample())
}

func TestSoloAndMute(t *testing.T) {
	a := New()
	a.SoloChannel(Triangle)
	assert.Equal(t, [channelCount]bool{false, false, true, false, false}, a.ChannelStatus())

	a.ToggleChannel(Pulse1)
	assert.True(t, a.ChannelStatus()[Pulse1])

	a.UnmuteAll()
	assert.Equal(t, [channelCount]bool{true, true, true, true, true}, a.ChannelStatus())
}

func TestStateRestore(t *testing.T) {
	b := newTestBus(t)
	a := New()
	write(a, b, 0x4015, 0x0F)
	write(a, b, 0x4000, 0xBF)
	write(a, b, 0x4002, 0x80)
	write(a, b, 0x4003, 0x08)
	for i := 0; i < 1000; i++ {
		step(a, b)
	}

	saved := a.State()
	restored := New()
	restored.Restore(saved)
	assert.Equal(t, saved, restored.State())

	for i := 0; i < 1000; i++ {
		b.Tick()
		a.Tick(b)
	}
	assert.NotEqual(t, saved, a.State())
}
