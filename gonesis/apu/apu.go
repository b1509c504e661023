// Package apu implements the NES audio processing unit: two pulse channels,
// a triangle, a noise channel, the delta modulation channel, the frame
// sequencer that clocks their envelopes and counters, and the nonlinear
// mixer.
//
// The APU runs in the CPU clock domain. It never sees CPU writes directly:
// the bus records which IO registers changed and the APU drains that list at
// the start of each tick.
// Reference: https://www.nesdev.org/wiki/APU
package apu

import (
	"log/slog"

	"github.com/valerio/gonesis/gonesis/addr"
	"github.com/valerio/gonesis/gonesis/bus"
	"github.com/valerio/gonesis/gonesis/interrupt"
)

// Channel identifies one of the five APU channels.
type Channel int

const (
	Pulse1 Channel = iota
	Pulse2
	Triangle
	Noise
	DMC

	channelCount
)

func (c Channel) String() string {
	switch c {
	case Pulse1:
		return "pulse1"
	case Pulse2:
		return "pulse2"
	case Triangle:
		return "triangle"
	case Noise:
		return "noise"
	case DMC:
		return "dmc"
	}
	return "unknown"
}

const hpfCharge = 0.999082

// APU holds the state of all five channels and the frame sequencer.
type APU struct {
	pulse1   PulseChannel
	pulse2   PulseChannel
	triangle TriangleChannel
	noise    NoiseChannel
	dmc      DeltaModulationChannel

	frameCounter FrameCounter
	frameIRQ     bool

	hpfCapacitor float64
	lastSample   float64

	// Debug
	muted [channelCount]bool
}

// New returns an APU in its power-on state.
func New() *APU {
	return &APU{
		pulse1: newPulseChannel(OnesComplement),
		pulse2: newPulseChannel(TwosComplement),
		noise:  newNoiseChannel(),
		dmc:    newDeltaModulationChannel(),
	}
}

// Tick advances the APU by one CPU cycle. It must run after the bus has
// applied this cycle's writes.
func (a *APU) Tick(b *bus.Bus) {
	io := b.IORegisters()

	if io.TakeSndChnRead() {
		a.frameIRQ = false
	}

	for _, reg := range io.DirtyRegisters() {
		a.processRegisterUpdate(reg, io.Value(reg), b)
	}
	io.ClearDirty()

	a.tickCPU(b)

	io.SetAPUStatus(a.Status())

	if a.IsActiveCycle() {
		a.lastSample = a.highPass(a.mix())
	}
}

func (a *APU) processRegisterUpdate(reg addr.IORegister, value uint8, mem MemoryReader) {
	switch reg {
	case addr.Sq1Vol:
		a.pulse1.processVolUpdate(value)
	case addr.Sq1Sweep:
		a.pulse1.processSweepUpdate(value)
	case addr.Sq1Lo:
		a.pulse1.processLoUpdate(value)
	case addr.Sq1Hi:
		a.pulse1.processHiUpdate(value)
	case addr.Sq2Vol:
		a.pulse2.processVolUpdate(value)
	case addr.Sq2Sweep:
		a.pulse2.processSweepUpdate(value)
	case addr.Sq2Lo:
		a.pulse2.processLoUpdate(value)
	case addr.Sq2Hi:
		a.pulse2.processHiUpdate(value)
	case addr.TriLinear:
		a.triangle.processLinearUpdate(value)
	case addr.TriLo:
		a.triangle.processLoUpdate(value)
	case addr.TriHi:
		a.triangle.processHiUpdate(value)
	case addr.NoiseVol:
		a.noise.processVolUpdate(value)
	case addr.NoiseLo:
		a.noise.processLoUpdate(value)
	case addr.NoiseHi:
		a.noise.processHiUpdate(value)
	case addr.DMCFreq:
		a.dmc.processFreqUpdate(value)
	case addr.DMCRaw:
		a.dmc.processRawUpdate(value)
	case addr.DMCStart:
		a.dmc.processStartUpdate(value)
	case addr.DMCLen:
		a.dmc.processLenUpdate(value)
	case addr.SndChn:
		a.pulse1.processSndChnUpdate(value&0x01 != 0)
		a.pulse2.processSndChnUpdate(value&0x02 != 0)
		a.triangle.processSndChnUpdate(value&0x04 != 0)
		a.noise.processSndChnUpdate(value&0x08 != 0)
		a.dmc.processSndChnUpdate(value, mem)
	case addr.Joy2:
		a.frameCounter.processJoy2Update(value)
	default:
		slog.Debug("apu: write to unused register", "register", reg, "value", value)
	}
}

// tickCPU clocks the channel timers, then the frame sequencer, then the
// units the sequencer drives.
func (a *APU) tickCPU(b *bus.Bus) {
	a.pulse1.tick()
	a.pulse2.tick()
	a.triangle.tick()
	a.noise.tick()
	a.dmc.tick(b)
	a.frameCounter.tick()

	if a.frameCounter.quarterFrameClock() {
		a.pulse1.clockQuarterFrame()
		a.pulse2.clockQuarterFrame()
		a.triangle.clockQuarterFrame()
		a.noise.clockQuarterFrame()
	}

	if a.frameCounter.halfFrameClock() {
		a.pulse1.clockHalfFrame()
		a.pulse2.clockHalfFrame()
		a.triangle.clockHalfFrame()
		a.noise.clockHalfFrame()
	}

	if a.frameCounter.shouldSetInterrupt() {
		a.frameIRQ = true
	} else if a.frameCounter.Inhibit {
		a.frameIRQ = false
	}

	lines := b.Interrupts()
	lines.SetIRQLowPull(interrupt.SourceFrameCounter, a.frameIRQ)
	lines.SetIRQLowPull(interrupt.SourceDMC, a.dmc.IRQFlag)
}

// IsActiveCycle reports whether the last tick was an APU cycle (every other
// CPU cycle). Samples are produced on these cycles only.
func (a *APU) IsActiveCycle() bool {
	return a.frameCounter.CPUTicks&0x01 != 0
}

// Status returns the byte read back from 0x4015.
func (a *APU) Status() uint8 {
	var status uint8
	if a.dmc.IRQFlag {
		status |= 0x80
	}
	if a.frameIRQ {
		status |= 0x40
	}
	if a.dmc.BytesRemaining > 0 {
		status |= 0x10
	}
	if a.noise.Length.Counter > 0 {
		status |= 0x08
	}
	if a.triangle.Length.Counter > 0 {
		status |= 0x04
	}
	if a.pulse2.Length.Counter > 0 {
		status |= 0x02
	}
	if a.pulse1.Length.Counter > 0 {
		status |= 0x01
	}
	return status
}

// Sample returns the most recent filtered output in roughly [-1, 1].
func (a *APU) Sample() float64 {
	return a.lastSample
}

func (a *APU) channelSample(ch Channel) float64 {
	if a.muted[ch] {
		return 0
	}
	switch ch {
	case Pulse1:
		return float64(a.pulse1.sample())
	case Pulse2:
		return float64(a.pulse2.sample())
	case Triangle:
		return float64(a.triangle.sample())
	case Noise:
		return float64(a.noise.sample())
	case DMC:
		return float64(a.dmc.sample())
	}
	return 0
}

// mix applies the nonlinear mixer approximation from
// https://www.nesdev.org/wiki/APU_Mixer and centers the result on zero.
func (a *APU) mix() float64 {
	p1 := a.channelSample(Pulse1)
	p2 := a.channelSample(Pulse2)
	t := a.channelSample(Triangle)
	n := a.channelSample(Noise)
	d := a.channelSample(DMC)

	var pulse float64
	if p1+p2 > 0 {
		pulse = 95.88 / (8128.0/(p1+p2) + 100.0)
	}

	var tnd float64
	if t > 0 || n > 0 || d > 0 {
		tnd = 159.79 / (1.0/(t/8227.0+n/12241.0+d/22638.0) + 100.0)
	}

	return pulse + tnd - 0.5
}

func (a *APU) highPass(sample float64) float64 {
	filtered := sample - a.hpfCapacitor
	a.hpfCapacitor = sample - hpfCharge*filtered
	return filtered
}

// MuteChannel silences or restores a single channel in the mix
func (a *APU) MuteChannel(ch Channel, muted bool) {
	if ch < 0 || ch >= channelCount {
		return
	}
	a.muted[ch] = muted
}

// ToggleChannel flips the mute state of a channel
func (a *APU) ToggleChannel(ch Channel) {
	if ch < 0 || ch >= channelCount {
		return
	}
	a.muted[ch] = !a.muted[ch]
}

// SoloChannel mutes every channel except ch
func (a *APU) SoloChannel(ch Channel) {
	for i := range a.muted {
		a.muted[i] = Channel(i) != ch
	}
}

// UnmuteAll restores every channel
func (a *APU) UnmuteAll() {
	a.muted = [channelCount]bool{}
}

// ChannelStatus returns whether each channel is audible in the mix.
func (a *APU) ChannelStatus() [channelCount]bool {
	var status [channelCount]bool
	for i, m := range a.muted {
		status[i] = !m
	}
	return status
}
