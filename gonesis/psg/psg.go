// Package psg implements the SN76489 programmable sound generator used by
// the Master System and Game Gear: three square wave tone generators and a
// noise generator, all behind a single write-only port.
//
// The NES console does not use this package. It is a standalone unit for a
// Master System class machine: the host writes the port with Write, calls
// Tick once per input clock and reads Sample.
// Reference: https://www.smspower.org/Development/SN76489
package psg

import "math"

const (
	clockDivider = 16
	silent       = 0x0F
	lfsrSeed     = 0x8000
)

// attenuationTable maps a 4-bit attenuation to a linear amplitude. Each
// step is 2dB; 15 is off.
var attenuationTable = func() [16]float64 {
	var table [16]float64
	for i := 0; i < 15; i++ {
		table[i] = math.Pow(10, -0.1*float64(i))
	}
	return table
}()

// Register identifies the target of a latch byte.
type Register uint8

const (
	Tone0 Register = 0x00
	Vol0  Register = 0x10
	Tone1 Register = 0x20
	Vol1  Register = 0x30
	Tone2 Register = 0x40
	Vol2  Register = 0x50
	Noise Register = 0x60
	Vol3  Register = 0x70
)

func (r Register) isTone() bool {
	return r == Tone0 || r == Tone1 || r == Tone2
}

// TickEffect reports whether a Tick clocked the generators.
type TickEffect uint8

const (
	None TickEffect = iota
	Clocked
)

// SquareWaveGenerator is one of the three tone channels. Tone is a 10-bit
// half-period in divided clocks.
type SquareWaveGenerator struct {
	Tone        uint16
	Counter     uint16
	High        bool
	Attenuation uint8
}

func newSquareWaveGenerator() SquareWaveGenerator {
	return SquareWaveGenerator{Attenuation: silent}
}

func (s *SquareWaveGenerator) clock() {
	if s.Counter == 0 {
		s.Counter = s.Tone
		return
	}

	s.Counter--
	if s.Counter == 0 {
		s.Counter = s.Tone
		s.High = !s.High
	}
}

func (s *SquareWaveGenerator) sample() float64 {
	amplitude := attenuationTable[s.Attenuation]
	if s.High {
		return amplitude
	}
	return -amplitude
}

// NoiseMode selects between the tapped (white) and untapped (periodic) shift
// register feedback.
type NoiseMode uint8

const (
	Periodic NoiseMode = iota
	White
)

// NoiseReload selects the noise counter reload: one of three fixed rates,
// or whatever tone generator 2 is playing.
type NoiseReload uint8

const (
	Reload0x10 NoiseReload = iota
	Reload0x20
	Reload0x40
	ReloadTone2
)

// NoiseGenerator shifts a 16-bit LFSR on every rising edge of its counter.
// Output latches bit 0 of the LFSR as it is shifted out; the channel is
// unipolar, so a clear bit is silence rather than a negative level.
type NoiseGenerator struct {
	Mode        NoiseMode
	Reload      NoiseReload
	Counter     uint16
	High        bool
	LFSR        uint16
	Output      bool
	Attenuation uint8
}

func newNoiseGenerator() NoiseGenerator {
	return NoiseGenerator{LFSR: lfsrSeed, Attenuation: silent}
}

func (n *NoiseGenerator) processControl(value uint8) {
	if value&0x04 != 0 {
		n.Mode = White
	} else {
		n.Mode = Periodic
	}
	n.Reload = NoiseReload(value & 0x03)
	n.LFSR = lfsrSeed
}

func (n *NoiseGenerator) reloadValue(tone2 uint16) uint16 {
	switch n.Reload {
	case Reload0x10:
		return 0x10
	case Reload0x20:
		return 0x20
	case Reload0x40:
		return 0x40
	default:
		return tone2
	}
}

func (n *NoiseGenerator) clock(tone2 uint16) {
	if n.Counter == 0 {
		n.Counter = n.reloadValue(tone2)
		return
	}

	n.Counter--
	if n.Counter != 0 {
		return
	}

	n.Counter = n.reloadValue(tone2)
	n.High = !n.High
	if n.High {
		n.shift()
	}
}

func (n *NoiseGenerator) shift() {
	n.Output = n.LFSR&0x01 != 0

	var feedback uint16
	if n.Mode == White {
		feedback = (n.LFSR ^ n.LFSR>>3) & 0x01
	} else {
		feedback = n.LFSR & 0x01
	}
	n.LFSR = n.LFSR>>1 | feedback<<15
}

func (n *NoiseGenerator) sample() float64 {
	if n.Output {
		return attenuationTable[n.Attenuation]
	}
	return 0
}

// PSG is the full sound chip.
type PSG struct {
	squares [3]SquareWaveGenerator
	noise   NoiseGenerator
	latched Register
	divider uint8
}

// New returns a PSG with every channel silent.
func New() *PSG {
	return &PSG{
		squares: [3]SquareWaveGenerator{newSquareWaveGenerator(), newSquareWaveGenerator(), newSquareWaveGenerator()},
		noise:   newNoiseGenerator(),
		latched: Tone0,
		divider: clockDivider,
	}
}

// Write handles a byte written to the PSG port. Bytes with bit 7 set latch
// a register and carry its low 4 bits; other bytes are data for the latched
// register.
func (p *PSG) Write(value uint8) {
	if value&0x80 != 0 {
		p.latched = Register(value & 0x70)
		p.writeLow(value & 0x0F)
		return
	}

	if p.latched.isTone() {
		sq := &p.squares[p.latched>>5]
		sq.Tone = sq.Tone&0x000F | uint16(value&0x3F)<<4
		return
	}
	p.writeLow(value & 0x0F)
}

func (p *PSG) writeLow(data uint8) {
	switch p.latched {
	case Tone0, Tone1, Tone2:
		sq := &p.squares[p.latched>>5]
		sq.Tone = sq.Tone&0x03F0 | uint16(data)
	case Vol0, Vol1, Vol2:
		p.squares[p.latched>>5].Attenuation = data
	case Noise:
		p.noise.processControl(data)
	case Vol3:
		p.noise.Attenuation = data
	}
}

// Tick advances the PSG by one input clock. Generators are clocked every
// 16 input clocks.
func (p *PSG) Tick() TickEffect {
	p.divider--
	if p.divider > 0 {
		return None
	}
	p.divider = clockDivider

	for i := range p.squares {
		p.squares[i].clock()
	}
	p.noise.clock(p.squares[2].Tone)

	return Clocked
}

// Sample mixes the four channels into roughly [-1, 1].
func (p *PSG) Sample() float64 {
	var squares float64
	for i := range p.squares {
		squares += p.squares[i].sample() * 0.5
	}
	return (squares + p.noise.sample()) / 4
}

// Tone returns the 10-bit tone register of square channel ch.
func (p *PSG) Tone(ch int) uint16 {
	return p.squares[ch].Tone
}

// State is the serializable PSG state.
type State struct {
	Squares [3]SquareWaveGenerator
	Noise   NoiseGenerator
	Latched Register
	Divider uint8
}

func (p *PSG) State() State {
	return State{
		Squares: p.squares,
		Noise:   p.noise,
		Latched: p.latched,
		Divider: p.divider,
	}
}

func (p *PSG) Restore(s State) {
	p.squares = s.Squares
	p.noise = s.Noise
	p.latched = s.Latched
	p.divider = s.Divider
}
