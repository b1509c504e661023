package apu

// NegateMode selects how a sweep unit subtracts. Pulse 1 uses ones'
// complement and so always lands one lower than pulse 2.
type NegateMode uint8

const (
	OnesComplement NegateMode = iota
	TwosComplement
)

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// Sweep periodically bends the pulse period up or down.
type Sweep struct {
	Enabled       bool
	DividerPeriod uint8
	Divider       uint8
	Negate        bool
	Shift         uint8
	Reload        bool
	Mode          NegateMode
}

func (s *Sweep) processUpdate(value uint8) {
	s.Enabled = value&0x80 != 0
	s.DividerPeriod = (value >> 4) & 0x07
	s.Negate = value&0x08 != 0
	s.Shift = value & 0x07
	s.Reload = true
}

// targetPeriod is computed continuously, even when the sweep is disabled,
// because it also drives muting.
func (s *Sweep) targetPeriod(period uint16) int {
	change := int(period >> s.Shift)
	if !s.Negate {
		return int(period) + change
	}
	if s.Mode == OnesComplement {
		return int(period) - change - 1
	}
	return int(period) - change
}

// PulseChannel is one of the two square wave channels at 0x4000-0x4007.
type PulseChannel struct {
	Duty     uint8
	Step     uint8
	Period   uint16
	Counter  uint16
	OddCycle bool
	Envelope Envelope
	Sweep    Sweep
	Length   LengthCounter
}

func newPulseChannel(mode NegateMode) PulseChannel {
	return PulseChannel{Sweep: Sweep{Mode: mode}}
}

func (p *PulseChannel) processVolUpdate(value uint8) {
	p.Duty = value >> 6
	p.Length.Halted = value&0x20 != 0
	p.Envelope.processVolUpdate(value)
}

func (p *PulseChannel) processSweepUpdate(value uint8) {
	p.Sweep.processUpdate(value)
}

func (p *PulseChannel) processLoUpdate(value uint8) {
	p.Period = p.Period&0x0700 | uint16(value)
}

func (p *PulseChannel) processHiUpdate(value uint8) {
	p.Period = p.Period&0x00FF | uint16(value&0x07)<<8
	p.Step = 0
	p.Envelope.Start = true
	p.Length.load(value)
}

func (p *PulseChannel) processSndChnUpdate(enabled bool) {
	p.Length.setEnabled(enabled)
}

// tick runs once per CPU cycle; the pulse timer only advances on every
// other one.
func (p *PulseChannel) tick() {
	p.OddCycle = !p.OddCycle
	if !p.OddCycle {
		return
	}

	if p.Counter == 0 {
		p.Counter = p.Period
		p.Step = (p.Step - 1) & 0x07
	} else {
		p.Counter--
	}
}

func (p *PulseChannel) clockQuarterFrame() {
	p.Envelope.clock()
}

func (p *PulseChannel) clockHalfFrame() {
	target := p.Sweep.targetPeriod(p.Period)
	if p.Sweep.Divider == 0 && p.Sweep.Enabled && p.Sweep.Shift > 0 && !p.muted() && target >= 0 {
		p.Period = uint16(target)
	}
	if p.Sweep.Divider == 0 || p.Sweep.Reload {
		p.Sweep.Divider = p.Sweep.DividerPeriod
		p.Sweep.Reload = false
	} else {
		p.Sweep.Divider--
	}

	p.Length.clock()
}

func (p *PulseChannel) muted() bool {
	return p.Period < 8 || p.Sweep.targetPeriod(p.Period) > 0x07FF
}

func (p *PulseChannel) sample() uint8 {
	if p.Length.Counter == 0 || p.muted() || dutyTable[p.Duty][p.Step] == 0 {
		return 0
	}
	return p.Envelope.output()
}
