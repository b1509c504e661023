package apu

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// LengthCounter silences a channel after a programmed number of half-frame
// clocks. Loads are ignored while the channel is disabled in 0x4015.
type LengthCounter struct {
	Counter uint8
	Halted  bool
	Enabled bool
}

func (l *LengthCounter) load(value uint8) {
	if l.Enabled {
		l.Counter = lengthTable[value>>3]
	}
}

func (l *LengthCounter) setEnabled(enabled bool) {
	l.Enabled = enabled
	if !enabled {
		l.Counter = 0
	}
}

func (l *LengthCounter) clock() {
	if !l.Halted && l.Counter > 0 {
		l.Counter--
	}
}

// Envelope produces either a constant volume or a decaying 15..0 ramp,
// clocked on quarter frames.
type Envelope struct {
	Start    bool
	Divider  uint8
	Decay    uint8
	Volume   uint8
	Constant bool
	Loop     bool
}

// processVolUpdate handles the shared layout of 0x4000/0x4004/0x400C.
func (e *Envelope) processVolUpdate(value uint8) {
	e.Loop = value&0x20 != 0
	e.Constant = value&0x10 != 0
	e.Volume = value & 0x0F
}

func (e *Envelope) clock() {
	if e.Start {
		e.Start = false
		e.Decay = 15
		e.Divider = e.Volume
		return
	}

	if e.Divider > 0 {
		e.Divider--
		return
	}

	e.Divider = e.Volume
	if e.Decay > 0 {
		e.Decay--
	} else if e.Loop {
		e.Decay = 15
	}
}

func (e *Envelope) output() uint8 {
	if e.Constant {
		return e.Volume
	}
	return e.Decay
}
