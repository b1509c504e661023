package apu

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// TriangleChannel is the channel at 0x4008-0x400B. It has no volume
// control; the linear and length counters gate the sequencer instead of
// the output, so a silenced triangle holds its last level.
type TriangleChannel struct {
	Step uint8

	Period  uint16
	Counter uint16

	LinearCounter uint8
	LinearReload  uint8
	ReloadFlag    bool
	Control       bool

	Length LengthCounter
}

func (t *TriangleChannel) processLinearUpdate(value uint8) {
	t.Control = value&0x80 != 0
	t.Length.Halted = t.Control
	t.LinearReload = value & 0x7F
}

func (t *TriangleChannel) processLoUpdate(value uint8) {
	t.Period = t.Period&0x0700 | uint16(value)
}

func (t *TriangleChannel) processHiUpdate(value uint8) {
	t.Period = t.Period&0x00FF | uint16(value&0x07)<<8
	t.ReloadFlag = true
	t.Length.load(value)
}

func (t *TriangleChannel) processSndChnUpdate(enabled bool) {
	t.Length.setEnabled(enabled)
}

func (t *TriangleChannel) tick() {
	if t.Counter > 0 {
		t.Counter--
		return
	}

	t.Counter = t.Period
	if t.Length.Counter > 0 && t.LinearCounter > 0 {
		t.Step = (t.Step + 1) & 0x1F
	}
}

func (t *TriangleChannel) clockQuarterFrame() {
	if t.ReloadFlag {
		t.LinearCounter = t.LinearReload
	} else if t.LinearCounter > 0 {
		t.LinearCounter--
	}

	if !t.Control {
		t.ReloadFlag = false
	}
}

func (t *TriangleChannel) clockHalfFrame() {
	t.Length.clock()
}

func (t *TriangleChannel) sample() uint8 {
	return triangleSequence[t.Step]
}
