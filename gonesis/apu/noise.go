package apu

// noisePeriods is the NTSC period table, in CPU cycles.
var noisePeriods = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// NoiseChannel is the pseudo-random channel at 0x400C-0x400F.
type NoiseChannel struct {
	LFSR    uint16
	Mode    bool
	Period  uint16
	Counter uint16

	Envelope Envelope
	Length   LengthCounter
}

func newNoiseChannel() NoiseChannel {
	return NoiseChannel{
		LFSR:   1,
		Period: noisePeriods[0] - 1,
	}
}

func (n *NoiseChannel) processVolUpdate(value uint8) {
	n.Length.Halted = value&0x20 != 0
	n.Envelope.processVolUpdate(value)
}

func (n *NoiseChannel) processLoUpdate(value uint8) {
	n.Mode = value&0x80 != 0
	n.Period = noisePeriods[value&0x0F] - 1
}

func (n *NoiseChannel) processHiUpdate(value uint8) {
	n.Envelope.Start = true
	n.Length.load(value)
}

func (n *NoiseChannel) processSndChnUpdate(enabled bool) {
	n.Length.setEnabled(enabled)
}

func (n *NoiseChannel) tick() {
	if n.Counter > 0 {
		n.Counter--
		return
	}

	n.Counter = n.Period
	tap := uint16(1)
	if n.Mode {
		tap = 6
	}
	feedback := (n.LFSR & 0x01) ^ ((n.LFSR >> tap) & 0x01)
	n.LFSR = n.LFSR>>1 | feedback<<14
}

func (n *NoiseChannel) clockQuarterFrame() {
	n.Envelope.clock()
}

func (n *NoiseChannel) clockHalfFrame() {
	n.Length.clock()
}

func (n *NoiseChannel) sample() uint8 {
	if n.Length.Counter == 0 || n.LFSR&0x01 != 0 {
		return 0
	}
	return n.Envelope.output()
}
