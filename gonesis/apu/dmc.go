package apu

// dmcRates is the NTSC output rate table, in CPU cycles per bit.
var dmcRates = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54,
}

// MemoryReader is the slice of the CPU bus the DMC sample fetcher needs.
type MemoryReader interface {
	CPURead(address uint16) uint8
}

// DeltaModulationChannel plays 1-bit delta encoded samples straight out of
// cartridge space (0x4010-0x4013).
type DeltaModulationChannel struct {
	IRQEnabled bool
	IRQFlag    bool
	Loop       bool

	Period  uint16
	Counter uint16

	Output uint8

	SampleAddress  uint16
	SampleLength   uint16
	CurrentAddress uint16
	BytesRemaining uint16

	SampleBuffer      uint8
	SampleBufferEmpty bool

	ShiftRegister uint8
	BitsRemaining uint8
	Silence       bool
}

func newDeltaModulationChannel() DeltaModulationChannel {
	return DeltaModulationChannel{
		Period:            dmcRates[0] - 1,
		SampleAddress:     0xC000,
		SampleLength:      1,
		SampleBufferEmpty: true,
		BitsRemaining:     8,
		Silence:           true,
	}
}

func (d *DeltaModulationChannel) processFreqUpdate(value uint8) {
	d.IRQEnabled = value&0x80 != 0
	if !d.IRQEnabled {
		d.IRQFlag = false
	}
	d.Loop = value&0x40 != 0
	d.Period = dmcRates[value&0x0F] - 1
}

func (d *DeltaModulationChannel) processRawUpdate(value uint8) {
	d.Output = value & 0x7F
}

func (d *DeltaModulationChannel) processStartUpdate(value uint8) {
	d.SampleAddress = 0xC000 | uint16(value)<<6
}

func (d *DeltaModulationChannel) processLenUpdate(value uint8) {
	d.SampleLength = uint16(value)<<4 + 1
}

func (d *DeltaModulationChannel) processSndChnUpdate(value uint8, mem MemoryReader) {
	d.IRQFlag = false

	if value&0x10 == 0 {
		d.BytesRemaining = 0
		return
	}

	if d.BytesRemaining == 0 {
		d.restart()
		d.fill(mem)
	}
}

func (d *DeltaModulationChannel) restart() {
	d.CurrentAddress = d.SampleAddress
	d.BytesRemaining = d.SampleLength
}

// fill loads the next sample byte when the buffer is empty. Reads go
// through the CPU bus but do not stall the CPU.
func (d *DeltaModulationChannel) fill(mem MemoryReader) {
	if !d.SampleBufferEmpty || d.BytesRemaining == 0 {
		return
	}

	d.SampleBuffer = mem.CPURead(d.CurrentAddress)
	d.SampleBufferEmpty = false

	if d.CurrentAddress == 0xFFFF {
		d.CurrentAddress = 0x8000
	} else {
		d.CurrentAddress++
	}

	d.BytesRemaining--
	if d.BytesRemaining == 0 {
		if d.Loop {
			d.restart()
		} else if d.IRQEnabled {
			d.IRQFlag = true
		}
	}
}

func (d *DeltaModulationChannel) tick(mem MemoryReader) {
	d.fill(mem)

	if d.Counter > 0 {
		d.Counter--
		return
	}
	d.Counter = d.Period

	if !d.Silence {
		if d.ShiftRegister&0x01 != 0 {
			if d.Output <= 125 {
				d.Output += 2
			}
		} else if d.Output >= 2 {
			d.Output -= 2
		}
	}
	d.ShiftRegister >>= 1

	d.BitsRemaining--
	if d.BitsRemaining == 0 {
		d.BitsRemaining = 8
		if d.SampleBufferEmpty {
			d.Silence = true
		} else {
			d.Silence = false
			d.ShiftRegister = d.SampleBuffer
			d.SampleBufferEmpty = true
			d.fill(mem)
		}
	}
}

func (d *DeltaModulationChannel) sample() uint8 {
	return d.Output
}
