package cartridge

// MMC1Registers is the bank state of mapper 1.
//
// The CPU loads registers one bit at a time through a 5 bit shift register:
// four writes shift in bits, the fifth write commits the value to the
// register selected by address bits 13-14. Writing a value with bit 7 set
// aborts the sequence and forces PRG mode 3.
//
// The chip ignores a write on the cycle right after another write, which is
// what happens when a read-modify-write instruction targets it.
//
// Reference: https://www.nesdev.org/wiki/MMC1
type MMC1Registers struct {
	ShiftRegister uint8
	ShiftCount    uint8

	// Control: bits 0-1 mirroring, bits 2-3 PRG mode, bit 4 CHR mode.
	Control  uint8
	CHRBank0 uint8
	CHRBank1 uint8
	// PRGBank: bits 0-3 bank, bit 4 PRG RAM disable.
	PRGBank uint8

	WrittenThisCycle bool
	WrittenLastCycle bool
}

type mmc1PRGMode uint8

const (
	mmc1Switch32KB mmc1PRGMode = iota
	mmc1FirstBankFixed
	mmc1LastBankFixed
)

func newMMC1Registers() MMC1Registers {
	return MMC1Registers{Control: 0x0C}
}

func (m *Mapper) writeMMC1(address uint16, value uint8) {
	r := &m.mmc1
	if r.WrittenLastCycle {
		return
	}
	r.WrittenThisCycle = true

	if value&0x80 != 0 {
		r.ShiftRegister = 0
		r.ShiftCount = 0
		r.Control |= 0x0C
		return
	}

	r.ShiftRegister = (r.ShiftRegister >> 1) | ((value & 0x01) << 4)
	r.ShiftCount++
	if r.ShiftCount < 5 {
		return
	}

	data := r.ShiftRegister
	r.ShiftRegister = 0
	r.ShiftCount = 0

	switch address & 0xE000 {
	case 0x8000:
		r.Control = data
		if m.mirroring != FourScreen {
			m.mirroring = r.mirroring()
		}
	case 0xA000:
		r.CHRBank0 = data
	case 0xC000:
		r.CHRBank1 = data
	case 0xE000:
		r.PRGBank = data
	}
}

func (r MMC1Registers) mirroring() Mirroring {
	switch r.Control & 0x03 {
	case 0:
		return SingleScreenLower
	case 1:
		return SingleScreenUpper
	case 2:
		return Vertical
	default:
		return Horizontal
	}
}

func (r MMC1Registers) prgMode() mmc1PRGMode {
	switch r.Control & 0x0C {
	case 0x00, 0x04:
		return mmc1Switch32KB
	case 0x08:
		return mmc1FirstBankFixed
	default:
		return mmc1LastBankFixed
	}
}

func (r MMC1Registers) chr4KBMode() bool {
	return r.Control&0x10 != 0
}

func (r MMC1Registers) ramEnabled() bool {
	return r.PRGBank&0x10 == 0
}

func (r MMC1Registers) prgOffset(address uint16, prgLen int) uint32 {
	bank := uint32(r.PRGBank & 0x0F)
	lastBank := uint32(prgLen/prgBankSize - 1)
	low := uint32(address & 0x3FFF)

	switch r.prgMode() {
	case mmc1Switch32KB:
		return (bank&0x0E)<<14 | uint32(address&0x7FFF)
	case mmc1FirstBankFixed:
		if address < 0xC000 {
			return low
		}
		return bank<<14 | low
	default:
		if address < 0xC000 {
			return bank<<14 | low
		}
		return lastBank<<14 | low
	}
}

func (r MMC1Registers) chrOffset(address uint16) uint32 {
	if !r.chr4KBMode() {
		return uint32(r.CHRBank0&0x1E)<<12 | uint32(address&0x1FFF)
	}
	if address < 0x1000 {
		return uint32(r.CHRBank0)<<12 | uint32(address&0x0FFF)
	}
	return uint32(r.CHRBank1)<<12 | uint32(address&0x0FFF)
}
