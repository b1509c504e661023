package cartridge

// MMC3Variant distinguishes chips sharing mapper number 4.
type MMC3Variant uint8

const (
	VariantMMC3 MMC3Variant = iota
	// VariantMMC6 has 1KB of internal RAM with per-half protection.
	VariantMMC6
	// VariantMCACC clocks its counter on falling A12 edges, once every 8.
	VariantMCACC
)

func (v MMC3Variant) String() string {
	switch v {
	case VariantMMC6:
		return "MMC6"
	case VariantMCACC:
		return "MMC3 (MC-ACC)"
	default:
		return "MMC3"
	}
}

// RAMModeKind is the PRG RAM access mode of the MMC3 family.
type RAMModeKind uint8

const (
	RAMDisabled RAMModeKind = iota
	RAMEnabled
	RAMWritesDisabled
	// RAMMMC6 uses the per-half flags of RAMMode.
	RAMMMC6
)

// RAMMode is the PRG RAM protection state. The half flags are only
// meaningful for RAMMMC6; the first half is 0x7000-0x71FF and the second
// 0x7200-0x73FF, both mirrored through 0x6000-0x7FFF.
type RAMMode struct {
	Kind             RAMModeKind
	FirstHalfReads   bool
	FirstHalfWrites  bool
	SecondHalfReads  bool
	SecondHalfWrites bool
}

func (r RAMMode) readable(address uint16) bool {
	switch r.Kind {
	case RAMEnabled, RAMWritesDisabled:
		return true
	case RAMMMC6:
		if address&0x0200 != 0 {
			return r.SecondHalfReads
		}
		return r.FirstHalfReads
	default:
		return false
	}
}

func (r RAMMode) writable(address uint16) bool {
	switch r.Kind {
	case RAMEnabled:
		return true
	case RAMMMC6:
		if address&0x0200 != 0 {
			return r.SecondHalfWrites
		}
		return r.FirstHalfWrites
	default:
		return false
	}
}

// mcACCInitialPulses is where the MC-ACC prescaler restarts after an IRQ
// reload request.
const mcACCInitialPulses = 6

// minA12LowCycles is how many CPU cycles A12 must stay low before a rising
// edge counts as a new scanline.
const minA12LowCycles = 10

// MMC3Registers is the bank and IRQ state of mapper 4.
//
// Even/odd register pairs live at 0x8000 (bank select / bank data),
// 0xA000 (mirroring / RAM protect), 0xC000 (IRQ latch / IRQ reload) and
// 0xE000 (IRQ disable / IRQ enable).
//
// The scanline counter is clocked by watching PPU address line 12. During
// rendering it rises once per line when the PPU switches from background
// to sprite pattern fetches (or the other way round), and the low-time
// filter rejects the short pulses within a single fetch group.
//
// Reference: https://www.nesdev.org/wiki/MMC3
type MMC3Registers struct {
	Variant MMC3Variant

	CHRMode1   bool
	PRGMode1   bool
	BankTarget uint8
	Banks      [8]uint8

	RAMMode RAMMode

	IRQFlag       bool
	IRQCounter    uint8
	IRQReload     uint8
	IRQReloadFlag bool
	IRQEnabled    bool

	LastA12      bool
	A12LowCycles uint32
	MCACCPulses  uint8
}

func newMMC3Registers(submapper uint8) MMC3Registers {
	variant := VariantMMC3
	switch submapper {
	case 1:
		variant = VariantMMC6
	case 3:
		variant = VariantMCACC
	}

	return MMC3Registers{
		Variant:     variant,
		MCACCPulses: mcACCInitialPulses,
	}
}

func (m *Mapper) writeMMC3(address uint16, value uint8) {
	r := &m.mmc3
	even := address&0x01 == 0

	switch address & 0xE000 {
	case 0x8000:
		if !even {
			r.Banks[r.BankTarget] = value
			return
		}
		r.CHRMode1 = value&0x80 != 0
		r.PRGMode1 = value&0x40 != 0
		r.BankTarget = value & 0x07
		if r.Variant == VariantMMC6 {
			switch {
			case value&0x20 == 0:
				r.RAMMode = RAMMode{Kind: RAMDisabled}
			case r.RAMMode.Kind == RAMDisabled:
				r.RAMMode = RAMMode{Kind: RAMMMC6}
			}
		}
	case 0xA000:
		if even {
			if m.mirroring != FourScreen {
				m.mirroring = Vertical
				if value&0x01 != 0 {
					m.mirroring = Horizontal
				}
			}
			return
		}
		r.writeRAMProtect(value)
	case 0xC000:
		if even {
			r.IRQReload = value
			return
		}
		r.IRQReloadFlag = true
		r.MCACCPulses = mcACCInitialPulses
	case 0xE000:
		if even {
			r.IRQEnabled = false
			r.IRQFlag = false
			return
		}
		r.IRQEnabled = true
	}
}

func (r *MMC3Registers) writeRAMProtect(value uint8) {
	if r.Variant == VariantMMC6 {
		// ignored while RAM is disabled through the bank select register
		if r.RAMMode.Kind == RAMDisabled {
			return
		}
		r.RAMMode = RAMMode{
			Kind:             RAMMMC6,
			FirstHalfWrites:  value&0x10 != 0,
			FirstHalfReads:   value&0x20 != 0,
			SecondHalfWrites: value&0x40 != 0,
			SecondHalfReads:  value&0x80 != 0,
		}
		return
	}

	switch {
	case value&0x80 == 0:
		r.RAMMode = RAMMode{Kind: RAMDisabled}
	case value&0x40 != 0:
		r.RAMMode = RAMMode{Kind: RAMWritesDisabled}
	default:
		r.RAMMode = RAMMode{Kind: RAMEnabled}
	}
}

func (r *MMC3Registers) clockIRQ() {
	if r.IRQCounter == 0 || r.IRQReloadFlag {
		r.IRQCounter = r.IRQReload
		r.IRQReloadFlag = false
	} else {
		r.IRQCounter--
	}

	if r.IRQCounter == 0 && r.IRQEnabled {
		r.IRQFlag = true
	}
}

func (r *MMC3Registers) observePPUAddress(address uint16) {
	a12 := address&0x1000 != 0

	switch r.Variant {
	case VariantMCACC:
		if !a12 && r.LastA12 {
			r.MCACCPulses++
			if r.MCACCPulses == 8 {
				r.clockIRQ()
				r.MCACCPulses = 0
			}
		}
	default:
		if a12 && !r.LastA12 && r.A12LowCycles >= minA12LowCycles {
			r.clockIRQ()
		}
	}

	r.LastA12 = a12
	if a12 {
		r.A12LowCycles = 0
	} else {
		r.A12LowCycles++
	}
}

// prgOffset maps 0x8000-0xFFFF through four 8KB windows.
func (r MMC3Registers) prgOffset(address uint16, prgLen int) uint32 {
	lastBank := uint32(prgLen/0x2000 - 1)
	secondLast := lastBank - 1
	low := uint32(address & 0x1FFF)

	var bank uint32
	switch address & 0xE000 {
	case 0x8000:
		bank = uint32(r.Banks[6] & 0x3F)
		if r.PRGMode1 {
			bank = secondLast
		}
	case 0xA000:
		bank = uint32(r.Banks[7] & 0x3F)
	case 0xC000:
		bank = secondLast
		if r.PRGMode1 {
			bank = uint32(r.Banks[6] & 0x3F)
		}
	default:
		bank = lastBank
	}

	return bank<<13 | low
}

// chrOffset maps the pattern tables through two 2KB and four 1KB windows.
// CHR mode 1 swaps the two halves.
func (r MMC3Registers) chrOffset(address uint16) uint32 {
	if r.CHRMode1 {
		address ^= 0x1000
	}

	var bank uint32
	switch {
	case address < 0x0800:
		bank = uint32(r.Banks[0]&0xFE) | uint32(address>>10&0x01)
	case address < 0x1000:
		bank = uint32(r.Banks[1]&0xFE) | uint32(address>>10&0x01)
	default:
		bank = uint32(r.Banks[2+(address-0x1000)>>10])
	}

	return bank<<10 | uint32(address&0x03FF)
}
