package addr

// CPU address map ranges.
// Reference: https://www.nesdev.org/wiki/CPU_memory_map
const (
	// Internal RAM, 2KB mirrored four times.
	RAMStart uint16 = 0x0000
	RAMEnd   uint16 = 0x1FFF
	RAMMask  uint16 = 0x07FF

	// PPU registers, 8 bytes mirrored every 8 bytes.
	PPURegistersStart uint16 = 0x2000
	PPURegistersEnd   uint16 = 0x3FFF
	PPURegistersMask  uint16 = 0x0007

	// APU and IO registers.
	IORegistersStart uint16 = 0x4000
	IORegistersEnd   uint16 = 0x4017

	// APU test mode registers, normally disabled.
	TestModeStart uint16 = 0x4018
	TestModeEnd   uint16 = 0x401F

	// Cartridge space: PRG RAM, PRG ROM and mapper registers.
	CartridgeStart uint16 = 0x4020
)

// Interrupt vectors.
const (
	NMIVector   uint16 = 0xFFFA
	ResetVector uint16 = 0xFFFC
	IRQVector   uint16 = 0xFFFE
)

// StackBase is the page the 6502 stack pointer indexes into.
const StackBase uint16 = 0x0100

// PPURegister is the offset of a PPU register within its 8 byte block.
type PPURegister uint8

const (
	PPUCTRL   PPURegister = 0
	PPUMASK   PPURegister = 1
	PPUSTATUS PPURegister = 2
	OAMADDR   PPURegister = 3
	OAMDATA   PPURegister = 4
	PPUSCROLL PPURegister = 5
	PPUADDR   PPURegister = 6
	PPUDATA   PPURegister = 7
)

// PPURegisterFromAddress maps any address in 0x2000-0x3FFF to its register.
func PPURegisterFromAddress(address uint16) PPURegister {
	return PPURegister(address & PPURegistersMask)
}

func (r PPURegister) String() string {
	switch r {
	case PPUCTRL:
		return "PPUCTRL"
	case PPUMASK:
		return "PPUMASK"
	case PPUSTATUS:
		return "PPUSTATUS"
	case OAMADDR:
		return "OAMADDR"
	case OAMDATA:
		return "OAMDATA"
	case PPUSCROLL:
		return "PPUSCROLL"
	case PPUADDR:
		return "PPUADDR"
	default:
		return "PPUDATA"
	}
}

// IORegister is the offset of an APU/IO register from 0x4000.
// Reference: https://www.nesdev.org/wiki/APU_registers
type IORegister uint8

const (
	Sq1Vol      IORegister = 0x00 // Pulse 1 duty, envelope
	Sq1Sweep    IORegister = 0x01 // Pulse 1 sweep unit
	Sq1Lo       IORegister = 0x02 // Pulse 1 timer low
	Sq1Hi       IORegister = 0x03 // Pulse 1 length, timer high
	Sq2Vol      IORegister = 0x04
	Sq2Sweep    IORegister = 0x05
	Sq2Lo       IORegister = 0x06
	Sq2Hi       IORegister = 0x07
	TriLinear   IORegister = 0x08 // Triangle linear counter
	TriUnused   IORegister = 0x09
	TriLo       IORegister = 0x0A
	TriHi       IORegister = 0x0B
	NoiseVol    IORegister = 0x0C
	NoiseUnused IORegister = 0x0D
	NoiseLo     IORegister = 0x0E // Noise mode and period
	NoiseHi     IORegister = 0x0F // Noise length
	DMCFreq     IORegister = 0x10 // DMC IRQ, loop, rate
	DMCRaw      IORegister = 0x11 // DMC direct load
	DMCStart    IORegister = 0x12 // DMC sample address
	DMCLen      IORegister = 0x13 // DMC sample length
	OAMDMA      IORegister = 0x14 // OAM DMA page
	SndChn      IORegister = 0x15 // Channel enable and status
	Joy1        IORegister = 0x16 // Joypad strobe / joypad 1 data
	Joy2        IORegister = 0x17 // Frame counter / joypad 2 data

	// IORegisterCount is the size of the register block.
	IORegisterCount = 0x18
)

// IORegisterFromAddress maps an address in 0x4000-0x4017 to its register.
// ok is false outside that range.
func IORegisterFromAddress(address uint16) (r IORegister, ok bool) {
	if address < IORegistersStart || address > IORegistersEnd {
		return 0, false
	}
	return IORegister(address - IORegistersStart), true
}

// Address returns the CPU address of the register.
func (r IORegister) Address() uint16 {
	return IORegistersStart + uint16(r)
}

// PPU address space.
// Reference: https://www.nesdev.org/wiki/PPU_memory_map
const (
	PatternTable0   uint16 = 0x0000
	PatternTable1   uint16 = 0x1000
	NametableStart  uint16 = 0x2000
	NametableEnd    uint16 = 0x3EFF
	PaletteStart    uint16 = 0x3F00
	PPUAddressMask  uint16 = 0x3FFF
	PaletteMask     uint16 = 0x001F
	AttributeOffset uint16 = 0x03C0
)
