package cartridge

import (
	"fmt"
	"log/slog"
)

// Kind identifies the board a Mapper emulates.
type Kind uint8

const (
	KindNROM Kind = iota
	KindMMC1
	KindUxROM
	KindCNROM
	KindMMC3
	KindAxROM
)

func (k Kind) String() string {
	switch k {
	case KindNROM:
		return "NROM"
	case KindMMC1:
		return "MMC1"
	case KindUxROM:
		return "UxROM"
	case KindCNROM:
		return "CNROM"
	case KindMMC3:
		return "MMC3"
	case KindAxROM:
		return "AxROM"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func kindFromNumber(mapper uint16) (Kind, bool) {
	switch mapper {
	case 0:
		return KindNROM, true
	case 1:
		return KindMMC1, true
	case 2:
		return KindUxROM, true
	case 3:
		return KindCNROM, true
	case 4:
		return KindMMC3, true
	case 7:
		return KindAxROM, true
	default:
		return 0, false
	}
}

func isSupported(mapper uint16) bool {
	_, ok := kindFromNumber(mapper)
	return ok
}

// cpuTarget is where a CPU address in cartridge space resolves to.
type cpuTarget uint8

const (
	cpuNone cpuTarget = iota
	cpuPRGROM
	cpuPRGRAM
)

// ppuTarget is where a PPU address in 0x0000-0x3EFF resolves to.
type ppuTarget uint8

const (
	ppuCHRROM ppuTarget = iota
	ppuCHRRAM
	ppuVRAM
	ppuExtVRAM
)

// Mapper is the cartridge side of the CPU and PPU buses.
//
// It is a tagged union over the supported boards: kind selects which of the
// register files below is live, and every operation dispatches with a single
// switch. Address translation (mapCPUAddress, mapPPUAddress) only reads
// banking state; registers change exclusively through WriteCPU.
//
// The ROM slices belong to the Cartridge and are shared, not copied, so a
// mapper restored from a snapshot must be rebuilt around the original
// cartridge.
type Mapper struct {
	kind Kind
	cart *Cartridge

	prgRAM  []byte
	chrRAM  []byte
	extVRAM []byte

	mirroring Mirroring

	uxrom UxROMRegisters
	cnrom CNROMRegisters
	axrom AxROMRegisters
	mmc1  MMC1Registers
	mmc3  MMC3Registers
}

// NewMapper builds the mapper for cart at power-on state.
func NewMapper(cart *Cartridge) (*Mapper, error) {
	kind, ok := kindFromNumber(cart.Header.Mapper)
	if !ok {
		return nil, &UnsupportedMapperError{Mapper: cart.Header.Mapper, Submapper: cart.Header.Submapper}
	}

	m := &Mapper{
		kind:      kind,
		cart:      cart,
		mirroring: cart.Header.Mirroring,
	}

	if cart.HasCHRRAM() {
		m.chrRAM = make([]byte, chrRAMSize)
	}
	if cart.Header.FourScreen {
		m.mirroring = FourScreen
		m.extVRAM = make([]byte, extVRAMSize)
	}

	switch kind {
	case KindNROM:
		m.prgRAM = make([]byte, prgRAMSize)
	case KindMMC1:
		m.prgRAM = make([]byte, prgRAMSize)
		m.mmc1 = newMMC1Registers()
		if m.mirroring != FourScreen {
			m.mirroring = m.mmc1.mirroring()
		}
	case KindMMC3:
		m.prgRAM = make([]byte, prgRAMSize)
		m.mmc3 = newMMC3Registers(cart.Header.Submapper)
		if m.mirroring != FourScreen {
			m.mirroring = Vertical
		}
	case KindAxROM:
		if m.mirroring != FourScreen {
			m.mirroring = SingleScreenLower
		}
	case KindUxROM, KindCNROM:
	}

	slog.Info("cartridge mapper ready",
		"mapper", m.Name(),
		"prg_rom", len(cart.prgROM),
		"chr_rom", len(cart.chrROM),
		"chr_ram", len(m.chrRAM),
		"mirroring", m.mirroring)

	return m, nil
}

// Kind returns the board type.
func (m *Mapper) Kind() Kind {
	return m.kind
}

// Name returns a human readable board name.
func (m *Mapper) Name() string {
	if m.kind == KindMMC3 {
		return m.mmc3.Variant.String()
	}
	return m.kind.String()
}

// Mirroring returns the current nametable arrangement.
func (m *Mapper) Mirroring() Mirroring {
	return m.mirroring
}

// Cartridge returns the image backing the mapper.
func (m *Mapper) Cartridge() *Cartridge {
	return m.cart
}

// ReadCPU reads a byte from cartridge space (0x4020-0xFFFF). ok is false when
// nothing drives the data bus, in which case the caller supplies open bus.
func (m *Mapper) ReadCPU(address uint16) (value uint8, ok bool) {
	target, offset := m.mapCPUAddress(address)
	switch target {
	case cpuPRGROM:
		return m.cart.prgROM[offset], true
	case cpuPRGRAM:
		if !m.prgRAMReadable(address) {
			return 0, false
		}
		return m.prgRAM[offset], true
	default:
		return 0, false
	}
}

// WriteCPU handles a CPU write to cartridge space: PRG RAM stores and bank
// register updates.
func (m *Mapper) WriteCPU(address uint16, value uint8) {
	if address < 0x8000 {
		target, offset := m.mapCPUAddress(address)
		if target == cpuPRGRAM && m.prgRAMWritable(address) {
			m.prgRAM[offset] = value
		}
		return
	}

	switch m.kind {
	case KindNROM:
	case KindUxROM:
		m.uxrom.PRGBank = value
	case KindCNROM:
		m.cnrom.CHRBank = value
	case KindAxROM:
		m.axrom.PRGBank = value & 0x07
		if m.mirroring != FourScreen {
			m.mirroring = SingleScreenLower
			if value&0x10 != 0 {
				m.mirroring = SingleScreenUpper
			}
		}
	case KindMMC1:
		m.writeMMC1(address, value)
	case KindMMC3:
		m.writeMMC3(address, value)
	default:
		panic(fmt.Sprintf("write to unknown mapper kind %d", m.kind))
	}
}

// ReadPPU reads from the PPU address space below the palette (0x0000-0x3EFF).
// vram is the console's internal 2KB nametable RAM.
func (m *Mapper) ReadPPU(address uint16, vram *[2048]byte) uint8 {
	target, offset := m.mapPPUAddress(address)
	switch target {
	case ppuCHRROM:
		return m.cart.chrROM[offset]
	case ppuCHRRAM:
		return m.chrRAM[offset]
	case ppuVRAM:
		return vram[offset]
	default:
		return m.extVRAM[offset]
	}
}

// WritePPU writes to the PPU address space below the palette. Writes to CHR
// ROM are dropped.
func (m *Mapper) WritePPU(address uint16, value uint8, vram *[2048]byte) {
	target, offset := m.mapPPUAddress(address)
	switch target {
	case ppuCHRROM:
	case ppuCHRRAM:
		m.chrRAM[offset] = value
	case ppuVRAM:
		vram[offset] = value
	default:
		m.extVRAM[offset] = value
	}
}

// Tick runs once per CPU cycle with the address currently on the PPU bus.
func (m *Mapper) Tick(ppuBusAddress uint16) {
	if m.kind == KindMMC3 {
		m.mmc3.observePPUAddress(ppuBusAddress)
	}
}

// TickCPU runs once per CPU cycle after any write of that cycle was applied.
func (m *Mapper) TickCPU() {
	if m.kind == KindMMC1 {
		m.mmc1.WrittenLastCycle = m.mmc1.WrittenThisCycle
		m.mmc1.WrittenThisCycle = false
	}
}

// InterruptFlag reports whether the mapper is pulling the IRQ line.
func (m *Mapper) InterruptFlag() bool {
	return m.kind == KindMMC3 && m.mmc3.IRQFlag
}

func (m *Mapper) mapCPUAddress(address uint16) (cpuTarget, uint32) {
	switch {
	case address < 0x6000:
		return cpuNone, 0
	case address < 0x8000:
		if len(m.prgRAM) == 0 {
			return cpuNone, 0
		}
		return cpuPRGRAM, uint32(address&0x1FFF) % uint32(len(m.prgRAM))
	}

	var offset uint32
	switch m.kind {
	case KindNROM:
		offset = uint32(address & 0x7FFF)
	case KindUxROM:
		offset = m.uxrom.prgOffset(address, len(m.cart.prgROM))
	case KindCNROM:
		offset = uint32(address & 0x7FFF)
	case KindAxROM:
		offset = uint32(m.axrom.PRGBank)<<15 | uint32(address&0x7FFF)
	case KindMMC1:
		offset = m.mmc1.prgOffset(address, len(m.cart.prgROM))
	case KindMMC3:
		offset = m.mmc3.prgOffset(address, len(m.cart.prgROM))
	default:
		panic(fmt.Sprintf("read from unknown mapper kind %d", m.kind))
	}

	return cpuPRGROM, offset % uint32(len(m.cart.prgROM))
}

func (m *Mapper) mapPPUAddress(address uint16) (ppuTarget, uint32) {
	address &= 0x3FFF

	if address >= 0x2000 {
		if m.mirroring == FourScreen {
			return ppuExtVRAM, uint32(address & 0x0FFF)
		}
		return ppuVRAM, uint32(m.mirroring.nametableOffset(address))
	}

	var offset uint32
	switch m.kind {
	case KindNROM, KindUxROM, KindAxROM:
		offset = uint32(address)
	case KindCNROM:
		offset = uint32(m.cnrom.CHRBank)<<13 | uint32(address)
	case KindMMC1:
		offset = m.mmc1.chrOffset(address)
	case KindMMC3:
		offset = m.mmc3.chrOffset(address)
	default:
		panic(fmt.Sprintf("read from unknown mapper kind %d", m.kind))
	}

	if m.cart.HasCHRRAM() {
		return ppuCHRRAM, offset % uint32(len(m.chrRAM))
	}
	return ppuCHRROM, offset % uint32(len(m.cart.chrROM))
}

func (m *Mapper) prgRAMReadable(address uint16) bool {
	switch m.kind {
	case KindMMC1:
		return m.mmc1.ramEnabled()
	case KindMMC3:
		return m.mmc3.RAMMode.readable(address)
	default:
		return true
	}
}

func (m *Mapper) prgRAMWritable(address uint16) bool {
	switch m.kind {
	case KindMMC1:
		return m.mmc1.ramEnabled()
	case KindMMC3:
		return m.mmc3.RAMMode.writable(address)
	default:
		return true
	}
}

// UxROMRegisters is the bank state of mapper 2.
type UxROMRegisters struct {
	PRGBank uint8
}

// 0x8000-0xBFFF is switchable, 0xC000-0xFFFF is fixed to the last bank.
func (r UxROMRegisters) prgOffset(address uint16, prgLen int) uint32 {
	if address < 0xC000 {
		return uint32(r.PRGBank)<<14 | uint32(address&0x3FFF)
	}
	return uint32(prgLen-prgBankSize) | uint32(address&0x3FFF)
}

// CNROMRegisters is the bank state of mapper 3.
type CNROMRegisters struct {
	CHRBank uint8
}

// AxROMRegisters is the bank state of mapper 7. Mirroring lives on the
// Mapper.
type AxROMRegisters struct {
	PRGBank uint8
}
