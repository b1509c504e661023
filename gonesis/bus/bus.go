package bus

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/valerio/gonesis/gonesis/addr"
	"github.com/valerio/gonesis/gonesis/cartridge"
	"github.com/valerio/gonesis/gonesis/interrupt"
)

const maxPendingWrites = 5

// PendingWrite is a CPU write waiting for the next bus tick.
type PendingWrite struct {
	Address uint16
	Value   uint8
}

// Bus owns the console's memories and memory mapped registers, and routes
// cartridge space to the mapper.
//
// CPU reads take effect immediately. CPU writes are queued and only applied
// by Tick, in the order they were issued, before the mapper, APU and PPU
// advance for that cycle.
type Bus struct {
	ram        [2048]uint8
	vram       [2048]uint8
	paletteRAM [32]uint8
	oam        [256]uint8

	ppuRegisters  PPURegisters
	ioRegisters   IORegisters
	ppuBusAddress uint16
	cpuOpenBus    uint8

	mapper     *cartridge.Mapper
	interrupts interrupt.Lines

	pending    [maxPendingWrites]PendingWrite
	pendingLen int
}

// New creates a bus around mapper. Work RAM is filled from a PRNG seeded
// with seed so programs that read uninitialized memory still behave
// reproducibly.
func New(mapper *cartridge.Mapper, seed int64) *Bus {
	b := &Bus{
		ppuRegisters: newPPURegisters(),
		mapper:       mapper,
		interrupts:   interrupt.New(),
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Read(b.ram[:])

	return b
}

// Mapper returns the cartridge mapper.
func (b *Bus) Mapper() *cartridge.Mapper {
	return b.mapper
}

// PPURegisters exposes the register block to the PPU.
func (b *Bus) PPURegisters() *PPURegisters {
	return &b.ppuRegisters
}

// IORegisters exposes the register block to the APU.
func (b *Bus) IORegisters() *IORegisters {
	return &b.ioRegisters
}

// OAM returns sprite memory.
func (b *Bus) OAM() *[256]uint8 {
	return &b.oam
}

// CPURead reads a byte from the CPU address space, with any read side
// effects (status flag clear, PPUDATA buffering, joypad shifting).
func (b *Bus) CPURead(address uint16) uint8 {
	var value uint8

	switch {
	case address <= addr.RAMEnd:
		value = b.ram[address&addr.RAMMask]
	case address <= addr.PPURegistersEnd:
		value = b.readPPURegister(addr.PPURegisterFromAddress(address))
	case address <= addr.IORegistersEnd:
		reg, _ := addr.IORegisterFromAddress(address)
		v, ok := b.ioRegisters.read(reg)
		if !ok {
			v = b.cpuOpenBus
		}
		value = v
	case address <= addr.TestModeEnd:
		value = 0xFF
	case address >= addr.CartridgeStart:
		v, ok := b.mapper.ReadCPU(address)
		if !ok {
			v = b.cpuOpenBus
		}
		value = v
	default:
		panic(fmt.Sprintf("CPU address 0x%04X outside the memory map", address))
	}

	b.cpuOpenBus = value
	return value
}

// Peek reads RAM or cartridge space without side effects. Register
// addresses return 0.
func (b *Bus) Peek(address uint16) uint8 {
	switch {
	case address <= addr.RAMEnd:
		return b.ram[address&addr.RAMMask]
	case address >= addr.CartridgeStart:
		v, _ := b.mapper.ReadCPU(address)
		return v
	default:
		return 0
	}
}

// QueueWrite schedules a CPU write for the next Tick.
func (b *Bus) QueueWrite(address uint16, value uint8) {
	if b.pendingLen == maxPendingWrites {
		panic(fmt.Sprintf("pending write queue full writing 0x%02X to 0x%04X", value, address))
	}
	b.pending[b.pendingLen] = PendingWrite{Address: address, Value: value}
	b.pendingLen++
}

// Tick runs the bus for one CPU cycle: queued writes are applied in order,
// then PPU register side effects, then the mapper.
func (b *Bus) Tick() {
	for i := 0; i < b.pendingLen; i++ {
		b.applyWrite(b.pending[i].Address, b.pending[i].Value)
	}
	b.pendingLen = 0

	b.ppuRegisters.tick(&b.interrupts)

	b.mapper.Tick(b.ppuBusAddress)
	b.mapper.TickCPU()
	b.interrupts.SetIRQLowPull(interrupt.SourceMapper, b.mapper.InterruptFlag())
}

func (b *Bus) applyWrite(address uint16, value uint8) {
	b.cpuOpenBus = value

	switch {
	case address <= addr.RAMEnd:
		b.ram[address&addr.RAMMask] = value
	case address <= addr.PPURegistersEnd:
		b.writePPURegister(addr.PPURegisterFromAddress(address), value)
	case address <= addr.IORegistersEnd:
		reg, _ := addr.IORegisterFromAddress(address)
		b.ioRegisters.write(reg, value)
	case address <= addr.TestModeEnd:
	case address >= addr.CartridgeStart:
		b.mapper.WriteCPU(address, value)
	default:
		panic(fmt.Sprintf("CPU address 0x%04X outside the memory map", address))
	}
}

// PollInterruptLines advances the interrupt line latches by one step.
func (b *Bus) PollInterruptLines() {
	b.interrupts.Tick()
}

// Interrupts exposes the interrupt lines to devices that pull them.
func (b *Bus) Interrupts() *interrupt.Lines {
	return &b.interrupts
}

// NMITriggered reports a pending NMI.
func (b *Bus) NMITriggered() bool {
	return b.interrupts.NMITriggered()
}

// AcknowledgeNMI clears the NMI latch, done by the CPU when it starts the
// interrupt sequence.
func (b *Bus) AcknowledgeNMI() {
	b.interrupts.ClearNMITriggered()
}

// IRQTriggered reports whether the IRQ line has been low long enough to be
// serviced.
func (b *Bus) IRQTriggered() bool {
	return b.interrupts.IRQTriggered()
}

// OAMDMAPage returns the page written to 0x4014 and whether a transfer is
// waiting to start.
func (b *Bus) OAMDMAPage() (page uint8, pending bool) {
	return b.ioRegisters.data[addr.OAMDMA], b.ioRegisters.dmaDirty
}

// ClearOAMDMA marks the requested transfer as started.
func (b *Bus) ClearOAMDMA() {
	b.ioRegisters.dmaDirty = false
}

// SetJoypad sets the buttons currently held on controller port (0 or 1).
func (b *Bus) SetJoypad(port int, buttons Button) {
	b.ioRegisters.joypads[port].pressed = buttons
}

// PPUBusAddress returns the last address the PPU drove onto its bus.
func (b *Bus) PPUBusAddress() uint16 {
	return b.ppuBusAddress
}

// SetPPUBusAddress updates the PPU address lines without a memory access,
// as happens when v is loaded from t.
func (b *Bus) SetPPUBusAddress(address uint16) {
	b.ppuBusAddress = address & addr.PPUAddressMask
}

// PPURead reads the PPU address space and leaves address on the bus for the
// mapper to observe.
func (b *Bus) PPURead(address uint16) uint8 {
	address &= addr.PPUAddressMask
	if address >= addr.PaletteStart {
		return b.readPalette(address)
	}
	b.ppuBusAddress = address
	return b.mapper.ReadPPU(address, &b.vram)
}

// PPUWrite writes the PPU address space.
func (b *Bus) PPUWrite(address uint16, value uint8) {
	address &= addr.PPUAddressMask
	if address >= addr.PaletteStart {
		b.paletteRAM[paletteIndex(address)] = value & 0x3F
		return
	}
	b.ppuBusAddress = address
	b.mapper.WritePPU(address, value, &b.vram)
}

func (b *Bus) readPalette(address uint16) uint8 {
	return b.paletteRAM[paletteIndex(address)]
}

// ReadPalette returns a palette entry (0-31) for rendering.
func (b *Bus) ReadPalette(index uint8) uint8 {
	return b.paletteRAM[paletteIndex(uint16(index))]
}

// paletteIndex folds the sprite backdrop entries onto the background ones.
func paletteIndex(address uint16) uint16 {
	index := address & addr.PaletteMask
	if index&0x13 == 0x10 {
		index &^= 0x10
	}
	return index
}

var errCorruptQueues = errors.New("bus snapshot has oversized write queues")
