// Package cpu implements the 2A03's 6502 core.
//
// Every memory access is a separate call into the Bus, and the Bus advances
// the rest of the machine by one CPU cycle per call. Dummy reads and writes
// are performed so the access pattern matches the real chip.
package cpu

import "log/slog"

// Bus is the CPU's view of the system.
type Bus interface {
	// Read and Write each take one CPU cycle.
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	NMIPending() bool
	AcknowledgeNMI()
	IRQPending() bool

	// OAMDMA returns the page written to 0x4014 if a transfer has been
	// requested and not started yet.
	OAMDMA() (page uint8, pending bool)
	ClearOAMDMA()
}

// Flag is one of the bits of the status register P.
type Flag uint8

const (
	carryFlag Flag = 1 << iota
	zeroFlag
	interruptFlag
	decimalFlag
	breakFlag
	unusedFlag
	overflowFlag
	negativeFlag
)

const (
	nmiVector   uint16 = 0xFFFA
	resetVector uint16 = 0xFFFC
	irqVector   uint16 = 0xFFFE

	stackPage uint16 = 0x0100
	oamData   uint16 = 0x2004
)

// CPU is the 6502 register file plus the bookkeeping needed for interrupt
// and DMA timing.
type CPU struct {
	a  uint8
	x  uint8
	y  uint8
	sp uint8
	p  uint8
	pc uint16

	cycles uint64

	// irqMasked is the I flag as it was when interrupts were last polled.
	// CLI, SEI and PLP change I after the poll, so their effect on IRQs is
	// delayed by one instruction.
	irqMasked bool
	jammed    bool

	currentOpcode uint8

	bus Bus
}

// New returns a CPU attached to bus. Call Reset before stepping it.
func New(bus Bus) *CPU {
	return &CPU{bus: bus, p: uint8(unusedFlag | interruptFlag), irqMasked: true}
}

// Reset runs the 7 cycle reset sequence: the stack pointer is decremented
// three times without writing, interrupts are masked and PC is loaded from
// the reset vector.
func (c *CPU) Reset() int {
	start := c.cycles

	c.read(c.pc)
	c.read(c.pc)
	for range 3 {
		c.read(stackPage | uint16(c.sp))
		c.sp--
	}
	c.setFlag(interruptFlag)
	c.irqMasked = true
	c.jammed = false
	c.pc = c.readWord(resetVector)

	return int(c.cycles - start)
}

// Step runs one instruction, interrupt sequence or OAM DMA transfer and
// returns the number of cycles taken. A jammed CPU spends one cycle per
// call.
func (c *CPU) Step() int {
	start := c.cycles

	if c.jammed {
		c.read(0xFFFF)
		return int(c.cycles - start)
	}

	if page, pending := c.bus.OAMDMA(); pending {
		c.bus.ClearOAMDMA()
		c.oamDMA(page)
		return int(c.cycles - start)
	}

	switch {
	case c.bus.NMIPending():
		c.bus.AcknowledgeNMI()
		c.interrupt(nmiVector)
	case c.bus.IRQPending() && !c.irqMasked:
		c.interrupt(irqVector)
	default:
		c.execute()
	}

	return int(c.cycles - start)
}

func (c *CPU) execute() {
	c.currentOpcode = c.fetch()
	in := &opcodes[c.currentOpcode]

	masked := c.isSetFlag(interruptFlag)
	address := c.operandAddress(in.mode, in.access)
	in.exec(c, address)

	if in.delaysIRQ {
		c.irqMasked = masked
	} else {
		c.irqMasked = c.isSetFlag(interruptFlag)
	}
}

// interrupt runs the 7 cycle NMI/IRQ sequence. An NMI arriving before the
// vector is fetched takes over an IRQ sequence.
func (c *CPU) interrupt(vector uint16) {
	c.read(c.pc)
	c.read(c.pc)
	c.push(uint8(c.pc >> 8))
	c.push(uint8(c.pc))

	if vector == irqVector && c.bus.NMIPending() {
		c.bus.AcknowledgeNMI()
		vector = nmiVector
	}

	c.push(c.p&^uint8(breakFlag) | uint8(unusedFlag))
	c.setFlag(interruptFlag)
	c.irqMasked = true
	c.pc = c.readWord(vector)
}

// oamDMA copies a page of CPU memory to OAM. The CPU halts for one cycle,
// plus one more to align with a read cycle, then alternates reads and
// writes for 512 cycles.
func (c *CPU) oamDMA(page uint8) {
	c.read(c.pc)
	if c.cycles%2 == 1 {
		c.read(c.pc)
	}

	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		c.write(oamData, c.read(base|i))
	}
}

func (c *CPU) jam() {
	if !c.jammed {
		slog.Debug("cpu jammed", "opcode", c.currentOpcode, "pc", c.pc-1)
	}
	c.jammed = true
}

func (c *CPU) read(address uint16) uint8 {
	c.cycles++
	return c.bus.Read(address)
}

func (c *CPU) write(address uint16, value uint8) {
	c.cycles++
	c.bus.Write(address, value)
}

func (c *CPU) readWord(address uint16) uint16 {
	lo := c.read(address)
	hi := c.read(address + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// fetch reads the byte at PC and advances it.
func (c *CPU) fetch() uint8 {
	v := c.read(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push(value uint8) {
	c.write(stackPage|uint16(c.sp), value)
	c.sp--
}

func (c *CPU) pull() uint8 {
	c.sp++
	return c.read(stackPage | uint16(c.sp))
}

func (c *CPU) setFlag(flag Flag) {
	c.p |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.p &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.p&uint8(flag) != 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
		return
	}
	c.resetFlag(flag)
}

func (c *CPU) setZN(value uint8) {
	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(negativeFlag, value&0x80 != 0)
}

// PC returns the program counter.
func (c *CPU) PC() uint16 { return c.pc }

// Cycles returns the number of cycles run since power on.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Jammed reports whether a KIL opcode halted the CPU.
func (c *CPU) Jammed() bool { return c.jammed }
