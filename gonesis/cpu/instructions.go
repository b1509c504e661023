package cpu

// load and store

func lda(c *CPU, address uint16) {
	c.a = c.read(address)
	c.setZN(c.a)
}

func ldx(c *CPU, address uint16) {
	c.x = c.read(address)
	c.setZN(c.x)
}

func ldy(c *CPU, address uint16) {
	c.y = c.read(address)
	c.setZN(c.y)
}

func sta(c *CPU, address uint16) { c.write(address, c.a) }
func stx(c *CPU, address uint16) { c.write(address, c.x) }
func sty(c *CPU, address uint16) { c.write(address, c.y) }

// transfers

func tax(c *CPU, _ uint16) {
	c.x = c.a
	c.setZN(c.x)
}

func tay(c *CPU, _ uint16) {
	c.y = c.a
	c.setZN(c.y)
}

func txa(c *CPU, _ uint16) {
	c.a = c.x
	c.setZN(c.a)
}

func tya(c *CPU, _ uint16) {
	c.a = c.y
	c.setZN(c.a)
}

func tsx(c *CPU, _ uint16) {
	c.x = c.sp
	c.setZN(c.x)
}

func txs(c *CPU, _ uint16) { c.sp = c.x }

// stack

func pha(c *CPU, _ uint16) { c.push(c.a) }

func php(c *CPU, _ uint16) {
	c.push(c.p | uint8(breakFlag|unusedFlag))
}

func pla(c *CPU, _ uint16) {
	c.read(stackPage | uint16(c.sp))
	c.a = c.pull()
	c.setZN(c.a)
}

func plp(c *CPU, _ uint16) {
	c.read(stackPage | uint16(c.sp))
	c.setStatus(c.pull())
}

// setStatus loads P from the stack. B and the unused bit do not exist in
// the register.
func (c *CPU) setStatus(value uint8) {
	c.p = value&^uint8(breakFlag) | uint8(unusedFlag)
}

// arithmetic and logic

func (c *CPU) add(value uint8) {
	sum := uint16(c.a) + uint16(value)
	if c.isSetFlag(carryFlag) {
		sum++
	}
	result := uint8(sum)
	c.setFlagToCondition(carryFlag, sum > 0xFF)
	c.setFlagToCondition(overflowFlag, (c.a^result)&(value^result)&0x80 != 0)
	c.a = result
	c.setZN(c.a)
}

func adc(c *CPU, address uint16) { c.add(c.read(address)) }

// sbc is adc of the complement; the 2A03 has no decimal mode.
func sbc(c *CPU, address uint16) { c.add(^c.read(address)) }

func and(c *CPU, address uint16) {
	c.a &= c.read(address)
	c.setZN(c.a)
}

func ora(c *CPU, address uint16) {
	c.a |= c.read(address)
	c.setZN(c.a)
}

func eor(c *CPU, address uint16) {
	c.a ^= c.read(address)
	c.setZN(c.a)
}

func (c *CPU) compare(register, value uint8) {
	c.setFlagToCondition(carryFlag, register >= value)
	c.setZN(register - value)
}

func cmp(c *CPU, address uint16) { c.compare(c.a, c.read(address)) }
func cpx(c *CPU, address uint16) { c.compare(c.x, c.read(address)) }
func cpy(c *CPU, address uint16) { c.compare(c.y, c.read(address)) }

func bit(c *CPU, address uint16) {
	value := c.read(address)
	c.setFlagToCondition(zeroFlag, c.a&value == 0)
	c.setFlagToCondition(overflowFlag, value&0x40 != 0)
	c.setFlagToCondition(negativeFlag, value&0x80 != 0)
}

// increments

func inx(c *CPU, _ uint16) {
	c.x++
	c.setZN(c.x)
}

func iny(c *CPU, _ uint16) {
	c.y++
	c.setZN(c.y)
}

func dex(c *CPU, _ uint16) {
	c.x--
	c.setZN(c.x)
}

func dey(c *CPU, _ uint16) {
	c.y--
	c.setZN(c.y)
}

// read-modify-write

// modify performs the read, dummy write and final write of a
// read-modify-write instruction.
func (c *CPU) modify(address uint16, op func(uint8) uint8) uint8 {
	value := c.read(address)
	c.write(address, value)
	value = op(value)
	c.write(address, value)
	return value
}

func (c *CPU) shiftLeft(value uint8) uint8 {
	c.setFlagToCondition(carryFlag, value&0x80 != 0)
	value <<= 1
	c.setZN(value)
	return value
}

func (c *CPU) shiftRight(value uint8) uint8 {
	c.setFlagToCondition(carryFlag, value&0x01 != 0)
	value >>= 1
	c.setZN(value)
	return value
}

func (c *CPU) rotateLeft(value uint8) uint8 {
	carry := uint8(0)
	if c.isSetFlag(carryFlag) {
		carry = 1
	}
	c.setFlagToCondition(carryFlag, value&0x80 != 0)
	value = value<<1 | carry
	c.setZN(value)
	return value
}

func (c *CPU) rotateRight(value uint8) uint8 {
	carry := uint8(0)
	if c.isSetFlag(carryFlag) {
		carry = 0x80
	}
	c.setFlagToCondition(carryFlag, value&0x01 != 0)
	value = value>>1 | carry
	c.setZN(value)
	return value
}

func (c *CPU) increment(value uint8) uint8 {
	value++
	c.setZN(value)
	return value
}

func (c *CPU) decrement(value uint8) uint8 {
	value--
	c.setZN(value)
	return value
}

func asl(c *CPU, address uint16) { c.modify(address, c.shiftLeft) }
func lsr(c *CPU, address uint16) { c.modify(address, c.shiftRight) }
func rol(c *CPU, address uint16) { c.modify(address, c.rotateLeft) }
func ror(c *CPU, address uint16) { c.modify(address, c.rotateRight) }
func inc(c *CPU, address uint16) { c.modify(address, c.increment) }
func dec(c *CPU, address uint16) { c.modify(address, c.decrement) }

func aslA(c *CPU, _ uint16) { c.a = c.shiftLeft(c.a) }
func lsrA(c *CPU, _ uint16) { c.a = c.shiftRight(c.a) }
func rolA(c *CPU, _ uint16) { c.a = c.rotateLeft(c.a) }
func rorA(c *CPU, _ uint16) { c.a = c.rotateRight(c.a) }

// flags

func clc(c *CPU, _ uint16) { c.resetFlag(carryFlag) }
func cld(c *CPU, _ uint16) { c.resetFlag(decimalFlag) }
func cli(c *CPU, _ uint16) { c.resetFlag(interruptFlag) }
func clv(c *CPU, _ uint16) { c.resetFlag(overflowFlag) }
func sec(c *CPU, _ uint16) { c.setFlag(carryFlag) }
func sed(c *CPU, _ uint16) { c.setFlag(decimalFlag) }
func sei(c *CPU, _ uint16) { c.setFlag(interruptFlag) }

// control flow

// branch reads the offset, then spends one extra cycle when taken and
// another when the target is on a different page.
func (c *CPU) branch(address uint16, taken bool) {
	offset := int8(c.read(address))
	if !taken {
		return
	}

	c.read(c.pc)
	target := c.pc + uint16(offset)
	if pageCrossed(c.pc, target) {
		c.read(c.pc&0xFF00 | target&0x00FF)
	}
	c.pc = target
}

func bcc(c *CPU, address uint16) { c.branch(address, !c.isSetFlag(carryFlag)) }
func bcs(c *CPU, address uint16) { c.branch(address, c.isSetFlag(carryFlag)) }
func bne(c *CPU, address uint16) { c.branch(address, !c.isSetFlag(zeroFlag)) }
func beq(c *CPU, address uint16) { c.branch(address, c.isSetFlag(zeroFlag)) }
func bpl(c *CPU, address uint16) { c.branch(address, !c.isSetFlag(negativeFlag)) }
func bmi(c *CPU, address uint16) { c.branch(address, c.isSetFlag(negativeFlag)) }
func bvc(c *CPU, address uint16) { c.branch(address, !c.isSetFlag(overflowFlag)) }
func bvs(c *CPU, address uint16) { c.branch(address, c.isSetFlag(overflowFlag)) }

func jmp(c *CPU, address uint16) { c.pc = address }

func jsr(c *CPU, _ uint16) {
	lo := c.fetch()
	c.read(stackPage | uint16(c.sp))
	c.push(uint8(c.pc >> 8))
	c.push(uint8(c.pc))
	hi := c.read(c.pc)
	c.pc = uint16(hi)<<8 | uint16(lo)
}

func rts(c *CPU, _ uint16) {
	c.read(stackPage | uint16(c.sp))
	lo := c.pull()
	hi := c.pull()
	c.pc = uint16(hi)<<8 | uint16(lo)
	c.read(c.pc)
	c.pc++
}

func rti(c *CPU, _ uint16) {
	c.read(stackPage | uint16(c.sp))
	c.setStatus(c.pull())
	lo := c.pull()
	hi := c.pull()
	c.pc = uint16(hi)<<8 | uint16(lo)
}

// brk skips a padding byte and pushes P with B set. A pending NMI hijacks
// the vector fetch.
func brk(c *CPU, _ uint16) {
	c.pc++
	c.push(uint8(c.pc >> 8))
	c.push(uint8(c.pc))

	vector := irqVector
	if c.bus.NMIPending() {
		c.bus.AcknowledgeNMI()
		vector = nmiVector
	}

	c.push(c.p | uint8(breakFlag|unusedFlag))
	c.setFlag(interruptFlag)
	c.pc = c.readWord(vector)
}

func nop(c *CPU, _ uint16) {}

// nopRead is an unofficial NOP with an operand. It still performs the read.
func nopRead(c *CPU, address uint16) { c.read(address) }

func kil(c *CPU, _ uint16) { c.jam() }

// unofficial combined instructions

func slo(c *CPU, address uint16) {
	c.a |= c.modify(address, c.shiftLeft)
	c.setZN(c.a)
}

func rla(c *CPU, address uint16) {
	c.a &= c.modify(address, c.rotateLeft)
	c.setZN(c.a)
}

func sre(c *CPU, address uint16) {
	c.a ^= c.modify(address, c.shiftRight)
	c.setZN(c.a)
}

func rra(c *CPU, address uint16) {
	c.add(c.modify(address, c.rotateRight))
}

func dcp(c *CPU, address uint16) {
	c.compare(c.a, c.modify(address, func(v uint8) uint8 { return v - 1 }))
}

func isc(c *CPU, address uint16) {
	c.add(^c.modify(address, func(v uint8) uint8 { return v + 1 }))
}

func lax(c *CPU, address uint16) {
	c.a = c.read(address)
	c.x = c.a
	c.setZN(c.a)
}

func sax(c *CPU, address uint16) { c.write(address, c.a&c.x) }

func anc(c *CPU, address uint16) {
	c.a &= c.read(address)
	c.setZN(c.a)
	c.setFlagToCondition(carryFlag, c.a&0x80 != 0)
}

func alr(c *CPU, address uint16) {
	c.a &= c.read(address)
	c.a = c.shiftRight(c.a)
}

func arr(c *CPU, address uint16) {
	c.a &= c.read(address)
	c.a = c.rotateRight(c.a)
	c.setFlagToCondition(carryFlag, c.a&0x40 != 0)
	c.setFlagToCondition(overflowFlag, (c.a>>6^c.a>>5)&0x01 != 0)
}

func axs(c *CPU, address uint16) {
	value := c.read(address)
	ax := c.a & c.x
	c.setFlagToCondition(carryFlag, ax >= value)
	c.x = ax - value
	c.setZN(c.x)
}

// unstableMagic is the constant ORed into A by XAA and LXA on most
// 2A03 revisions.
const unstableMagic = 0xEE

func xaa(c *CPU, address uint16) {
	c.a = (c.a | unstableMagic) & c.x & c.read(address)
	c.setZN(c.a)
}

func lxa(c *CPU, address uint16) {
	c.a = (c.a | unstableMagic) & c.read(address)
	c.x = c.a
	c.setZN(c.a)
}

func las(c *CPU, address uint16) {
	value := c.read(address) & c.sp
	c.a, c.x, c.sp = value, value, value
	c.setZN(value)
}

// storeHigh implements SHA, SHX, SHY and TAS: value is ANDed with the high
// byte of the base address plus one, and a page crossing replaces the high
// byte of the target with the stored value.
func (c *CPU) storeHigh(address uint16, index, value uint8) {
	base := address - uint16(index)
	value &= uint8(base>>8) + 1
	if pageCrossed(base, address) {
		address = uint16(value)<<8 | address&0x00FF
	}
	c.write(address, value)
}

func sha(c *CPU, address uint16) { c.storeHigh(address, c.y, c.a&c.x) }
func shx(c *CPU, address uint16) { c.storeHigh(address, c.y, c.x) }
func shy(c *CPU, address uint16) { c.storeHigh(address, c.x, c.y) }

func tas(c *CPU, address uint16) {
	c.sp = c.a & c.x
	c.storeHigh(address, c.y, c.sp)
}
