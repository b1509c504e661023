package cpu

type addressingMode uint8

const (
	implied addressingMode = iota
	accumulator
	immediate
	relative
	zeroPage
	zeroPageX
	zeroPageY
	absolute
	absoluteX
	absoluteY
	indirect
	indirectX
	indirectY
	// special instructions (JSR) perform every cycle themselves
	special
)

var modeOperandBytes = [...]int{
	implied:     0,
	accumulator: 0,
	immediate:   1,
	relative:    1,
	zeroPage:    1,
	zeroPageX:   1,
	zeroPageY:   1,
	absolute:    2,
	absoluteX:   2,
	absoluteY:   2,
	indirect:    2,
	indirectX:   1,
	indirectY:   1,
	special:     2,
}

// access is what an instruction does with its operand. Writes and
// read-modify-write instructions always pay for the indexed dummy read;
// reads only when the index crosses a page.
type access uint8

const (
	accessRead access = iota
	accessWrite
	accessModify
)

// operandAddress runs the addressing cycles of mode and returns the
// effective address. Immediate and relative operands are addressed at PC.
func (c *CPU) operandAddress(mode addressingMode, acc access) uint16 {
	switch mode {
	case implied, accumulator:
		c.read(c.pc)
		return 0
	case immediate, relative:
		address := c.pc
		c.pc++
		return address
	case zeroPage:
		return uint16(c.fetch())
	case zeroPageX:
		base := c.fetch()
		c.read(uint16(base))
		return uint16(base + c.x)
	case zeroPageY:
		base := c.fetch()
		c.read(uint16(base))
		return uint16(base + c.y)
	case absolute:
		return c.fetchWord()
	case absoluteX:
		return c.indexed(c.fetchWord(), c.x, acc)
	case absoluteY:
		return c.indexed(c.fetchWord(), c.y, acc)
	case indirect:
		// the pointer's high byte is read from the same page
		ptr := c.fetchWord()
		lo := c.read(ptr)
		hi := c.read(ptr&0xFF00 | uint16(uint8(ptr)+1))
		return uint16(hi)<<8 | uint16(lo)
	case indirectX:
		ptr := c.fetch()
		c.read(uint16(ptr))
		ptr += c.x
		lo := c.read(uint16(ptr))
		hi := c.read(uint16(ptr + 1))
		return uint16(hi)<<8 | uint16(lo)
	case indirectY:
		ptr := c.fetch()
		lo := c.read(uint16(ptr))
		hi := c.read(uint16(ptr + 1))
		return c.indexed(uint16(hi)<<8|uint16(lo), c.y, acc)
	default:
		return 0
	}
}

// indexed adds index to base. The first attempt reads from base's page
// before the carry is applied to the high byte.
func (c *CPU) indexed(base uint16, index uint8, acc access) uint16 {
	address := base + uint16(index)
	if pageCrossed(base, address) || acc != accessRead {
		c.read(base&0xFF00 | address&0x00FF)
	}
	return address
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}
