package cpu

import "fmt"

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Instruction string
	Length      int
}

// Disassemble decodes the instruction at pc. peek must read memory without
// side effects.
func Disassemble(peek func(uint16) uint8, pc uint16) DisassemblyLine {
	in := &opcodes[peek(pc)]
	length := 1 + modeOperandBytes[in.mode]

	n := peek(pc + 1)
	nn := uint16(peek(pc+2))<<8 | uint16(n)

	var operand string
	switch in.mode {
	case accumulator:
		operand = " A"
	case immediate:
		operand = fmt.Sprintf(" #$%02X", n)
	case relative:
		operand = fmt.Sprintf(" $%04X", pc+2+uint16(int8(n)))
	case zeroPage:
		operand = fmt.Sprintf(" $%02X", n)
	case zeroPageX:
		operand = fmt.Sprintf(" $%02X,X", n)
	case zeroPageY:
		operand = fmt.Sprintf(" $%02X,Y", n)
	case absolute, special:
		operand = fmt.Sprintf(" $%04X", nn)
	case absoluteX:
		operand = fmt.Sprintf(" $%04X,X", nn)
	case absoluteY:
		operand = fmt.Sprintf(" $%04X,Y", nn)
	case indirect:
		operand = fmt.Sprintf(" ($%04X)", nn)
	case indirectX:
		operand = fmt.Sprintf(" ($%02X,X)", n)
	case indirectY:
		operand = fmt.Sprintf(" ($%02X),Y", n)
	}

	return DisassemblyLine{
		Address:     pc,
		Instruction: in.mnemonic + operand,
		Length:      length,
	}
}

// Trace formats the next instruction and the register file in the usual
// one line per instruction log format.
func (c *CPU) Trace(peek func(uint16) uint8) string {
	line := Disassemble(peek, c.pc)
	return fmt.Sprintf("%04X  %-14s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		c.pc, line.Instruction, c.a, c.x, c.y, c.p, c.sp, c.cycles)
}
