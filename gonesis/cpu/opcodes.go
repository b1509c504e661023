package cpu

// instruction describes one opcode: how its operand is addressed and what
// it does with it.
type instruction struct {
	mnemonic  string
	mode      addressingMode
	access    access
	exec      func(c *CPU, address uint16)
	delaysIRQ bool
}

var opcodes = [256]instruction{
	0x00: {"BRK", implied, accessRead, brk, false},
	0x01: {"ORA", indirectX, accessRead, ora, false},
	0x02: {"KIL", implied, accessRead, kil, false},
	0x03: {"SLO", indirectX, accessModify, slo, false},
	0x04: {"NOP", zeroPage, accessRead, nopRead, false},
	0x05: {"ORA", zeroPage, accessRead, ora, false},
	0x06: {"ASL", zeroPage, accessModify, asl, false},
	0x07: {"SLO", zeroPage, accessModify, slo, false},
	0x08: {"PHP", implied, accessRead, php, false},
	0x09: {"ORA", immediate, accessRead, ora, false},
	0x0A: {"ASL", accumulator, accessRead, aslA, false},
	0x0B: {"ANC", immediate, accessRead, anc, false},
	0x0C: {"NOP", absolute, accessRead, nopRead, false},
	0x0D: {"ORA", absolute, accessRead, ora, false},
	0x0E: {"ASL", absolute, accessModify, asl, false},
	0x0F: {"SLO", absolute, accessModify, slo, false},
	0x10: {"BPL", relative, accessRead, bpl, false},
	0x11: {"ORA", indirectY, accessRead, ora, false},
	0x12: {"KIL", implied, accessRead, kil, false},
	0x13: {"SLO", indirectY, accessModify, slo, false},
	0x14: {"NOP", zeroPageX, accessRead, nopRead, false},
	0x15: {"ORA", zeroPageX, accessRead, ora, false},
	0x16: {"ASL", zeroPageX, accessModify, asl, false},
	0x17: {"SLO", zeroPageX, accessModify, slo, false},
	0x18: {"CLC", implied, accessRead, clc, false},
	0x19: {"ORA", absoluteY, accessRead, ora, false},
	0x1A: {"NOP", implied, accessRead, nop, false},
	0x1B: {"SLO", absoluteY, accessModify, slo, false},
	0x1C: {"NOP", absoluteX, accessRead, nopRead, false},
	0x1D: {"ORA", absoluteX, accessRead, ora, false},
	0x1E: {"ASL", absoluteX, accessModify, asl, false},
	0x1F: {"SLO", absoluteX, accessModify, slo, false},
	0x20: {"JSR", special, accessRead, jsr, false},
	0x21: {"AND", indirectX, accessRead, and, false},
	0x22: {"KIL", implied, accessRead, kil, false},
	0x23: {"RLA", indirectX, accessModify, rla, false},
	0x24: {"BIT", zeroPage, accessRead, bit, false},
	0x25: {"AND", zeroPage, accessRead, and, false},
	0x26: {"ROL", zeroPage, accessModify, rol, false},
	0x27: {"RLA", zeroPage, accessModify, rla, false},
	0x28: {mnemonic: "PLP", mode: implied, access: accessRead, exec: plp, delaysIRQ: true},
	0x29: {"AND", immediate, accessRead, and, false},
	0x2A: {"ROL", accumulator, accessRead, rolA, false},
	0x2B: {"ANC", immediate, accessRead, anc, false},
	0x2C: {"BIT", absolute, accessRead, bit, false},
	0x2D: {"AND", absolute, accessRead, and, false},
	0x2E: {"ROL", absolute, accessModify, rol, false},
	0x2F: {"RLA", absolute, accessModify, rla, false},
	0x30: {"BMI", relative, accessRead, bmi, false},
	0x31: {"AND", indirectY, accessRead, and, false},
	0x32: {"KIL", implied, accessRead, kil, false},
	0x33: {"RLA", indirectY, accessModify, rla, false},
	0x34: {"NOP", zeroPageX, accessRead, nopRead, false},
	0x35: {"AND", zeroPageX, accessRead, and, false},
	0x36: {"ROL", zeroPageX, accessModify, rol, false},
	0x37: {"RLA", zeroPageX, accessModify, rla, false},
	0x38: {"SEC", implied, accessRead, sec, false},
	0x39: {"AND", absoluteY, accessRead, and, false},
	0x3A: {"NOP", implied, accessRead, nop, false},
	0x3B: {"RLA", absoluteY, accessModify, rla, false},
	0x3C: {"NOP", absoluteX, accessRead, nopRead, false},
	0x3D: {"AND", absoluteX, accessRead, and, false},
	0x3E: {"ROL", absoluteX, accessModify, rol, false},
	0x3F: {"RLA", absoluteX, accessModify, rla, false},
	0x40: {"RTI", implied, accessRead, rti, false},
	0x41: {"EOR", indirectX, accessRead, eor, false},
	0x42: {"KIL", implied, accessRead, kil, false},
	0x43: {"SRE", indirectX, accessModify, sre, false},
	0x44: {"NOP", zeroPage, accessRead, nopRead, false},
	0x45: {"EOR", zeroPage, accessRead, eor, false},
	0x46: {"LSR", zeroPage, accessModify, lsr, false},
	0x47: {"SRE", zeroPage, accessModify, sre, false},
	0x48: {"PHA", implied, accessRead, pha, false},
	0x49: {"EOR", immediate, accessRead, eor, false},
	0x4A: {"LSR", accumulator, accessRead, lsrA, false},
	0x4B: {"ALR", immediate, accessRead, alr, false},
	0x4C: {"JMP", absolute, accessRead, jmp, false},
	0x4D: {"EOR", absolute, accessRead, eor, false},
	0x4E: {"LSR", absolute, accessModify, lsr, false},
	0x4F: {"SRE", absolute, accessModify, sre, false},
	0x50: {"BVC", relative, accessRead, bvc, false},
	0x51: {"EOR", indirectY, accessRead, eor, false},
	0x52: {"KIL", implied, accessRead, kil, false},
	0x53: {"SRE", indirectY, accessModify, sre, false},
	0x54: {"NOP", zeroPageX, accessRead, nopRead, false},
	0x55: {"EOR", zeroPageX, accessRead, eor, false},
	0x56: {"LSR", zeroPageX, accessModify, lsr, false},
	0x57: {"SRE", zeroPageX, accessModify, sre, false},
	0x58: {mnemonic: "CLI", mode: implied, access: accessRead, exec: cli, delaysIRQ: true},
	0x59: {"EOR", absoluteY, accessRead, eor, false},
	0x5A: {"NOP", implied, accessRead, nop, false},
	0x5B: {"SRE", absoluteY, accessModify, sre, false},
	0x5C: {"NOP", absoluteX, accessRead, nopRead, false},
	0x5D: {"EOR", absoluteX, accessRead, eor, false},
	0x5E: {"LSR", absoluteX, accessModify, lsr, false},
	0x5F: {"SRE", absoluteX, accessModify, sre, false},
	0x60: {"RTS", implied, accessRead, rts, false},
	0x61: {"ADC", indirectX, accessRead, adc, false},
	0x62: {"KIL", implied, accessRead, kil, false},
	0x63: {"RRA", indirectX, accessModify, rra, false},
	0x64: {"NOP", zeroPage, accessRead, nopRead, false},
	0x65: {"ADC", zeroPage, accessRead, adc, false},
	0x66: {"ROR", zeroPage, accessModify, ror, false},
	0x67: {"RRA", zeroPage, accessModify, rra, false},
	0x68: {"PLA", implied, accessRead, pla, false},
	0x69: {"ADC", immediate, accessRead, adc, false},
	0x6A: {"ROR", accumulator, accessRead, rorA, false},
	0x6B: {"ARR", immediate, accessRead, arr, false},
	0x6C: {"JMP", indirect, accessRead, jmp, false},
	0x6D: {"ADC", absolute, accessRead, adc, false},
	0x6E: {"ROR", absolute, accessModify, ror, false},
	0x6F: {"RRA", absolute, accessModify, rra, false},
	0x70: {"BVS", relative, accessRead, bvs, false},
	0x71: {"ADC", indirectY, accessRead, adc, false},
	0x72: {"KIL", implied, accessRead, kil, false},
	0x73: {"RRA", indirectY, accessModify, rra, false},
	0x74: {"NOP", zeroPageX, accessRead, nopRead, false},
	0x75: {"ADC", zeroPageX, accessRead, adc, false},
	0x76: {"ROR", zeroPageX, accessModify, ror, false},
	0x77: {"RRA", zeroPageX, accessModify, rra, false},
	0x78: {mnemonic: "SEI", mode: implied, access: accessRead, exec: sei, delaysIRQ: true},
	0x79: {"ADC", absoluteY, accessRead, adc, false},
	0x7A: {"NOP", implied, accessRead, nop, false},
	0x7B: {"RRA", absoluteY, accessModify, rra, false},
	0x7C: {"NOP", absoluteX, accessRead, nopRead, false},
	0x7D: {"ADC", absoluteX, accessRead, adc, false},
	0x7E: {"ROR", absoluteX, accessModify, ror, false},
	0x7F: {"RRA", absoluteX, accessModify, rra, false},
	0x80: {"NOP", immediate, accessRead, nopRead, false},
	0x81: {"STA", indirectX, accessWrite, sta, false},
	0x82: {"NOP", immediate, accessRead, nopRead, false},
	0x83: {"SAX", indirectX, accessWrite, sax, false},
	0x84: {"STY", zeroPage, accessWrite, sty, false},
	0x85: {"STA", zeroPage, accessWrite, sta, false},
	0x86: {"STX", zeroPage, accessWrite, stx, false},
	0x87: {"SAX", zeroPage, accessWrite, sax, false},
	0x88: {"DEY", implied, accessRead, dey, false},
	0x89: {"NOP", immediate, accessRead, nopRead, false},
	0x8A: {"TXA", implied, accessRead, txa, false},
	0x8B: {"XAA", immediate, accessRead, xaa, false},
	0x8C: {"STY", absolute, accessWrite, sty, false},
	0x8D: {"STA", absolute, accessWrite, sta, false},
	0x8E: {"STX", absolute, accessWrite, stx, false},
	0x8F: {"SAX", absolute, accessWrite, sax, false},
	0x90: {"BCC", relative, accessRead, bcc, false},
	0x91: {"STA", indirectY, accessWrite, sta, false},
	0x92: {"KIL", implied, accessRead, kil, false},
	0x93: {"SHA", indirectY, accessWrite, sha, false},
	0x94: {"STY", zeroPageX, accessWrite, sty, false},
	0x95: {"STA", zeroPageX, accessWrite, sta, false},
	0x96: {"STX", zeroPageY, accessWrite, stx, false},
	0x97: {"SAX", zeroPageY, accessWrite, sax, false},
	0x98: {"TYA", implied, accessRead, tya, false},
	0x99: {"STA", absoluteY, accessWrite, sta, false},
	0x9A: {"TXS", implied, accessRead, txs, false},
	0x9B: {"TAS", absoluteY, accessWrite, tas, false},
	0x9C: {"SHY", absoluteX, accessWrite, shy, false},
	0x9D: {"STA", absoluteX, accessWrite, sta, false},
	0x9E: {"SHX", absoluteY, accessWrite, shx, false},
	0x9F: {"SHA", absoluteY, accessWrite, sha, false},
	0xA0: {"LDY", immediate, accessRead, ldy, false},
	0xA1: {"LDA", indirectX, accessRead, lda, false},
	0xA2: {"LDX", immediate, accessRead, ldx, false},
	0xA3: {"LAX", indirectX, accessRead, lax, false},
	0xA4: {"LDY", zeroPage, accessRead, ldy, false},
	0xA5: {"LDA", zeroPage, accessRead, lda, false},
	0xA6: {"LDX", zeroPage, accessRead, ldx, false},
	0xA7: {"LAX", zeroPage, accessRead, lax, false},
	0xA8: {"TAY", implied, accessRead, tay, false},
	0xA9: {"LDA", immediate, accessRead, lda, false},
	0xAA: {"TAX", implied, accessRead, tax, false},
	0xAB: {"LXA", immediate, accessRead, lxa, false},
	0xAC: {"LDY", absolute, accessRead, ldy, false},
	0xAD: {"LDA", absolute, accessRead, lda, false},
	0xAE: {"LDX", absolute, accessRead, ldx, false},
	0xAF: {"LAX", absolute, accessRead, lax, false},
	0xB0: {"BCS", relative, accessRead, bcs, false},
	0xB1: {"LDA", indirectY, accessRead, lda, false},
	0xB2: {"KIL", implied, accessRead, kil, false},
	0xB3: {"LAX", indirectY, accessRead, lax, false},
	0xB4: {"LDY", zeroPageX, accessRead, ldy, false},
	0xB5: {"LDA", zeroPageX, accessRead, lda, false},
	0xB6: {"LDX", zeroPageY, accessRead, ldx, false},
	0xB7: {"LAX", zeroPageY, accessRead, lax, false},
	0xB8: {"CLV", implied, accessRead, clv, false},
	0xB9: {"LDA", absoluteY, accessRead, lda, false},
	0xBA: {"TSX", implied, accessRead, tsx, false},
	0xBB: {"LAS", absoluteY, accessRead, las, false},
	0xBC: {"LDY", absoluteX, accessRead, ldy, false},
	0xBD: {"LDA", absoluteX, accessRead, lda, false},
	0xBE: {"LDX", absoluteY, accessRead, ldx, false},
	0xBF: {"LAX", absoluteY, accessRead, lax, false},
	0xC0: {"CPY", immediate, accessRead, cpy, false},
	0xC1: {"CMP", indirectX, accessRead, cmp, false},
	0xC2: {"NOP", immediate, accessRead, nopRead, false},
	0xC3: {"DCP", indirectX, accessModify, dcp, false},
	0xC4: {"CPY", zeroPage, accessRead, cpy, false},
	0xC5: {"CMP", zeroPage, accessRead, cmp, false},
	0xC6: {"DEC", zeroPage, accessModify, dec, false},
	0xC7: {"DCP", zeroPage, accessModify, dcp, false},
	0xC8: {"INY", implied, accessRead, iny, false},
	0xC9: {"CMP", immediate, accessRead, cmp, false},
	0xCA: {"DEX", implied, accessRead, dex, false},
	0xCB: {"AXS", immediate, accessRead, axs, false},
	0xCC: {"CPY", absolute, accessRead, cpy, false},
	0xCD: {"CMP", absolute, accessRead, cmp, false},
	0xCE: {"DEC", absolute, accessModify, dec, false},
	0xCF: {"DCP", absolute, accessModify, dcp, false},
	0xD0: {"BNE", relative, accessRead, bne, false},
	0xD1: {"CMP", indirectY, accessRead, cmp, false},
	0xD2: {"KIL", implied, accessRead, kil, false},
	0xD3: {"DCP", indirectY, accessModify, dcp, false},
	0xD4: {"NOP", zeroPageX, accessRead, nopRead, false},
	0xD5: {"CMP", zeroPageX, accessRead, cmp, false},
	0xD6: {"DEC", zeroPageX, accessModify, dec, false},
	0xD7: {"DCP", zeroPageX, accessModify, dcp, false},
	0xD8: {"CLD", implied, accessRead, cld, false},
	0xD9: {"CMP", absoluteY, accessRead, cmp, false},
	0xDA: {"NOP", implied, accessRead, nop, false},
	0xDB: {"DCP", absoluteY, accessModify, dcp, false},
	0xDC: {"NOP", absoluteX, accessRead, nopRead, false},
	0xDD: {"CMP", absoluteX, accessRead, cmp, false},
	0xDE: {"DEC", absoluteX, accessModify, dec, false},
	0xDF: {"DCP", absoluteX, accessModify, dcp, false},
	0xE0: {"CPX", immediate, accessRead, cpx, false},
	0xE1: {"SBC", indirectX, accessRead, sbc, false},
	0xE2: {"NOP", immediate, accessRead, nopRead, false},
	0xE3: {"ISC", indirectX, accessModify, isc, false},
	0xE4: {"CPX", zeroPage, accessRead, cpx, false},
	0xE5: {"SBC", zeroPage, accessRead, sbc, false},
	0xE6: {"INC", zeroPage, accessModify, inc, false},
	0xE7: {"ISC", zeroPage, accessModify, isc, false},
	0xE8: {"INX", implied, accessRead, inx, false},
	0xE9: {"SBC", immediate, accessRead, sbc, false},
	0xEA: {"NOP", implied, accessRead, nop, false},
	0xEB: {"SBC", immediate, accessRead, sbc, false},
	0xEC: {"CPX", absolute, accessRead, cpx, false},
	0xED: {"SBC", absolute, accessRead, sbc, false},
	0xEE: {"INC", absolute, accessModify, inc, false},
	0xEF: {"ISC", absolute, accessModify, isc, false},
	0xF0: {"BEQ", relative, accessRead, beq, false},
	0xF1: {"SBC", indirectY, accessRead, sbc, false},
	0xF2: {"KIL", implied, accessRead, kil, false},
	0xF3: {"ISC", indirectY, accessModify, isc, false},
	0xF4: {"NOP", zeroPageX, accessRead, nopRead, false},
	0xF5: {"SBC", zeroPageX, accessRead, sbc, false},
	0xF6: {"INC", zeroPageX, accessModify, inc, false},
	0xF7: {"ISC", zeroPageX, accessModify, isc, false},
	0xF8: {"SED", implied, accessRead, sed, false},
	0xF9: {"SBC", absoluteY, accessRead, sbc, false},
	0xFA: {"NOP", implied, accessRead, nop, false},
	0xFB: {"ISC", absoluteY, accessModify, isc, false},
	0xFC: {"NOP", absoluteX, accessRead, nopRead, false},
	0xFD: {"SBC", absoluteX, accessRead, sbc, false},
	0xFE: {"INC", absoluteX, accessModify, inc, false},
	0xFF: {"ISC", absoluteX, accessModify, isc, false},
}
