package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flags struct {
	c, z, v, n bool
}

func (c *CPU) flags() flags {
	return flags{
		c: c.isSetFlag(carryFlag),
		z: c.isSetFlag(zeroFlag),
		v: c.isSetFlag(overflowFlag),
		n: c.isSetFlag(negativeFlag),
	}
}

func TestAddWithCarry(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint8
		a, m    uint8
		carry   bool
		want    uint8
		wantFlg flags
	}{
		{"ADC simple", 0x69, 0x10, 0x20, false, 0x30, flags{}},
		{"ADC carry in", 0x69, 0x10, 0x20, true, 0x31, flags{}},
		{"ADC carry out", 0x69, 0xFF, 0x01, false, 0x00, flags{c: true, z: true}},
		{"ADC signed overflow", 0x69, 0x7F, 0x01, false, 0x80, flags{v: true, n: true}},
		{"ADC negative overflow", 0x69, 0x80, 0xFF, false, 0x7F, flags{c: true, v: true}},
		{"SBC no borrow", 0xE9, 0x50, 0x10, true, 0x40, flags{c: true}},
		{"SBC borrow", 0xE9, 0x10, 0x20, true, 0xF0, flags{n: true}},
		{"SBC borrow in", 0xE9, 0x10, 0x10, false, 0xFF, flags{n: true}},
		{"SBC signed overflow", 0xE9, 0x80, 0x01, true, 0x7F, flags{c: true, v: true}},
		{"SBC unofficial", 0xEB, 0x05, 0x05, true, 0x00, flags{c: true, z: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(t, tt.opcode, tt.m)
			c.a = tt.a
			c.setFlagToCondition(carryFlag, tt.carry)

			c.Step()
			assert.Equal(t, tt.want, c.a)
			assert.Equal(t, tt.wantFlg, c.flags())
		})
	}
}

func TestShiftsAndRotates(t *testing.T) {
	tests := []struct {
		name      string
		opcode    uint8
		a         uint8
		carry     bool
		want      uint8
		wantCarry bool
	}{
		{"ASL", 0x0A, 0x81, false, 0x02, true},
		{"LSR", 0x4A, 0x81, false, 0x40, true},
		{"ROL", 0x2A, 0x40, true, 0x81, false},
		{"ROR", 0x6A, 0x02, true, 0x81, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCPU(t, tt.opcode)
			c.a = tt.a
			c.setFlagToCondition(carryFlag, tt.carry)

			c.Step()
			assert.Equal(t, tt.want, c.a)
			assert.Equal(t, tt.wantCarry, c.isSetFlag(carryFlag))
		})
	}
}

func TestCompareAndBit(t *testing.T) {
	c, b := newTestCPU(t, 0xC9, 0x40, 0xE0, 0x05, 0x2C, 0x00, 0x02)
	b.mem[0x0200] = 0xC0
	c.a = 0x40
	c.x = 0x04

	c.Step()
	assert.Equal(t, flags{c: true, z: true}, c.flags())

	c.Step()
	assert.Equal(t, flags{n: true}, c.flags(), "0x04 - 0x05 borrows")

	c.Step()
	assert.Equal(t, flags{z: false, v: true, n: true}, c.flags())
}

func TestStackStatusBits(t *testing.T) {
	c, b := newTestCPU(t, 0x08, 0x28)
	c.Step()
	assert.Equal(t, uint8(0x34), b.mem[0x01FD], "PHP sets B and the unused bit")

	b.mem[0x01FD] = 0xFF
	c.Step()
	assert.Equal(t, uint8(0xEF), c.p, "PLP drops B")
}

func TestUnofficialInstructions(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		mem     uint8
		a, x    uint8
		wantA   uint8
		wantX   uint8
		wantMem uint8
	}{
		{"LAX", []uint8{0xA7, 0x10}, 0x8F, 0, 0, 0x8F, 0x8F, 0x8F},
		{"SAX", []uint8{0x87, 0x10}, 0x00, 0xF0, 0x3C, 0xF0, 0x3C, 0x30},
		{"DCP", []uint8{0xC7, 0x10}, 0x11, 0x10, 0, 0x10, 0, 0x10},
		{"ISC", []uint8{0xE7, 0x10}, 0x0F, 0x20, 0, 0x0F, 0, 0x10},
		{"SLO", []uint8{0x07, 0x10}, 0x41, 0x01, 0, 0x83, 0, 0x82},
		{"RLA", []uint8{0x27, 0x10}, 0x41, 0xFF, 0, 0x82, 0, 0x82},
		{"SRE", []uint8{0x47, 0x10}, 0x42, 0xFF, 0, 0xDE, 0, 0x21},
		{"RRA", []uint8{0x67, 0x10}, 0x02, 0x01, 0, 0x02, 0, 0x01},
		{"ANC", []uint8{0x0B, 0x80}, 0, 0xFF, 0, 0x80, 0, 0},
		{"ALR", []uint8{0x4B, 0x0F}, 0, 0xFF, 0, 0x07, 0, 0},
		{"AXS", []uint8{0xCB, 0x01}, 0, 0x0F, 0x03, 0x0F, 0x02, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b := newTestCPU(t, tt.program...)
			b.mem[0x10] = tt.mem
			c.a, c.x = tt.a, tt.x

			c.Step()
			assert.Equal(t, tt.wantA, c.a)
			assert.Equal(t, tt.wantX, c.x)
			assert.Equal(t, tt.wantMem, b.mem[0x10])
		})
	}
}

func TestStoreHighPageCrossing(t *testing.T) {
	c, b := newTestCPU(t, 0x9E, 0xF0, 0x02)
	c.x = 0x01
	c.y = 0x20

	c.Step()
	assert.Equal(t, uint8(0x01), b.mem[0x0110], "high byte replaced by X & (0x02+1)")
}

func TestOpcodeTableComplete(t *testing.T) {
	for i, in := range opcodes {
		assert.NotNil(t, in.exec, "opcode 0x%02X", i)
		assert.NotEmpty(t, in.mnemonic, "opcode 0x%02X", i)
	}
}
