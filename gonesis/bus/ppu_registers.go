package bus

import (
	"github.com/valerio/gonesis/gonesis/addr"
	"github.com/valerio/gonesis/gonesis/interrupt"
)

// PPUCTRL bits.
const (
	CtrlNametableMask      uint8 = 0x03
	CtrlIncrement32        uint8 = 0x04
	CtrlSpritePatternTable uint8 = 0x08
	CtrlBgPatternTable     uint8 = 0x10
	CtrlTallSprites        uint8 = 0x20
	CtrlNMIEnable          uint8 = 0x80
)

// PPUMASK bits.
const (
	MaskGreyscale       uint8 = 0x01
	MaskShowBgLeft      uint8 = 0x02
	MaskShowSpritesLeft uint8 = 0x04
	MaskShowBg          uint8 = 0x08
	MaskShowSprites     uint8 = 0x10
)

// PPUSTATUS bits.
const (
	StatusSpriteOverflow uint8 = 0x20
	StatusSprite0Hit     uint8 = 0x40
	StatusVBlank         uint8 = 0x80
)

// RegisterAccess records a CPU access the PPU must react to on its next dot:
// scroll and address writes, control writes and data port accesses.
type RegisterAccess struct {
	Register addr.PPURegister
	Value    uint8
	// FirstWrite is the state of the shared write toggle when a PPUSCROLL
	// or PPUADDR write happened.
	FirstWrite bool
}

// PPURegisters is the CPU visible side of the PPU.
//
// Status reads only set a flag here; the vblank bit and the write toggle are
// cleared on the next bus tick, and that is also where the NMI line is
// recomputed from vblank and PPUCTRL.
type PPURegisters struct {
	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	dataBuffer  uint8
	openBus     uint8
	firstWrite  bool
	statusRead  bool
	access      RegisterAccess
	accessValid bool
}

func newPPURegisters() PPURegisters {
	return PPURegisters{
		status:     0xA0,
		firstWrite: true,
	}
}

// Ctrl returns PPUCTRL.
func (r *PPURegisters) Ctrl() uint8 {
	return r.ctrl
}

// Mask returns PPUMASK.
func (r *PPURegisters) Mask() uint8 {
	return r.mask
}

// Status returns PPUSTATUS.
func (r *PPURegisters) Status() uint8 {
	return r.status
}

// RenderingEnabled reports whether either layer is turned on.
func (r *PPURegisters) RenderingEnabled() bool {
	return r.mask&(MaskShowBg|MaskShowSprites) != 0
}

// SetStatusFlag sets or clears one of the PPUSTATUS flags.
func (r *PPURegisters) SetStatusFlag(flag uint8, on bool) {
	if on {
		r.status |= flag
	} else {
		r.status &^= flag
	}
}

// TakeAccess returns the pending register access, if any, and clears it.
func (r *PPURegisters) TakeAccess() (RegisterAccess, bool) {
	if !r.accessValid {
		return RegisterAccess{}, false
	}
	r.accessValid = false
	return r.access, true
}

// OAMAddr returns the current OAM address.
func (r *PPURegisters) OAMAddr() uint8 {
	return r.oamAddr
}

// SetOAMAddr is used by the PPU, which clears OAMADDR during sprite loading.
func (r *PPURegisters) SetOAMAddr(v uint8) {
	r.oamAddr = v
}

func (r *PPURegisters) record(reg addr.PPURegister, value uint8) {
	r.access = RegisterAccess{Register: reg, Value: value, FirstWrite: r.firstWrite}
	r.accessValid = true
}

func (b *Bus) readPPURegister(reg addr.PPURegister) uint8 {
	r := &b.ppuRegisters

	switch reg {
	case addr.PPUCTRL, addr.PPUMASK, addr.OAMADDR, addr.PPUSCROLL, addr.PPUADDR:
		return r.openBus
	case addr.PPUSTATUS:
		r.statusRead = true
		value := (r.status & 0xE0) | (r.openBus & 0x1F)
		r.openBus = value
		return value
	case addr.OAMDATA:
		value := b.oam[r.oamAddr]
		r.openBus = value
		return value
	case addr.PPUDATA:
		address := b.ppuBusAddress & addr.PPUAddressMask
		var value uint8
		if address < addr.PaletteStart {
			value = r.dataBuffer
			r.dataBuffer = b.PPURead(address)
		} else {
			// palette reads bypass the buffer, which is refilled from the
			// nametable underneath
			value = b.readPalette(address) | (r.openBus & 0xC0)
			r.dataBuffer = b.PPURead(address - 0x1000)
		}
		r.openBus = value
		r.record(addr.PPUDATA, value)
		return value
	default:
		panic("unreachable PPU register")
	}
}

func (b *Bus) writePPURegister(reg addr.PPURegister, value uint8) {
	r := &b.ppuRegisters
	r.openBus = value

	switch reg {
	case addr.PPUCTRL:
		r.ctrl = value
		r.record(reg, value)
	case addr.PPUMASK:
		r.mask = value
	case addr.PPUSTATUS:
	case addr.OAMADDR:
		r.oamAddr = value
	case addr.OAMDATA:
		b.oam[r.oamAddr] = value
		r.oamAddr++
	case addr.PPUSCROLL, addr.PPUADDR:
		r.record(reg, value)
		r.firstWrite = !r.firstWrite
	case addr.PPUDATA:
		b.PPUWrite(b.ppuBusAddress&addr.PPUAddressMask, value)
		r.record(reg, value)
	}
}

// tick applies delayed status read side effects and drives the NMI line.
func (r *PPURegisters) tick(lines *interrupt.Lines) {
	if r.statusRead {
		r.statusRead = false
		r.status &^= StatusVBlank
		r.firstWrite = true
	}

	if r.status&StatusVBlank != 0 && r.ctrl&CtrlNMIEnable != 0 {
		lines.SetNMILine(interrupt.Low)
	} else {
		lines.SetNMILine(interrupt.High)
	}
}
